package workbook

import (
	"strconv"
	"strings"
)

// tableState is the host's record of one table. The excelize table part is
// rewritten from it at commit time whenever Dirty is set.
type tableState struct {
	Name  string
	Sheet string
	X1    int
	Y1    int
	X2    int
	Y2    int
	// Stored is the name of the table part currently in the file, empty when
	// the table has not been committed yet.
	Stored string
	Dirty  bool
	// Filters maps a zero-based column offset to the values it keeps.
	Filters map[int][]string
}

func (t *tableState) width() int {
	return t.X2 - t.X1 + 1
}

func (t *tableState) bodyRows() int {
	return t.Y2 - t.Y1
}

func (t *tableState) bounds() area {
	return area{Sheet: t.Sheet, X1: t.X1, Y1: t.Y1, X2: t.X2, Y2: t.Y2}
}

// registry holds host state that excelize does not model directly. It is
// deep-copied into every snapshot.
type registry struct {
	Tables []*tableState
	Charts []*chartState
}

func (r *registry) table(name string) *tableState {
	for _, t := range r.Tables {
		if strings.EqualFold(t.Name, name) {
			return t
		}
	}
	return nil
}

func (r *registry) sheetTables(sheet string) []*tableState {
	var out []*tableState
	for _, t := range r.Tables {
		if t.Sheet == sheet {
			out = append(out, t)
		}
	}
	return out
}

// nextTableName returns the first free "TableN" name.
func (r *registry) nextTableName() string {
	for i := 1; ; i++ {
		name := "Table" + strconv.Itoa(i)
		if r.table(name) == nil {
			return name
		}
	}
}
