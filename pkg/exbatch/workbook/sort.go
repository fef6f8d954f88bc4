package workbook

import (
	"cmp"
	"slices"
	"strings"

	"github.com/ukaji3/exbatch-go/pkg/exbatch/batch"
)

// sortRow is one table body row in flight; its visibility moves with it.
type sortRow struct {
	cells   []cell
	visible bool
}

func (x *execution) applySort(c batch.ApplySort) error {
	t, err := x.table(c.Table)
	if err != nil {
		return err
	}
	if len(c.Fields) == 0 {
		return batch.Errorf(batch.CodeInvalidArgument, "sort needs at least one field")
	}
	for _, f := range c.Fields {
		if f.Key < 0 || f.Key >= t.width() {
			return batch.Errorf(batch.CodeInvalidArgument, "sort key %d is out of range for table %s", f.Key, t.Name)
		}
	}

	rows := make([]sortRow, 0, t.bodyRows())
	for row := t.Y1 + 1; row <= t.Y2; row++ {
		visible, err := x.f().GetRowVisible(t.Sheet, row)
		if err != nil {
			return err
		}
		r := sortRow{cells: make([]cell, 0, t.width()), visible: visible}
		for col := t.X1; col <= t.X2; col++ {
			cl, err := x.readCell(t.Sheet, col, row)
			if err != nil {
				return err
			}
			r.cells = append(r.cells, cl)
		}
		rows = append(rows, r)
	}

	slices.SortStableFunc(rows, func(a, b sortRow) int {
		for _, f := range c.Fields {
			if r := compareSortValues(a.cells[f.Key].Value, b.cells[f.Key].Value, f.Ascending, c.MatchCase); r != 0 {
				return r
			}
		}
		return 0
	})

	for i, r := range rows {
		row := t.Y1 + 1 + i
		for j, cl := range r.cells {
			if err := x.writeCell(t.Sheet, t.X1+j, row, cl); err != nil {
				return err
			}
		}
		if err := x.f().SetRowVisible(t.Sheet, row, r.visible); err != nil {
			return err
		}
	}
	if len(t.Filters) > 0 {
		return x.refreshVisibility(t)
	}
	return nil
}

// sortRank orders value kinds: numbers, then text, then booleans. Blanks
// are handled separately and always sort last.
func sortRank(v any) int {
	switch v.(type) {
	case float64:
		return 0
	case string:
		return 1
	case bool:
		return 2
	default:
		return 3
	}
}

func compareSortValues(a, b any, ascending, matchCase bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	r := compareValues(a, b, matchCase)
	if !ascending {
		r = -r
	}
	return r
}

func compareValues(a, b any, matchCase bool) int {
	if ra, rb := sortRank(a), sortRank(b); ra != rb {
		return cmp.Compare(ra, rb)
	}
	switch av := a.(type) {
	case float64:
		return cmp.Compare(av, b.(float64))
	case string:
		bv := b.(string)
		if !matchCase {
			av, bv = strings.ToLower(av), strings.ToLower(bv)
		}
		return strings.Compare(av, bv)
	case bool:
		bv := b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		default:
			return 1
		}
	}
	return 0
}
