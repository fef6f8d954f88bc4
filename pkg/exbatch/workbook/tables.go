package workbook

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ukaji3/exbatch-go/pkg/exbatch/batch"
	"github.com/xuri/excelize/v2"
)

const maxTableNameLength = 255

func (x *execution) addTable(c batch.AddTable) error {
	sheet, err := x.sheet(c.Sheet)
	if err != nil {
		return err
	}
	a, err := parseArea(sheet, c.Address)
	if err != nil {
		return batch.Errorf(batch.CodeInvalidArgument, "%v", err)
	}
	for _, t := range x.w.reg.sheetTables(sheet) {
		if t.bounds().intersects(a) {
			return batch.Errorf(batch.CodeInvalidOperation, "a table can't overlap another table (%s)", t.Name)
		}
	}

	if !c.HasHeaders {
		// The addressed cells become data; a generated header row goes on top.
		empty, err := x.rowEmpty(sheet, a.X1, a.X2, a.Y2+1)
		if err != nil {
			return err
		}
		if !empty {
			return batch.Errorf(batch.CodeInvalidOperation, "cannot insert a header row: row %d is not empty", a.Y2+1)
		}
		if err := x.shiftDown(sheet, a.X1, a.X2, a.Y1, a.Y2, 1); err != nil {
			return err
		}
		a.Y2++
	}
	if err := x.normalizeHeader(sheet, a.X1, a.X2, a.Y1); err != nil {
		return err
	}
	if a.Y1 == a.Y2 {
		a.Y2++
	}

	t := &tableState{
		Name:  x.w.reg.nextTableName(),
		Sheet: sheet,
		X1:    a.X1,
		Y1:    a.Y1,
		X2:    a.X2,
		Y2:    a.Y2,
		Dirty: true,
	}
	x.w.reg.Tables = append(x.w.reg.Tables, t)
	x.bind(c.Out, t)
	return nil
}

// normalizeHeader gives empty or repeated header cells a ColumnN label.
func (x *execution) normalizeHeader(sheet string, x1, x2, row int) error {
	seen := make(map[string]bool)
	for col := x1; col <= x2; col++ {
		v, err := x.readValue(sheet, col, row)
		if err != nil {
			return err
		}
		label := ""
		if v != nil {
			label = fmt.Sprint(v)
		}
		if label == "" || seen[strings.ToLower(label)] {
			label = "Column" + strconv.Itoa(col-x1+1)
		}
		seen[strings.ToLower(label)] = true
		if err := x.f().SetCellStr(sheet, cellName(col, row), label); err != nil {
			return err
		}
	}
	return nil
}

func (x *execution) getTable(c batch.GetTable) error {
	sheet, err := x.sheet(c.Sheet)
	if err != nil {
		return err
	}
	t := x.w.reg.table(c.Name)
	if t == nil || t.Sheet != sheet {
		return batch.Errorf(batch.CodeItemNotFound, "table %q does not exist on %s", c.Name, sheet)
	}
	x.bind(c.Out, t)
	return nil
}

func (x *execution) setTableName(c batch.SetTableName) error {
	t, err := x.table(c.Table)
	if err != nil {
		return err
	}
	if err := checkTableName(c.Name); err != nil {
		return err
	}
	if other := x.w.reg.table(c.Name); other != nil && other != t {
		return batch.Errorf(batch.CodeItemAlreadyExists, "a table named %q already exists", c.Name)
	}
	t.Name = c.Name
	t.Dirty = true
	return nil
}

// checkTableName applies the host's naming rules: a leading letter or
// underscore, no spaces, and at most 255 characters.
func checkTableName(name string) error {
	if name == "" || utf8.RuneCountInString(name) > maxTableNameLength {
		return batch.Errorf(batch.CodeInvalidArgument, "invalid table name %q", name)
	}
	for i, r := range name {
		ok := unicode.IsLetter(r) || r == '_' || r == '\\'
		if i > 0 {
			ok = ok || unicode.IsDigit(r) || r == '.'
		}
		if !ok {
			return batch.Errorf(batch.CodeInvalidArgument, "invalid table name %q", name)
		}
	}
	if _, _, err := excelize.CellNameToCoordinates(name); err == nil {
		return batch.Errorf(batch.CodeInvalidArgument, "table name %q looks like a cell reference", name)
	}
	return nil
}

func (x *execution) getTableRange(c batch.GetTableRange) error {
	t, err := x.table(c.Table)
	if err != nil {
		return err
	}
	a := t.bounds()
	switch c.Part {
	case batch.PartHeader:
		a.Y2 = a.Y1
	case batch.PartBody:
		a.Y1++
	}
	x.bind(c.Out, a)
	return nil
}

// headerLabels reads the current header row of t.
func (x *execution) headerLabels(t *tableState) ([]string, error) {
	labels := make([]string, 0, t.width())
	for col := t.X1; col <= t.X2; col++ {
		v, err := x.readValue(t.Sheet, col, t.Y1)
		if err != nil {
			return nil, err
		}
		if v == nil {
			labels = append(labels, "")
			continue
		}
		labels = append(labels, fmt.Sprint(v))
	}
	return labels, nil
}

func (x *execution) getColumn(c batch.GetColumn) error {
	t, err := x.table(c.Table)
	if err != nil {
		return err
	}
	labels, err := x.headerLabels(t)
	if err != nil {
		return err
	}
	for i, label := range labels {
		if strings.EqualFold(label, c.Name) {
			x.bind(c.Out, columnBinding{table: t, offset: i})
			return nil
		}
	}
	return batch.Errorf(batch.CodeItemNotFound, "column %q does not exist in table %s", c.Name, t.Name)
}

func (x *execution) getColumnAt(c batch.GetColumnAt) error {
	t, err := x.table(c.Table)
	if err != nil {
		return err
	}
	if c.Index < 0 || c.Index >= t.width() {
		return batch.Errorf(batch.CodeItemNotFound, "column index %d is out of range for table %s", c.Index, t.Name)
	}
	x.bind(c.Out, columnBinding{table: t, offset: c.Index})
	return nil
}

func (x *execution) getColumnRange(c batch.GetColumnRange) error {
	col, err := x.column(c.Column)
	if err != nil {
		return err
	}
	a := col.table.bounds()
	a.X1 += col.offset
	a.X2 = a.X1
	if c.Part == batch.PartBody {
		a.Y1++
	}
	x.bind(c.Out, a)
	return nil
}

func (x *execution) addTableRows(c batch.AddTableRows) error {
	t, err := x.table(c.Table)
	if err != nil {
		return err
	}
	if len(c.Values) == 0 {
		return batch.Errorf(batch.CodeInvalidArgument, "no rows to add")
	}
	for i, row := range c.Values {
		if len(row) != t.width() {
			return batch.Errorf(batch.CodeInvalidArgument,
				"row %d has %d values, table %s has %d columns", i, len(row), t.Name, t.width())
		}
	}

	body := t.bodyRows()
	placeholder := false
	if body == 1 {
		empty, err := x.rowEmpty(t.Sheet, t.X1, t.X2, t.Y1+1)
		if err != nil {
			return err
		}
		if empty {
			placeholder = true
			body = 0
		}
	}
	pos := body
	if c.Index != nil {
		if *c.Index < 0 || *c.Index > body {
			return batch.Errorf(batch.CodeInvalidArgument, "row index %d is out of range", *c.Index)
		}
		pos = *c.Index
	}

	n := len(c.Values)
	newY2 := t.Y1 + body + n
	for row := t.Y2 + 1; row <= newY2; row++ {
		empty, err := x.rowEmpty(t.Sheet, t.X1, t.X2, row)
		if err != nil {
			return err
		}
		if !empty {
			return batch.Errorf(batch.CodeInvalidOperation,
				"adding rows to %s would overwrite data in row %d", t.Name, row)
		}
	}
	if !placeholder && pos < body {
		if err := x.shiftDown(t.Sheet, t.X1, t.X2, t.Y1+1+pos, t.Y1+body, n); err != nil {
			return err
		}
	}
	for i, values := range c.Values {
		row := t.Y1 + 1 + pos + i
		for j, v := range values {
			if err := x.writeValue(t.Sheet, t.X1+j, row, v); err != nil {
				return err
			}
		}
	}
	t.Y2 = newY2
	t.Dirty = true
	return nil
}

// dropTablePart removes the committed table part of t, if any.
func (x *execution) dropTablePart(t *tableState) error {
	if t.Stored == "" {
		return nil
	}
	if err := x.f().DeleteTable(t.Stored); err != nil {
		return err
	}
	t.Stored = ""
	return nil
}

// commitTable writes the table part for the current state of t.
func (x *execution) commitTable(t *tableState) error {
	if err := x.f().AddTable(t.Sheet, &excelize.Table{
		Range:     t.bounds().Ref(),
		Name:      t.Name,
		StyleName: DefaultTableStyle,
	}); err != nil {
		return err
	}
	t.Stored = t.Name
	t.Dirty = false
	return nil
}

// markHeaderWrites flags tables whose header row intersects a.
func (x *execution) markHeaderWrites(a area) {
	for _, t := range x.w.reg.sheetTables(a.Sheet) {
		header := t.bounds()
		header.Y2 = header.Y1
		if header.intersects(a) {
			t.Dirty = true
		}
	}
}
