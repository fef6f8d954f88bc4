package workbook

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ukaji3/exbatch-go/pkg/exbatch/batch"
	"github.com/xuri/excelize/v2"
)

// area is a rectangular block of cells on one sheet, 1-based and inclusive.
type area struct {
	Sheet string
	X1    int
	Y1    int
	X2    int
	Y2    int
}

func (a area) rows() int { return a.Y2 - a.Y1 + 1 }

func (a area) cols() int { return a.X2 - a.X1 + 1 }

func (a area) intersects(b area) bool {
	return a.Sheet == b.Sheet && a.X1 <= b.X2 && b.X1 <= a.X2 && a.Y1 <= b.Y2 && b.Y1 <= a.Y2
}

// Ref renders the area as "A1:D8" (or "A1" for a single cell).
func (a area) Ref() string {
	start, _ := excelize.CoordinatesToCellName(a.X1, a.Y1)
	if a.X1 == a.X2 && a.Y1 == a.Y2 {
		return start
	}
	end, _ := excelize.CoordinatesToCellName(a.X2, a.Y2)
	return start + ":" + end
}

// Address renders the area with its sheet, as "Sheet1!A1:D8".
func (a area) Address() string {
	return quoteSheet(a.Sheet) + "!" + a.Ref()
}

// absRef renders the area as "'Sheet1'!$A$1:$D$8" for chart series.
func (a area) absRef() string {
	start, _ := excelize.CoordinatesToCellName(a.X1, a.Y1, true)
	end, _ := excelize.CoordinatesToCellName(a.X2, a.Y2, true)
	return "'" + strings.ReplaceAll(a.Sheet, "'", "''") + "'!" + start + ":" + end
}

func quoteSheet(sheet string) string {
	if strings.ContainsAny(sheet, " '!") {
		return "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
	}
	return sheet
}

// parseArea parses "A1", "A1:D8" or "$A$1:$D$8" on sheet. Reversed corners
// are normalized.
func parseArea(sheet, ref string) (area, error) {
	ref = strings.ReplaceAll(strings.TrimSpace(ref), "$", "")
	if idx := strings.LastIndex(ref, "!"); idx >= 0 {
		ref = ref[idx+1:]
	}
	parts := strings.Split(ref, ":")
	if len(parts) > 2 || parts[0] == "" {
		return area{}, fmt.Errorf("invalid range %q", ref)
	}
	x1, y1, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return area{}, err
	}
	x2, y2 := x1, y1
	if len(parts) == 2 {
		if x2, y2, err = excelize.CellNameToCoordinates(parts[1]); err != nil {
			return area{}, err
		}
	}
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return area{Sheet: sheet, X1: x1, Y1: y1, X2: x2, Y2: y2}, nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// cell is a raw cell value with its style, used to move cells around.
type cell struct {
	Value any
	Style int
}

// readValue returns the typed value of a cell: nil, bool, float64 or string.
func (x *execution) readValue(sheet string, col, row int) (any, error) {
	name := cellName(col, row)
	raw, err := x.f().GetCellValue(sheet, name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	typ, err := x.f().GetCellType(sheet, name)
	if err != nil {
		return nil, err
	}
	switch typ {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true"), nil
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return n, nil
		}
	}
	return raw, nil
}

func (x *execution) readCell(sheet string, col, row int) (cell, error) {
	v, err := x.readValue(sheet, col, row)
	if err != nil {
		return cell{}, err
	}
	style, err := x.f().GetCellStyle(sheet, cellName(col, row))
	if err != nil {
		return cell{}, err
	}
	return cell{Value: v, Style: style}, nil
}

func (x *execution) writeCell(sheet string, col, row int, c cell) error {
	name := cellName(col, row)
	if err := x.f().SetCellValue(sheet, name, c.Value); err != nil {
		return err
	}
	return x.f().SetCellStyle(sheet, name, name, c.Style)
}

// writeValue stores v the way the host would on assignment: numeric strings
// become numbers, everything else is kept as given.
func (x *execution) writeValue(sheet string, col, row int, v any) error {
	return x.f().SetCellValue(sheet, cellName(col, row), coerce(v))
}

func coerce(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return t
		}
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return n
		}
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case int32:
		return float64(t)
	case float32:
		return float64(t)
	case float64, bool:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// rowEmpty reports whether columns x1..x2 of row hold no values.
func (x *execution) rowEmpty(sheet string, x1, x2, row int) (bool, error) {
	for col := x1; col <= x2; col++ {
		v, err := x.readValue(sheet, col, row)
		if err != nil {
			return false, err
		}
		if v != nil {
			return false, nil
		}
	}
	return true, nil
}

// shiftDown moves rows from..to (inclusive) of columns x1..x2 down by n rows,
// carrying values, styles and row visibility, and clears the vacated cells.
func (x *execution) shiftDown(sheet string, x1, x2, from, to, n int) error {
	for row := to; row >= from; row-- {
		for col := x1; col <= x2; col++ {
			c, err := x.readCell(sheet, col, row)
			if err != nil {
				return err
			}
			if err := x.writeCell(sheet, col, row+n, c); err != nil {
				return err
			}
			if err := x.writeCell(sheet, col, row, cell{}); err != nil {
				return err
			}
		}
		visible, err := x.f().GetRowVisible(sheet, row)
		if err != nil {
			return err
		}
		if err := x.f().SetRowVisible(sheet, row+n, visible); err != nil {
			return err
		}
		if err := x.f().SetRowVisible(sheet, row, true); err != nil {
			return err
		}
	}
	return nil
}

// sameDims checks that a 2D array matches a; a 1x1 array always matches.
func sameDims[T any](a area, values [][]T) (broadcast bool, err error) {
	if len(values) == 1 && len(values[0]) == 1 {
		return true, nil
	}
	if len(values) != a.rows() {
		return false, batch.Errorf(batch.CodeInvalidArgument,
			"the number of rows in the value array (%d) does not match the range (%d)", len(values), a.rows())
	}
	for i, row := range values {
		if len(row) != a.cols() {
			return false, batch.Errorf(batch.CodeInvalidArgument,
				"row %d of the value array has %d columns, the range has %d", i, len(row), a.cols())
		}
	}
	return false, nil
}
