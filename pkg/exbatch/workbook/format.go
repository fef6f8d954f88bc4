package workbook

import (
	"strings"
	"unicode/utf8"

	"github.com/ukaji3/exbatch-go/pkg/exbatch/batch"
	"github.com/xuri/excelize/v2"
)

const (
	minColumnWidth = 2
	maxColumnWidth = 255
	lineHeight     = 15
	maxRowHeight   = 409
)

// builtinNumFmts names the built-in number formats reported by loads.
var builtinNumFmts = map[int]string{
	0:  "General",
	1:  "0",
	2:  "0.00",
	3:  "#,##0",
	4:  "#,##0.00",
	9:  "0%",
	10: "0.00%",
	11: "0.00E+00",
	14: "mm-dd-yy",
	22: "m/d/yy h:mm",
	49: "@",
}

func (x *execution) setValues(c batch.SetValues) error {
	a, err := x.rangeOf(c.Range)
	if err != nil {
		return err
	}
	broadcast, err := sameDims(a, c.Values)
	if err != nil {
		return err
	}
	for i := 0; i < a.rows(); i++ {
		for j := 0; j < a.cols(); j++ {
			v := c.Values[0][0]
			if !broadcast {
				v = c.Values[i][j]
			}
			if err := x.writeValue(a.Sheet, a.X1+j, a.Y1+i, v); err != nil {
				return err
			}
		}
	}
	x.markHeaderWrites(a)
	return nil
}

func (x *execution) setNumberFormat(c batch.SetNumberFormat) error {
	a, err := x.rangeOf(c.Range)
	if err != nil {
		return err
	}
	broadcast, err := sameDims(a, c.Formats)
	if err != nil {
		return err
	}
	for i := 0; i < a.rows(); i++ {
		for j := 0; j < a.cols(); j++ {
			code := c.Formats[0][0]
			if !broadcast {
				code = c.Formats[i][j]
			}
			if err := x.setCellNumberFormat(a.Sheet, a.X1+j, a.Y1+i, code); err != nil {
				return err
			}
		}
	}
	return nil
}

// setCellNumberFormat keeps the cell's other style settings and swaps its
// number format.
func (x *execution) setCellNumberFormat(sheet string, col, row int, code string) error {
	name := cellName(col, row)
	current, err := x.f().GetCellStyle(sheet, name)
	if err != nil {
		return err
	}
	style, err := x.f().GetStyle(current)
	if err != nil {
		return err
	}
	style.NumFmt = 0
	style.CustomNumFmt = nil
	style.DecimalPlaces = nil
	style.NegRed = false
	if code != "" && !strings.EqualFold(code, "General") {
		c := code
		style.CustomNumFmt = &c
	}
	id, err := x.f().NewStyle(style)
	if err != nil {
		return batch.Errorf(batch.CodeInvalidArgument, "number format %q: %v", code, err)
	}
	return x.f().SetCellStyle(sheet, name, name, id)
}

// numberFormat returns the format code applied to a cell.
func (x *execution) numberFormat(sheet string, col, row int) (string, error) {
	id, err := x.f().GetCellStyle(sheet, cellName(col, row))
	if err != nil {
		return "", err
	}
	style, err := x.f().GetStyle(id)
	if err != nil {
		return "", err
	}
	if style.CustomNumFmt != nil {
		return *style.CustomNumFmt, nil
	}
	if code, ok := builtinNumFmts[style.NumFmt]; ok {
		return code, nil
	}
	return "General", nil
}

// autofitColumns sizes each column of the range to its longest displayed
// value.
func (x *execution) autofitColumns(c batch.AutofitColumns) error {
	a, err := x.rangeOf(c.Range)
	if err != nil {
		return err
	}
	for col := a.X1; col <= a.X2; col++ {
		longest := 0
		for row := a.Y1; row <= a.Y2; row++ {
			text, err := x.f().GetCellValue(a.Sheet, cellName(col, row))
			if err != nil {
				return err
			}
			for _, line := range strings.Split(text, "\n") {
				longest = max(longest, utf8.RuneCountInString(line))
			}
		}
		width := min(max(float64(longest+2), minColumnWidth), maxColumnWidth)
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return err
		}
		if err := x.f().SetColWidth(a.Sheet, name, name, width); err != nil {
			return err
		}
	}
	return nil
}

// autofitRows sizes each row of the range to its tallest multi-line value.
func (x *execution) autofitRows(c batch.AutofitRows) error {
	a, err := x.rangeOf(c.Range)
	if err != nil {
		return err
	}
	for row := a.Y1; row <= a.Y2; row++ {
		lines := 1
		for col := a.X1; col <= a.X2; col++ {
			text, err := x.f().GetCellValue(a.Sheet, cellName(col, row))
			if err != nil {
				return err
			}
			lines = max(lines, strings.Count(text, "\n")+1)
		}
		height := min(float64(lines*lineHeight), maxRowHeight)
		if err := x.f().SetRowHeight(a.Sheet, row, height); err != nil {
			return err
		}
	}
	return nil
}
