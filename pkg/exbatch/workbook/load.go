package workbook

import (
	"github.com/ukaji3/exbatch-go/pkg/exbatch/batch"
)

func (x *execution) loadRange(c batch.LoadRange) error {
	a, err := x.rangeOf(c.Range)
	if err != nil {
		return err
	}
	if c.Into == nil {
		return batch.Errorf(batch.CodeInvalidArgument, "load has no destination")
	}
	d := c.Into
	d.Address = a.Address()
	d.Rows, d.Values, d.Text, d.NumberFormat = nil, nil, nil, nil
	filled := 0
	if c.VisibleOnly {
		rows, err := x.f().GetRows(a.Sheet)
		if err != nil {
			return err
		}
		filled = len(rows)
	}
	for row := a.Y1; row <= a.Y2; row++ {
		// Rows past the sheet data have no visibility of their own.
		if c.VisibleOnly && row <= filled {
			visible, err := x.f().GetRowVisible(a.Sheet, row)
			if err != nil {
				return err
			}
			if !visible {
				continue
			}
		}
		values := make([]any, 0, a.cols())
		texts := make([]string, 0, a.cols())
		formats := make([]string, 0, a.cols())
		for col := a.X1; col <= a.X2; col++ {
			v, err := x.readValue(a.Sheet, col, row)
			if err != nil {
				return err
			}
			text, err := x.f().GetCellValue(a.Sheet, cellName(col, row))
			if err != nil {
				return err
			}
			code, err := x.numberFormat(a.Sheet, col, row)
			if err != nil {
				return err
			}
			values = append(values, v)
			texts = append(texts, text)
			formats = append(formats, code)
		}
		d.Rows = append(d.Rows, row)
		d.Values = append(d.Values, values)
		d.Text = append(d.Text, texts)
		d.NumberFormat = append(d.NumberFormat, formats)
	}
	return nil
}
