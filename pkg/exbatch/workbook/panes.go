package workbook

import (
	"github.com/ukaji3/exbatch-go/pkg/exbatch/batch"
	"github.com/xuri/excelize/v2"
)

func (x *execution) freezeRows(c batch.FreezeRows) error {
	sheet, err := x.sheet(c.Sheet)
	if err != nil {
		return err
	}
	if c.Count < 1 || c.Count >= excelize.TotalRows {
		return batch.Errorf(batch.CodeInvalidArgument, "cannot freeze %d rows", c.Count)
	}
	topLeft := cellName(1, c.Count+1)
	return x.f().SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      c.Count,
		TopLeftCell: topLeft,
		ActivePane:  "bottomLeft",
		Selection: []excelize.Selection{
			{SQRef: topLeft, ActiveCell: topLeft, Pane: "bottomLeft"},
		},
	})
}

func (x *execution) unfreeze(c batch.Unfreeze) error {
	sheet, err := x.sheet(c.Sheet)
	if err != nil {
		return err
	}
	return x.f().SetPanes(sheet, &excelize.Panes{})
}
