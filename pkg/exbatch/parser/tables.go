package parser

import (
	"strings"

	"github.com/ukaji3/exbatch-go/pkg/exbatch/models"
	"github.com/xuri/excelize/v2"
)

// ExtractTables returns the table parts of a sheet with their header labels.
func ExtractTables(f *excelize.File, sheetName string) ([]models.Table, error) {
	tables, err := f.GetTables(sheetName)
	if err != nil {
		return nil, err
	}

	result := make([]models.Table, 0, len(tables))
	for _, t := range tables {
		x1, y1, x2, y2, err := rangeBounds(t.Range)
		if err != nil {
			return nil, err
		}

		columns := make([]string, 0, x2-x1+1)
		for col := x1; col <= x2; col++ {
			cellName, _ := excelize.CoordinatesToCellName(col, y1)
			label, err := f.GetCellValue(sheetName, cellName)
			if err != nil {
				return nil, err
			}
			columns = append(columns, label)
		}

		result = append(result, models.Table{
			Name:    t.Name,
			Range:   t.Range,
			Style:   t.StyleName,
			Columns: columns,
			Rows:    y2 - y1,
		})
	}
	return result, nil
}

// ExtractPanes returns the pane settings of a sheet, or nil when the sheet
// has neither frozen nor split panes.
func ExtractPanes(f *excelize.File, sheetName string) (*models.Panes, error) {
	panes, err := f.GetPanes(sheetName)
	if err != nil {
		return nil, err
	}
	if !panes.Freeze && !panes.Split && panes.XSplit == 0 && panes.YSplit == 0 {
		return nil, nil
	}
	return &models.Panes{
		Freeze:      panes.Freeze,
		XSplit:      panes.XSplit,
		YSplit:      panes.YSplit,
		TopLeftCell: panes.TopLeftCell,
	}, nil
}

// rangeBounds parses "A1:D8" into its corner coordinates.
func rangeBounds(ref string) (x1, y1, x2, y2 int, err error) {
	first, last, found := strings.Cut(ref, ":")
	if !found {
		last = first
	}
	if x1, y1, err = excelize.CellNameToCoordinates(first); err != nil {
		return
	}
	x2, y2, err = excelize.CellNameToCoordinates(last)
	return
}
