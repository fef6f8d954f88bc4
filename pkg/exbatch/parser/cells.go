package parser

import (
	"strconv"

	"github.com/ukaji3/exbatch-go/pkg/exbatch/models"
	"github.com/xuri/excelize/v2"
)

// ExtractCells returns the non-empty rows of a sheet with raw values, number
// formats and row visibility.
func ExtractCells(f *excelize.File, sheetName string) ([]models.CellRow, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	var result []models.CellRow
	for rowIdx, row := range rows {
		rowNum := rowIdx + 1
		cellMap := make(map[string]any)
		formats := make(map[string]string)

		for colIdx, cellValue := range row {
			if cellValue == "" {
				continue
			}
			colStr := strconv.Itoa(colIdx + 1)
			cellMap[colStr] = parseValue(cellValue)

			cellName, _ := excelize.CoordinatesToCellName(colIdx+1, rowNum)
			if code, err := NumberFormat(f, sheetName, cellName); err == nil && code != "" {
				formats[colStr] = code
			}
		}
		if len(cellMap) == 0 {
			continue
		}

		cellRow := models.CellRow{R: rowNum, C: cellMap}
		if len(formats) > 0 {
			cellRow.F = formats
		}
		if visible, err := f.GetRowVisible(sheetName, rowNum); err == nil && !visible {
			cellRow.Hidden = true
		}
		result = append(result, cellRow)
	}

	return result, nil
}

// NumberFormat returns the custom number format code of a cell, or "" for
// cells using a built-in format.
func NumberFormat(f *excelize.File, sheetName, cellName string) (string, error) {
	id, err := f.GetCellStyle(sheetName, cellName)
	if err != nil || id == 0 {
		return "", err
	}
	style, err := f.GetStyle(id)
	if err != nil {
		return "", err
	}
	if style.CustomNumFmt != nil {
		return *style.CustomNumFmt, nil
	}
	return "", nil
}

// parseValue returns int64 for integers, float64 for decimals, or the
// original string.
func parseValue(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
