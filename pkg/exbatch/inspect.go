package exbatch

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/ukaji3/exbatch-go/pkg/exbatch/models"
	"github.com/ukaji3/exbatch-go/pkg/exbatch/parser"
	"github.com/xuri/excelize/v2"
)

// Inspect reads the workbook at path back: cell values, tables, panes and
// charts of every sheet.
func Inspect(path string) (*models.WorkbookData, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	defer f.Close()

	sheets := make(map[string]models.SheetData)
	for _, sheetName := range f.GetSheetList() {
		rows, err := parser.ExtractCells(f, sheetName)
		if err != nil {
			return nil, &InspectError{SheetName: sheetName, Component: "cells", Err: err}
		}
		tables, err := parser.ExtractTables(f, sheetName)
		if err != nil {
			return nil, &InspectError{SheetName: sheetName, Component: "tables", Err: err}
		}
		panes, err := parser.ExtractPanes(f, sheetName)
		if err != nil {
			return nil, &InspectError{SheetName: sheetName, Component: "panes", Err: err}
		}
		sheets[sheetName] = models.SheetData{
			Rows:   rows,
			Tables: tables,
			Panes:  panes,
		}
	}

	// Charts are read from the package parts directly.
	chartData, err := parser.ExtractCharts(path)
	if err != nil {
		return nil, &InspectError{Component: "charts", Err: err}
	}
	for sheetName, charts := range chartData {
		if sheet, ok := sheets[sheetName]; ok {
			sheet.Charts = charts
			sheets[sheetName] = sheet
		}
	}

	return &models.WorkbookData{
		BookName:    filepath.Base(path),
		ActiveSheet: f.GetSheetName(f.GetActiveSheetIndex()),
		Sheets:      sheets,
	}, nil
}
