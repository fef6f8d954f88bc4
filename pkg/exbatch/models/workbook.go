// Package models defines the JSON read-back of a workbook produced by
// inspection.
package models

// WorkbookData is the workbook-level container with per-sheet data.
type WorkbookData struct {
	// BookName is the workbook file name (no path).
	BookName string `json:"book_name"`
	// ActiveSheet is the sheet batches resolve as the active worksheet.
	ActiveSheet string `json:"active_sheet"`
	// Sheets maps sheet name to SheetData.
	Sheets map[string]SheetData `json:"sheets"`
}
