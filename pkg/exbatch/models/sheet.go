package models

// SheetData is the read-back of a single sheet.
type SheetData struct {
	// Rows contains non-empty rows with their cell values.
	Rows []CellRow `json:"rows,omitempty"`
	// Tables contains the table parts defined on the sheet.
	Tables []Table `json:"tables,omitempty"`
	// Charts contains the charts drawn on the sheet.
	Charts []Chart `json:"charts,omitempty"`
	// Panes is set when the sheet has frozen or split panes.
	Panes *Panes `json:"panes,omitempty"`
}
