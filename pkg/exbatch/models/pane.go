package models

// Panes describes the frozen or split panes of a sheet.
type Panes struct {
	Freeze      bool   `json:"freeze"`
	XSplit      int    `json:"x_split,omitempty"`
	YSplit      int    `json:"y_split,omitempty"`
	TopLeftCell string `json:"top_left_cell,omitempty"`
}
