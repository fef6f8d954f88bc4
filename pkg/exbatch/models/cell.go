package models

// CellRow is a single row of cells.
type CellRow struct {
	// R is the row index (1-based).
	R int `json:"r"`
	// C maps column index (string) to cell value.
	C map[string]any `json:"c"`
	// F maps column index to number format code, for cells that have one.
	F map[string]string `json:"f,omitempty"`
	// Hidden is set when a filter or the user hid the row.
	Hidden bool `json:"hidden,omitempty"`
}
