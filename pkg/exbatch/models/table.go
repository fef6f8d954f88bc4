package models

// Table is a table part of a sheet.
type Table struct {
	Name  string `json:"name"`
	Range string `json:"range"`
	// Style is the table style name, e.g. TableStyleMedium2.
	Style string `json:"style,omitempty"`
	// Columns lists the header labels in order.
	Columns []string `json:"columns"`
	// Rows is the number of data body rows.
	Rows int `json:"rows"`
}
