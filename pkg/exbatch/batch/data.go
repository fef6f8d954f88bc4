package batch

// RangeData receives the result of a Load request. Hosts fill the exported
// fields while executing; the batch marks it loaded once Sync succeeds.
type RangeData struct {
	// Address is the loaded range, for example "Sheet1!A1:D8".
	Address string
	// Rows lists the 1-based sheet rows included in the result.
	Rows []int
	// Values holds float64, bool or string values; empty cells are nil.
	Values [][]any
	// Text holds the displayed (formatted) values.
	Text [][]string
	// NumberFormat holds the number format code of each cell.
	NumberFormat [][]string

	loaded bool
}

// Loaded reports whether the owning batch synchronized successfully.
func (d *RangeData) Loaded() bool {
	return d.loaded
}

// Err returns ErrNotLoaded until the owning batch synchronized successfully.
func (d *RangeData) Err() error {
	if !d.loaded {
		return ErrNotLoaded
	}
	return nil
}

// Column returns the values of the zero-based column idx.
func (d *RangeData) Column(idx int) ([]any, error) {
	if err := d.Err(); err != nil {
		return nil, err
	}
	out := make([]any, 0, len(d.Values))
	for _, row := range d.Values {
		if idx < len(row) {
			out = append(out, row[idx])
		} else {
			out = append(out, nil)
		}
	}
	return out, nil
}
