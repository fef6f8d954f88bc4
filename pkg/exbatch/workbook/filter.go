package workbook

import (
	"encoding/json"
	"strings"

	"github.com/ukaji3/exbatch-go/pkg/exbatch/batch"
	"github.com/xuri/excelize/v2"
)

// filterPropPrefix names the custom document properties that keep the
// active values filters of each table across saves.
const filterPropPrefix = "exbatch.filter."

func (x *execution) applyValuesFilter(c batch.ApplyValuesFilter) error {
	col, err := x.column(c.Column)
	if err != nil {
		return err
	}
	if len(c.Values) == 0 {
		return batch.Errorf(batch.CodeInvalidArgument, "a values filter needs at least one value")
	}
	t := col.table
	if t.Filters == nil {
		t.Filters = make(map[int][]string)
	}
	t.Filters[col.offset] = append([]string(nil), c.Values...)
	return x.refreshVisibility(t)
}

func (x *execution) clearFilter(c batch.ClearFilter) error {
	col, err := x.column(c.Column)
	if err != nil {
		return err
	}
	delete(col.table.Filters, col.offset)
	return x.refreshVisibility(col.table)
}

func (x *execution) clearTableFilters(c batch.ClearTableFilters) error {
	t, err := x.table(c.Table)
	if err != nil {
		return err
	}
	t.Filters = nil
	return x.refreshVisibility(t)
}

// refreshVisibility shows the body rows that pass every active filter of t
// and hides the rest.
func (x *execution) refreshVisibility(t *tableState) error {
	for row := t.Y1 + 1; row <= t.Y2; row++ {
		visible := true
		for offset, values := range t.Filters {
			text, err := x.f().GetCellValue(t.Sheet, cellName(t.X1+offset, row))
			if err != nil {
				return err
			}
			if !matchesAny(text, values) {
				visible = false
				break
			}
		}
		if err := x.f().SetRowVisible(t.Sheet, row, visible); err != nil {
			return err
		}
	}
	return nil
}

// matchesAny compares displayed text against filter values the way a values
// filter does: case-insensitively, with "" selecting blanks.
func matchesAny(text string, values []string) bool {
	text = strings.TrimSpace(text)
	for _, v := range values {
		if strings.EqualFold(text, strings.TrimSpace(v)) {
			return true
		}
	}
	return false
}

// saveFilters brings the filter properties of the file in line with the
// registry. Properties are only touched when they differ.
func (x *execution) saveFilters() error {
	want := make(map[string]string)
	for _, t := range x.w.reg.Tables {
		if len(t.Filters) == 0 {
			continue
		}
		data, err := json.Marshal(t.Filters)
		if err != nil {
			return err
		}
		want[filterPropPrefix+t.Name] = string(data)
	}

	props, err := x.f().GetCustomProps()
	if err != nil {
		return err
	}
	for _, p := range props {
		if !strings.HasPrefix(p.Name, filterPropPrefix) {
			continue
		}
		value, keep := want[p.Name]
		if !keep {
			if err := x.f().SetCustomProps(excelize.CustomProperty{Name: p.Name}); err != nil {
				return err
			}
			continue
		}
		if current, ok := p.Value.(string); ok && current == value {
			delete(want, p.Name)
		}
	}
	for name, value := range want {
		if err := x.f().SetCustomProps(excelize.CustomProperty{Name: name, Value: value}); err != nil {
			return err
		}
	}
	return nil
}

// loadFilters restores saved values filters onto the tables of reg.
// Entries that do not parse or name a missing column are ignored.
func loadFilters(f *excelize.File, reg *registry) error {
	props, err := f.GetCustomProps()
	if err != nil {
		return err
	}
	for _, p := range props {
		name, ok := strings.CutPrefix(p.Name, filterPropPrefix)
		if !ok {
			continue
		}
		t := reg.table(name)
		value, isText := p.Value.(string)
		if t == nil || !isText {
			continue
		}
		var filters map[int][]string
		if err := json.Unmarshal([]byte(value), &filters); err != nil {
			continue
		}
		for offset, values := range filters {
			if offset < 0 || offset >= t.width() || len(values) == 0 {
				continue
			}
			if t.Filters == nil {
				t.Filters = make(map[int][]string)
			}
			t.Filters[offset] = values
		}
	}
	return nil
}
