package batch

type TableCollection struct {
	sheet handle
}

// Add creates a table over address. With hasHeaders the first row of the
// address is the header row; otherwise a header row is generated.
func (c *TableCollection) Add(address string, hasHeaders bool) *Table {
	h := c.sheet.derive(func(out Ref) Command {
		return AddTable{Out: out, Sheet: c.sheet.ref, Address: address, HasHeaders: hasHeaders}
	})
	return &Table{h}
}

// GetItem returns the table with the given name on this worksheet.
func (c *TableCollection) GetItem(name string) *Table {
	h := c.sheet.derive(func(out Ref) Command {
		return GetTable{Out: out, Sheet: c.sheet.ref, Name: name}
	})
	return &Table{h}
}

type Table struct {
	handle
}

func (t *Table) SetName(name string) {
	t.b.enqueue(SetTableName{Table: t.ref, Name: name})
}

func (t *Table) GetRange() *Range {
	return t.part(PartWhole)
}

func (t *Table) GetHeaderRowRange() *Range {
	return t.part(PartHeader)
}

// GetDataBodyRange returns the table without its header row.
func (t *Table) GetDataBodyRange() *Range {
	return t.part(PartBody)
}

func (t *Table) part(p RangePart) *Range {
	h := t.derive(func(out Ref) Command {
		return GetTableRange{Out: out, Table: t.ref, Part: p}
	})
	return &Range{h}
}

func (t *Table) Rows() *TableRowCollection {
	return &TableRowCollection{table: t.handle}
}

func (t *Table) Columns() *TableColumnCollection {
	return &TableColumnCollection{table: t.handle}
}

func (t *Table) Sort() *TableSort {
	return &TableSort{table: t.handle}
}

// ClearFilters removes every column filter of the table.
func (t *Table) ClearFilters() {
	t.b.enqueue(ClearTableFilters{Table: t.ref})
}

type TableRowCollection struct {
	table handle
}

// Add inserts rows at index within the body, or appends them when index is
// nil.
func (c *TableRowCollection) Add(index *int, values [][]any) {
	c.table.b.enqueue(AddTableRows{Table: c.table.ref, Index: index, Values: values})
}

type TableColumnCollection struct {
	table handle
}

// GetItem returns the column whose header is name.
func (c *TableColumnCollection) GetItem(name string) *TableColumn {
	h := c.table.derive(func(out Ref) Command {
		return GetColumn{Out: out, Table: c.table.ref, Name: name}
	})
	return &TableColumn{h}
}

// GetItemAt returns the column at the zero-based position index.
func (c *TableColumnCollection) GetItemAt(index int) *TableColumn {
	h := c.table.derive(func(out Ref) Command {
		return GetColumnAt{Out: out, Table: c.table.ref, Index: index}
	})
	return &TableColumn{h}
}

type TableColumn struct {
	handle
}

// GetRange returns the whole column including its header cell.
func (c *TableColumn) GetRange() *Range {
	return c.part(PartWhole)
}

func (c *TableColumn) GetDataBodyRange() *Range {
	return c.part(PartBody)
}

func (c *TableColumn) part(p RangePart) *Range {
	h := c.derive(func(out Ref) Command {
		return GetColumnRange{Out: out, Column: c.ref, Part: p}
	})
	return &Range{h}
}

func (c *TableColumn) Filter() *Filter {
	return &Filter{column: c.handle}
}

type Filter struct {
	column handle
}

// ApplyValuesFilter shows only rows whose value in this column is one of
// values. It replaces any previous filter on the column.
func (f *Filter) ApplyValuesFilter(values []string) {
	vs := append([]string(nil), values...)
	f.column.b.enqueue(ApplyValuesFilter{Column: f.column.ref, Values: vs})
}

func (f *Filter) Clear() {
	f.column.b.enqueue(ClearFilter{Column: f.column.ref})
}

type TableSort struct {
	table handle
}

// Apply sorts the table body by fields in order.
func (s *TableSort) Apply(fields []SortField, matchCase bool) {
	fs := append([]SortField(nil), fields...)
	s.table.b.enqueue(ApplySort{Table: s.table.ref, Fields: fs, MatchCase: matchCase})
}
