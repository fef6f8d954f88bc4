package batch

// handle is the shared part of every proxy: the owning batch and the ref the
// host binds when the producing command runs.
type handle struct {
	b   *Batch
	ref Ref
}

// Ref returns the batch-local reference of the handle.
func (h handle) Ref() Ref { return h.ref }

// derive allocates a ref for a child object and queues the command that
// binds it.
func (h handle) derive(build func(out Ref) Command) handle {
	out := h.b.newRef()
	h.b.enqueue(build(out))
	return handle{b: h.b, ref: out}
}

// Workbook is the root proxy of a batch.
type Workbook struct {
	b *Batch
}

func (w *Workbook) Worksheets() *WorksheetCollection {
	return &WorksheetCollection{b: w.b}
}

type WorksheetCollection struct {
	b *Batch
}

// GetActiveWorksheet returns the worksheet currently selected in the host.
func (c *WorksheetCollection) GetActiveWorksheet() *Worksheet {
	h := handle{b: c.b}.derive(func(out Ref) Command {
		return GetActiveWorksheet{Out: out}
	})
	return &Worksheet{h}
}

// GetItem returns the worksheet with the given name.
func (c *WorksheetCollection) GetItem(name string) *Worksheet {
	h := handle{b: c.b}.derive(func(out Ref) Command {
		return GetWorksheet{Out: out, Name: name}
	})
	return &Worksheet{h}
}

type Worksheet struct {
	handle
}

func (w *Worksheet) Tables() *TableCollection {
	return &TableCollection{sheet: w.handle}
}

func (w *Worksheet) Charts() *ChartCollection {
	return &ChartCollection{sheet: w.handle}
}

func (w *Worksheet) FreezePanes() *FreezePanes {
	return &FreezePanes{sheet: w.handle}
}

// GetRange returns the range at address, for example "A1:D8".
func (w *Worksheet) GetRange(address string) *Range {
	h := w.derive(func(out Ref) Command {
		return GetRange{Out: out, Sheet: w.ref, Address: address}
	})
	return &Range{h}
}

type FreezePanes struct {
	sheet handle
}

// FreezeRows keeps the first count rows visible while scrolling.
func (p *FreezePanes) FreezeRows(count int) {
	p.sheet.b.enqueue(FreezeRows{Sheet: p.sheet.ref, Count: count})
}

func (p *FreezePanes) Unfreeze() {
	p.sheet.b.enqueue(Unfreeze{Sheet: p.sheet.ref})
}

type Range struct {
	handle
}

// SetValues writes a 2D array. A 1x1 array is applied to every cell.
func (r *Range) SetValues(values [][]any) {
	r.b.enqueue(SetValues{Range: r.ref, Values: values})
}

// SetNumberFormat writes number format codes. A 1x1 array is applied to
// every cell.
func (r *Range) SetNumberFormat(formats [][]string) {
	r.b.enqueue(SetNumberFormat{Range: r.ref, Formats: formats})
}

func (r *Range) Format() *RangeFormat {
	return &RangeFormat{r.handle}
}

// Load requests the range's address, values and number formats. The result
// is readable after Sync.
func (r *Range) Load() *RangeData {
	return r.load(false)
}

// LoadVisible is Load restricted to rows that are not hidden by a filter.
func (r *Range) LoadVisible() *RangeData {
	return r.load(true)
}

func (r *Range) load(visible bool) *RangeData {
	d := &RangeData{}
	if r.b.enqueue(LoadRange{Range: r.ref, VisibleOnly: visible, Into: d}) {
		r.b.loads = append(r.b.loads, d)
	}
	return d
}

type RangeFormat struct {
	handle
}

func (f *RangeFormat) AutofitColumns() {
	f.b.enqueue(AutofitColumns{Range: f.ref})
}

func (f *RangeFormat) AutofitRows() {
	f.b.enqueue(AutofitRows{Range: f.ref})
}
