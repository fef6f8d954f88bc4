package batch

type ChartCollection struct {
	sheet handle
}

// Add creates a chart of type typ bound to source.
func (c *ChartCollection) Add(typ ChartType, source *Range, seriesBy SeriesBy) *Chart {
	b := c.sheet.b
	if source == nil {
		b.fail(ErrForeignHandle)
		return &Chart{handle{b: b}}
	}
	b.owns(source.handle)
	h := c.sheet.derive(func(out Ref) Command {
		return AddChart{Out: out, Sheet: c.sheet.ref, Type: typ, Source: source.ref, SeriesBy: seriesBy}
	})
	return &Chart{h}
}

type Chart struct {
	handle
}

// SetPosition anchors the chart's top-left corner at start and its
// bottom-right corner at end. An empty end keeps the current size.
func (c *Chart) SetPosition(start, end string) {
	c.b.enqueue(SetChartPosition{Chart: c.ref, Start: start, End: end})
}

func (c *Chart) Title() *ChartTitle {
	return &ChartTitle{c.handle}
}

func (c *Chart) Legend() *ChartLegend {
	return &ChartLegend{c.handle}
}

func (c *Chart) DataLabels() *ChartDataLabels {
	return &ChartDataLabels{c.handle}
}

type ChartTitle struct {
	handle
}

func (t *ChartTitle) SetText(text string) {
	t.b.enqueue(SetChartTitle{Chart: t.ref, Text: text})
}

type ChartLegend struct {
	handle
}

func (l *ChartLegend) SetPosition(pos LegendPosition) {
	l.b.enqueue(SetLegendPosition{Chart: l.ref, Position: pos})
}

// SetFill sets a solid background color on the legend.
func (l *ChartLegend) SetFill(color string) {
	l.b.enqueue(SetLegendFill{Chart: l.ref, Color: color})
}

type ChartDataLabels struct {
	handle
}

func (d *ChartDataLabels) SetShowValue(show bool) {
	d.b.enqueue(SetDataLabelsShowValue{Chart: d.ref, Show: show})
}

func (d *ChartDataLabels) SetFontSize(size float64) {
	d.b.enqueue(SetDataLabelFontSize{Chart: d.ref, Size: size})
}

func (d *ChartDataLabels) SetFontColor(color string) {
	d.b.enqueue(SetDataLabelFontColor{Chart: d.ref, Color: color})
}
