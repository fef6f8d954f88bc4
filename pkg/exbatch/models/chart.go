package models

// ChartSeries is the series metadata of a chart.
type ChartSeries struct {
	// Name is the literal series name, if any.
	Name string `json:"name,omitempty"`
	// NameRange is the range reference for the series name.
	NameRange string `json:"name_range,omitempty"`
	// XRange is the range reference for categories.
	XRange string `json:"x_range,omitempty"`
	// YRange is the range reference for values.
	YRange string `json:"y_range"`
}

// DataLabels is the data label formatting of a chart.
type DataLabels struct {
	ShowValue bool `json:"show_value"`
	// FontSize is in points, 0 when unset.
	FontSize  float64 `json:"font_size,omitempty"`
	FontColor string  `json:"font_color,omitempty"`
}

// Chart is the chart metadata read back from a drawing.
type Chart struct {
	// Name is the drawing object name.
	Name string `json:"name"`
	// ChartType is the chart type, e.g. ColumnClustered or Line.
	ChartType string `json:"chart_type"`
	Title     string `json:"title,omitempty"`
	// Legend is the legend position: top, bottom, left, right or top_right.
	Legend     string        `json:"legend,omitempty"`
	DataLabels *DataLabels   `json:"data_labels,omitempty"`
	Series     []ChartSeries `json:"series"`
	// From and To are the anchor cells.
	From string `json:"from"`
	To   string `json:"to,omitempty"`
	// L and T are the offsets within the From cell in pixels.
	L int `json:"l"`
	T int `json:"t"`
}
