package workbook

import (
	"fmt"
	"math"
	"strings"

	"github.com/ukaji3/exbatch-go/pkg/exbatch/batch"
	"github.com/xuri/excelize/v2"
)

const (
	defaultChartWidth  = 480
	defaultChartHeight = 260
	// maxDigitWidth is the pixel width of one character of column width.
	maxDigitWidth   = 7
	defaultColWidth = 64
	defaultRowPx    = 20
)

var chartTypes = map[batch.ChartType]excelize.ChartType{
	batch.ChartColumnClustered: excelize.Col,
	batch.ChartColumnStacked:   excelize.ColStacked,
	batch.ChartBarClustered:    excelize.Bar,
	batch.ChartBarStacked:      excelize.BarStacked,
	batch.ChartLine:            excelize.Line,
	batch.ChartArea:            excelize.Area,
	batch.ChartPie:             excelize.Pie,
	batch.ChartDoughnut:        excelize.Doughnut,
}

var namedColors = map[string]string{
	"black":  "000000",
	"white":  "FFFFFF",
	"red":    "FF0000",
	"green":  "008000",
	"blue":   "0000FF",
	"yellow": "FFFF00",
	"orange": "FFA500",
	"purple": "800080",
	"gray":   "808080",
	"grey":   "808080",
}

// chartState describes a chart created by a batch. Charts are written to the
// file at commit, once every property set in the batch is known.
type chartState struct {
	Sheet     string
	Type      batch.ChartType
	Source    area
	SeriesBy  batch.SeriesBy
	Start     string
	End       string
	Width     uint
	Height    uint
	Title     string
	Legend    batch.LegendPosition
	// LegendFill is kept on the host record only; the chart part has no
	// legend fill.
	LegendFill     string
	ShowValue      bool
	LabelFontSize  float64
	LabelFontColor string
}

// ChartInfo is the host's record of a committed chart.
type ChartInfo struct {
	Sheet          string
	Type           string
	Source         string
	Start          string
	End            string
	Title          string
	Legend         string
	LegendFill     string
	ShowValue      bool
	LabelFontSize  float64
	LabelFontColor string
}

// Charts lists the charts committed through this workbook.
func (w *Workbook) Charts() []ChartInfo {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]ChartInfo, 0, len(w.reg.Charts))
	for _, c := range w.reg.Charts {
		out = append(out, ChartInfo{
			Sheet:          c.Sheet,
			Type:           string(c.Type),
			Source:         c.Source.Address(),
			Start:          c.Start,
			End:            c.End,
			Title:          c.Title,
			Legend:         string(c.Legend),
			LegendFill:     c.LegendFill,
			ShowValue:      c.ShowValue,
			LabelFontSize:  c.LabelFontSize,
			LabelFontColor: c.LabelFontColor,
		})
	}
	return out
}

func (x *execution) addChart(c batch.AddChart) error {
	sheet, err := x.sheet(c.Sheet)
	if err != nil {
		return err
	}
	if _, ok := chartTypes[c.Type]; !ok {
		return batch.Errorf(batch.CodeInvalidArgument, "chart type %q is not supported", c.Type)
	}
	src, err := x.rangeOf(c.Source)
	if err != nil {
		return err
	}
	switch c.SeriesBy {
	case "", batch.SeriesByAuto, batch.SeriesByColumns, batch.SeriesByRows:
	default:
		return batch.Errorf(batch.CodeInvalidArgument, "series mode %q is not supported", c.SeriesBy)
	}
	// Default placement: beside the source, two columns to its right.
	start := cellName(src.X2+2, src.Y1)
	ch := &chartState{
		Sheet:    sheet,
		Type:     c.Type,
		Source:   src,
		SeriesBy: c.SeriesBy,
		Start:    start,
		Width:    defaultChartWidth,
		Height:   defaultChartHeight,
		Legend:   batch.LegendRight,
	}
	x.charts = append(x.charts, ch)
	x.bind(c.Out, ch)
	return nil
}

func (x *execution) setChartPosition(c batch.SetChartPosition) error {
	ch, err := x.chart(c.Chart)
	if err != nil {
		return err
	}
	start, err := parseArea(ch.Sheet, c.Start)
	if err != nil {
		return batch.Errorf(batch.CodeInvalidArgument, "chart start: %v", err)
	}
	end := start
	if c.End != "" {
		if end, err = parseArea(ch.Sheet, c.End); err != nil {
			return batch.Errorf(batch.CodeInvalidArgument, "chart end: %v", err)
		}
	}
	x1, y1 := min(start.X1, end.X1), min(start.Y1, end.Y1)
	x2, y2 := max(start.X2, end.X2), max(start.Y2, end.Y2)
	width, height, err := x.pixelSize(ch.Sheet, x1, y1, x2, y2)
	if err != nil {
		return err
	}
	ch.Start = cellName(x1, y1)
	ch.End = ""
	if c.End != "" {
		ch.End = cellName(x2, y2)
	}
	ch.Width, ch.Height = width, height
	return nil
}

// pixelSize measures the block of cells x1:y1..x2:y2 in pixels.
func (x *execution) pixelSize(sheet string, x1, y1, x2, y2 int) (uint, uint, error) {
	var width, height float64
	for col := x1; col <= x2; col++ {
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return 0, 0, err
		}
		w, err := x.f().GetColWidth(sheet, name)
		if err != nil {
			return 0, 0, err
		}
		if w <= 0 {
			width += defaultColWidth
			continue
		}
		width += math.Round(w * maxDigitWidth)
	}
	for row := y1; row <= y2; row++ {
		h, err := x.f().GetRowHeight(sheet, row)
		if err != nil {
			return 0, 0, err
		}
		if h <= 0 {
			height += defaultRowPx
			continue
		}
		height += math.Round(h * 4 / 3)
	}
	return uint(width), uint(height), nil
}

func (x *execution) setChartProperty(cmd batch.Command) error {
	target, ok := cmd.(batch.ChartCommand)
	if !ok {
		return batch.Errorf(batch.CodeUnsupported, "operation %s is not a chart property", cmd.Op())
	}
	ch, err := x.chart(target.ChartRef())
	if err != nil {
		return err
	}
	switch c := cmd.(type) {
	case batch.SetChartTitle:
		ch.Title = c.Text
	case batch.SetLegendPosition:
		switch c.Position {
		case batch.LegendTop, batch.LegendBottom, batch.LegendLeft, batch.LegendRight, batch.LegendCorner:
			ch.Legend = c.Position
		default:
			return batch.Errorf(batch.CodeInvalidArgument, "legend position %q is not supported", c.Position)
		}
	case batch.SetLegendFill:
		color, err := parseColor(c.Color)
		if err != nil {
			return err
		}
		ch.LegendFill = color
	case batch.SetDataLabelsShowValue:
		ch.ShowValue = c.Show
	case batch.SetDataLabelFontSize:
		if c.Size <= 0 || c.Size > 409 {
			return batch.Errorf(batch.CodeInvalidArgument, "font size %g is out of range", c.Size)
		}
		ch.LabelFontSize = c.Size
	case batch.SetDataLabelFontColor:
		color, err := parseColor(c.Color)
		if err != nil {
			return err
		}
		ch.LabelFontColor = color
	}
	return nil
}

// parseColor accepts a color name or "#RRGGBB" and returns "RRGGBB".
func parseColor(s string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if hex, ok := namedColors[v]; ok {
		return hex, nil
	}
	v = strings.TrimPrefix(v, "#")
	if len(v) == 6 && strings.Trim(v, "0123456789abcdef") == "" {
		return strings.ToUpper(v), nil
	}
	return "", batch.Errorf(batch.CodeInvalidArgument, "color %q is not recognized", s)
}

// chartSeries splits the source area into series. The first row names the
// series when it holds text; the first column supplies categories when it
// holds text. Unnamed series get a quoted literal name formula.
func (x *execution) chartSeries(ch *chartState) ([]excelize.ChartSeries, error) {
	src := ch.Source
	byRows := ch.SeriesBy == batch.SeriesByRows ||
		((ch.SeriesBy == "" || ch.SeriesBy == batch.SeriesByAuto) && src.rows() < src.cols())

	headerRow, err := x.textOnly(area{Sheet: src.Sheet, X1: src.X1, Y1: src.Y1, X2: src.X2, Y2: src.Y1})
	if err != nil {
		return nil, err
	}
	labelCol := false
	if first := src.Y1 + btoi(headerRow); first <= src.Y2 {
		if labelCol, err = x.textOnly(area{Sheet: src.Sheet, X1: src.X1, Y1: first, X2: src.X1, Y2: src.Y2}); err != nil {
			return nil, err
		}
	}
	body := src
	if headerRow && body.Y1 < body.Y2 {
		body.Y1++
	}
	if labelCol && body.X1 < body.X2 {
		body.X1++
	}

	var series []excelize.ChartSeries
	if !byRows {
		for col := body.X1; col <= body.X2; col++ {
			values := area{Sheet: src.Sheet, X1: col, Y1: body.Y1, X2: col, Y2: body.Y2}
			numeric, err := x.hasNumber(values)
			if err != nil {
				return nil, err
			}
			if !numeric {
				continue
			}
			s := excelize.ChartSeries{Values: values.absRef()}
			if headerRow {
				s.Name = area{Sheet: src.Sheet, X1: col, Y1: src.Y1, X2: col, Y2: src.Y1}.absRef()
			} else {
				s.Name = fmt.Sprintf(`"Series%d"`, len(series)+1)
			}
			if labelCol {
				s.Categories = area{Sheet: src.Sheet, X1: src.X1, Y1: body.Y1, X2: src.X1, Y2: body.Y2}.absRef()
			}
			series = append(series, s)
		}
	} else {
		for row := body.Y1; row <= body.Y2; row++ {
			values := area{Sheet: src.Sheet, X1: body.X1, Y1: row, X2: body.X2, Y2: row}
			numeric, err := x.hasNumber(values)
			if err != nil {
				return nil, err
			}
			if !numeric {
				continue
			}
			s := excelize.ChartSeries{Values: values.absRef()}
			if labelCol {
				s.Name = area{Sheet: src.Sheet, X1: src.X1, Y1: row, X2: src.X1, Y2: row}.absRef()
			} else {
				s.Name = fmt.Sprintf(`"Series%d"`, len(series)+1)
			}
			if headerRow {
				s.Categories = area{Sheet: src.Sheet, X1: body.X1, Y1: src.Y1, X2: body.X2, Y2: src.Y1}.absRef()
			}
			series = append(series, s)
		}
	}
	if len(series) == 0 {
		return nil, batch.Errorf(batch.CodeInvalidArgument, "chart source %s holds no numeric data", src.Address())
	}
	return series, nil
}

// textOnly reports whether a holds text and nothing but text or blanks.
func (x *execution) textOnly(a area) (bool, error) {
	seen := false
	for row := a.Y1; row <= a.Y2; row++ {
		for col := a.X1; col <= a.X2; col++ {
			v, err := x.readValue(a.Sheet, col, row)
			if err != nil {
				return false, err
			}
			switch v.(type) {
			case nil:
			case string:
				seen = true
			default:
				return false, nil
			}
		}
	}
	return seen, nil
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (x *execution) hasNumber(a area) (bool, error) {
	for row := a.Y1; row <= a.Y2; row++ {
		for col := a.X1; col <= a.X2; col++ {
			v, err := x.readValue(a.Sheet, col, row)
			if err != nil {
				return false, err
			}
			if _, ok := v.(float64); ok {
				return true, nil
			}
		}
	}
	return false, nil
}

func (x *execution) commitChart(ch *chartState) error {
	series, err := x.chartSeries(ch)
	if err != nil {
		return err
	}
	label := excelize.ChartDataLabel{
		Font: excelize.Font{Size: ch.LabelFontSize, Color: ch.LabelFontColor},
	}
	for i := range series {
		series[i].DataLabel = label
	}
	chart := &excelize.Chart{
		Type:      chartTypes[ch.Type],
		Series:    series,
		Dimension: excelize.ChartDimension{Width: ch.Width, Height: ch.Height},
		Legend:    excelize.ChartLegend{Position: string(ch.Legend)},
		PlotArea:  excelize.ChartPlotArea{ShowVal: ch.ShowValue},
	}
	if ch.Title != "" {
		chart.Title = []excelize.RichTextRun{{Text: ch.Title}}
	}
	if err := x.f().AddChart(ch.Sheet, ch.Start, chart); err != nil {
		return err
	}
	x.w.reg.Charts = append(x.w.reg.Charts, ch)
	return nil
}
