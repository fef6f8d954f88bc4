package parser

import (
	"archive/zip"
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/ukaji3/exbatch-go/pkg/exbatch/models"
	"github.com/xuri/excelize/v2"
)

// ChartTypeMap maps OOXML plot elements to chart type names. Bar plots are
// refined further by direction and grouping.
var ChartTypeMap = map[string]string{
	"lineChart":      "Line",
	"line3DChart":    "3DLine",
	"barChart":       "Bar",
	"bar3DChart":     "3DBar",
	"areaChart":      "Area",
	"area3DChart":    "3DArea",
	"pieChart":       "Pie",
	"pie3DChart":     "3DPie",
	"doughnutChart":  "Doughnut",
	"scatterChart":   "XYScatter",
	"bubbleChart":    "Bubble",
	"radarChart":     "Radar",
	"surfaceChart":   "Surface",
	"surface3DChart": "3DSurface",
	"stockChart":     "Stock",
	"ofPieChart":     "PieOfPie",
}

var legendPositions = map[string]string{
	"t":  "top",
	"b":  "bottom",
	"l":  "left",
	"r":  "right",
	"tr": "top_right",
}

type valAttr struct {
	Val string `xml:"val,attr"`
}

type anchorCell struct {
	Col    int   `xml:"col"`
	ColOff int64 `xml:"colOff"`
	Row    int   `xml:"row"`
	RowOff int64 `xml:"rowOff"`
}

func (c *anchorCell) name() string {
	if c == nil {
		return ""
	}
	name, _ := excelize.CoordinatesToCellName(c.Col+1, c.Row+1)
	return name
}

type anchor struct {
	From  *anchorCell `xml:"from"`
	To    *anchorCell `xml:"to"`
	Frame *struct {
		Props struct {
			Name string `xml:"name,attr"`
		} `xml:"nvGraphicFramePr>cNvPr"`
		Chart struct {
			RID string `xml:"id,attr"`
		} `xml:"graphic>graphicData>chart"`
	} `xml:"graphicFrame"`
}

type drawingPart struct {
	TwoCell []anchor `xml:"twoCellAnchor"`
	OneCell []anchor `xml:"oneCellAnchor"`
}

type dataLabels struct {
	ShowVal *valAttr `xml:"showVal"`
	Font    *struct {
		Size  string  `xml:"sz,attr"`
		Color valAttr `xml:"solidFill>srgbClr"`
	} `xml:"txPr>p>pPr>defRPr"`
}

type chartSer struct {
	TxRef  string      `xml:"tx>strRef>f"`
	TxLit  string      `xml:"tx>v"`
	CatStr string      `xml:"cat>strRef>f"`
	CatNum string      `xml:"cat>numRef>f"`
	Val    string      `xml:"val>numRef>f"`
	DLbls  *dataLabels `xml:"dLbls"`
}

type plotGroup struct {
	XMLName  xml.Name
	BarDir   *valAttr    `xml:"barDir"`
	Grouping *valAttr    `xml:"grouping"`
	Series   []chartSer  `xml:"ser"`
	DLbls    *dataLabels `xml:"dLbls"`
}

// plotArea collects every child of c:plotArea; only the plot groups named
// in ChartTypeMap are used.
type plotArea struct {
	Groups []plotGroup `xml:",any"`
}

type chartSpace struct {
	Chart struct {
		TitleRuns []string `xml:"title>tx>rich>p>r>t"`
		PlotArea  plotArea `xml:"plotArea"`
		Legend    *struct {
			Pos valAttr `xml:"legendPos"`
		} `xml:"legend"`
	} `xml:"chart"`
}

// ExtractCharts reads the charts of every sheet in the package at path.
func ExtractCharts(xlsxPath string) (map[string][]models.Chart, error) {
	r, err := zip.OpenReader(xlsxPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return ReadCharts(&r.Reader)
}

// ReadCharts reads the charts of every sheet in an opened package.
func ReadCharts(r *zip.Reader) (map[string][]models.Chart, error) {
	sheets, err := sheetParts(r)
	if err != nil {
		return nil, err
	}
	result := make(map[string][]models.Chart)
	for sheetName, sheetPart := range sheets {
		var rels relationships
		if err := decodePart(r, relsPath(sheetPart), &rels); err != nil {
			continue
		}
		rel, ok := rels.byType("drawing")
		if !ok {
			continue
		}
		charts, err := readDrawingCharts(r, resolveTarget(sheetPart, rel.Target))
		if err != nil {
			return nil, err
		}
		if len(charts) > 0 {
			result[sheetName] = charts
		}
	}
	return result, nil
}

// readDrawingCharts reads the charts anchored in one drawing part.
func readDrawingCharts(r *zip.Reader, drawing string) ([]models.Chart, error) {
	var d drawingPart
	if err := decodePart(r, drawing, &d); err != nil {
		return nil, err
	}
	var rels relationships
	if err := decodePart(r, relsPath(drawing), &rels); err != nil {
		return nil, err
	}
	var charts []models.Chart
	for _, a := range append(d.TwoCell, d.OneCell...) {
		if a.Frame == nil || a.Frame.Chart.RID == "" {
			continue
		}
		rel, ok := rels.byID(a.Frame.Chart.RID)
		if !ok {
			continue
		}
		var cs chartSpace
		if err := decodePart(r, resolveTarget(drawing, rel.Target), &cs); err != nil {
			return nil, err
		}
		chart := convertChart(cs)
		chart.Name = a.Frame.Props.Name
		chart.From = a.From.name()
		chart.To = a.To.name()
		if a.From != nil {
			chart.L = EMUToPixels(a.From.ColOff)
			chart.T = EMUToPixels(a.From.RowOff)
		}
		charts = append(charts, chart)
	}
	return charts, nil
}

func convertChart(cs chartSpace) models.Chart {
	chart := models.Chart{
		ChartType: "unknown",
		Title:     strings.TrimSpace(strings.Join(cs.Chart.TitleRuns, "")),
	}
	if cs.Chart.Legend != nil {
		chart.Legend = legendPositions[cs.Chart.Legend.Pos.Val]
	}
	for _, g := range cs.Chart.PlotArea.Groups {
		name, ok := ChartTypeMap[g.XMLName.Local]
		if !ok {
			continue
		}
		chart.ChartType = refineBarType(name, g)
		for _, s := range g.Series {
			chart.Series = append(chart.Series, convertSeries(s))
			if s.DLbls != nil && chart.DataLabels == nil {
				chart.DataLabels = convertLabels(s.DLbls)
			}
		}
		if chart.DataLabels == nil && g.DLbls != nil {
			chart.DataLabels = convertLabels(g.DLbls)
		}
		// Combo charts report their first plot.
		break
	}
	return chart
}

// refineBarType names bar plots the way batches create them.
func refineBarType(name string, g plotGroup) string {
	if name != "Bar" {
		return name
	}
	prefix := "Bar"
	if g.BarDir != nil && g.BarDir.Val == "col" {
		prefix = "Column"
	}
	grouping := "clustered"
	if g.Grouping != nil {
		grouping = g.Grouping.Val
	}
	switch grouping {
	case "stacked":
		return prefix + "Stacked"
	case "percentStacked":
		return prefix + "Stacked100"
	default:
		return prefix + "Clustered"
	}
}

func convertSeries(s chartSer) models.ChartSeries {
	out := models.ChartSeries{
		Name:   s.TxLit,
		XRange: s.CatStr,
		YRange: s.Val,
	}
	if out.XRange == "" {
		out.XRange = s.CatNum
	}
	ref := strings.TrimSpace(s.TxRef)
	if len(ref) >= 2 && strings.HasPrefix(ref, `"`) && strings.HasSuffix(ref, `"`) {
		out.Name = strings.ReplaceAll(ref[1:len(ref)-1], `""`, `"`)
	} else if ref != "" {
		out.NameRange = ref
	}
	return out
}

func convertLabels(d *dataLabels) *models.DataLabels {
	labels := &models.DataLabels{}
	if d.ShowVal != nil {
		labels.ShowValue = d.ShowVal.Val == "1" || d.ShowVal.Val == "true"
	}
	if d.Font != nil {
		if sz, err := strconv.ParseFloat(d.Font.Size, 64); err == nil {
			labels.FontSize = sz / 100
		}
		labels.FontColor = d.Font.Color.Val
	}
	return labels
}
