package batch

import "fmt"

// Ref identifies a host object within one batch. Refs are assigned when a
// handle is created and bound by the host when the producing command runs.
type Ref int

// Command is one queued property write, method call or read request.
type Command interface {
	Op() string
}

// Render formats cmd for diagnostics.
func Render(cmd Command) string {
	return fmt.Sprintf("%s %+v", cmd.Op(), cmd)
}

// RangePart selects a region of a table or column.
type RangePart int

const (
	PartWhole RangePart = iota
	PartHeader
	PartBody
)

// ChartType names a chart visual type.
type ChartType string

const (
	ChartColumnClustered ChartType = "ColumnClustered"
	ChartColumnStacked   ChartType = "ColumnStacked"
	ChartBarClustered    ChartType = "BarClustered"
	ChartBarStacked      ChartType = "BarStacked"
	ChartLine            ChartType = "Line"
	ChartArea            ChartType = "Area"
	ChartPie             ChartType = "Pie"
	ChartDoughnut        ChartType = "Doughnut"
)

// SeriesBy selects how a chart source range is split into series.
type SeriesBy string

const (
	SeriesByAuto    SeriesBy = "Auto"
	SeriesByColumns SeriesBy = "Columns"
	SeriesByRows    SeriesBy = "Rows"
)

// LegendPosition places a chart legend.
type LegendPosition string

const (
	LegendTop    LegendPosition = "top"
	LegendBottom LegendPosition = "bottom"
	LegendLeft   LegendPosition = "left"
	LegendRight  LegendPosition = "right"
	LegendCorner LegendPosition = "top_right"
)

// SortField is one sort key. Key is the zero-based column offset within the
// table. Fields are applied in order as primary, secondary and so on.
type SortField struct {
	Key       int
	Ascending bool
}

type GetActiveWorksheet struct{ Out Ref }

func (GetActiveWorksheet) Op() string { return "worksheets.getActiveWorksheet" }

type GetWorksheet struct {
	Out  Ref
	Name string
}

func (GetWorksheet) Op() string { return "worksheets.getItem" }

type GetRange struct {
	Out     Ref
	Sheet   Ref
	Address string
}

func (GetRange) Op() string { return "worksheet.getRange" }

type AddTable struct {
	Out        Ref
	Sheet      Ref
	Address    string
	HasHeaders bool
}

func (AddTable) Op() string { return "tables.add" }

type GetTable struct {
	Out   Ref
	Sheet Ref
	Name  string
}

func (GetTable) Op() string { return "tables.getItem" }

type SetTableName struct {
	Table Ref
	Name  string
}

func (SetTableName) Op() string { return "table.name" }

type GetTableRange struct {
	Out   Ref
	Table Ref
	Part  RangePart
}

func (GetTableRange) Op() string { return "table.getRange" }

type GetColumn struct {
	Out   Ref
	Table Ref
	Name  string
}

func (GetColumn) Op() string { return "columns.getItem" }

type GetColumnAt struct {
	Out   Ref
	Table Ref
	Index int
}

func (GetColumnAt) Op() string { return "columns.getItemAt" }

type GetColumnRange struct {
	Out    Ref
	Column Ref
	Part   RangePart
}

func (GetColumnRange) Op() string { return "column.getRange" }

// AddTableRows inserts rows at Index (zero-based within the body), or at the
// end when Index is nil.
type AddTableRows struct {
	Table  Ref
	Index  *int
	Values [][]any
}

func (AddTableRows) Op() string { return "rows.add" }

type ClearTableFilters struct{ Table Ref }

func (ClearTableFilters) Op() string { return "table.clearFilters" }

type ApplySort struct {
	Table     Ref
	Fields    []SortField
	MatchCase bool
}

func (ApplySort) Op() string { return "sort.apply" }

type ApplyValuesFilter struct {
	Column Ref
	Values []string
}

func (ApplyValuesFilter) Op() string { return "filter.applyValuesFilter" }

type ClearFilter struct{ Column Ref }

func (ClearFilter) Op() string { return "filter.clear" }

type SetValues struct {
	Range  Ref
	Values [][]any
}

func (SetValues) Op() string { return "range.values" }

type SetNumberFormat struct {
	Range   Ref
	Formats [][]string
}

func (SetNumberFormat) Op() string { return "range.numberFormat" }

type AutofitColumns struct{ Range Ref }

func (AutofitColumns) Op() string { return "format.autofitColumns" }

type AutofitRows struct{ Range Ref }

func (AutofitRows) Op() string { return "format.autofitRows" }

// LoadRange requests a read-back of a range into Into.
type LoadRange struct {
	Range       Ref
	VisibleOnly bool
	Into        *RangeData
}

func (LoadRange) Op() string { return "range.load" }

type AddChart struct {
	Out      Ref
	Sheet    Ref
	Type     ChartType
	Source   Ref
	SeriesBy SeriesBy
}

func (AddChart) Op() string { return "charts.add" }

type SetChartPosition struct {
	Chart Ref
	Start string
	End   string
}

func (SetChartPosition) Op() string { return "chart.setPosition" }

// ChartCommand is implemented by commands that set a property of a chart.
type ChartCommand interface {
	Command
	ChartRef() Ref
}

type SetChartTitle struct {
	Chart Ref
	Text  string
}

func (SetChartTitle) Op() string { return "chart.title.text" }
func (c SetChartTitle) ChartRef() Ref { return c.Chart }

type SetLegendPosition struct {
	Chart    Ref
	Position LegendPosition
}

func (SetLegendPosition) Op() string { return "chart.legend.position" }
func (c SetLegendPosition) ChartRef() Ref { return c.Chart }

type SetLegendFill struct {
	Chart Ref
	Color string
}

func (SetLegendFill) Op() string { return "chart.legend.format.fill.setSolidColor" }
func (c SetLegendFill) ChartRef() Ref { return c.Chart }

type SetDataLabelsShowValue struct {
	Chart Ref
	Show  bool
}

func (SetDataLabelsShowValue) Op() string { return "chart.dataLabels.showValue" }
func (c SetDataLabelsShowValue) ChartRef() Ref { return c.Chart }

type SetDataLabelFontSize struct {
	Chart Ref
	Size  float64
}

func (SetDataLabelFontSize) Op() string { return "chart.dataLabels.format.font.size" }
func (c SetDataLabelFontSize) ChartRef() Ref { return c.Chart }

type SetDataLabelFontColor struct {
	Chart Ref
	Color string
}

func (SetDataLabelFontColor) Op() string { return "chart.dataLabels.format.font.color" }
func (c SetDataLabelFontColor) ChartRef() Ref { return c.Chart }

type FreezeRows struct {
	Sheet Ref
	Count int
}

func (FreezeRows) Op() string { return "freezePanes.freezeRows" }

type Unfreeze struct{ Sheet Ref }

func (Unfreeze) Op() string { return "freezePanes.unfreeze" }
