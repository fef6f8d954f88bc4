package exbatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/ukaji3/exbatch-go/internal/observability"
	"github.com/ukaji3/exbatch-go/pkg/exbatch/batch"
)

// Action names, one per UI trigger.
const (
	ActionCreateTable  = "create-table"
	ActionFilterTable  = "filter-table"
	ActionSortTable    = "sort-table"
	ActionCreateChart  = "create-chart"
	ActionFreezeHeader = "freeze-header"
)

// Result is the outcome of one action.
type Result struct {
	Action string
	// Commands is the number of commands sent at the synchronization point.
	Commands int
	Err      error
}

func (r Result) OK() bool {
	return r.Err == nil
}

// DebugInfo returns the host's diagnostic payload, or nil when the failure
// carries none.
func (r Result) DebugInfo() map[string]any {
	var se *batch.SyncError
	if errors.As(r.Err, &se) {
		return se.DebugInfo()
	}
	return nil
}

// Action is a named dispatcher action.
type Action struct {
	Name string
	Run  func(ctx context.Context) Result
}

// Dispatcher runs each action as one batch against host. Actions do not
// coordinate with each other; the host serializes their synchronizations.
type Dispatcher struct {
	host   batch.Host
	opts   Options
	logger zerolog.Logger
}

func NewDispatcher(host batch.Host, opts Options, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		host:   host,
		opts:   opts,
		logger: logger.With().Str("component", "dispatcher").Logger(),
	}
}

// Bootstrap checks the host capability level. An unsupported host is
// logged and otherwise ignored.
func (d *Dispatcher) Bootstrap() bool {
	ok := d.host.Supports("ExcelApi", d.opts.MinAPIVersion)
	if !ok {
		d.logger.Warn().
			Str("requirement_set", "ExcelApi").
			Str("min_version", d.opts.MinAPIVersion).
			Msg("host does not support the required API version; actions may fail")
	}
	return ok
}

// Actions lists the actions in the order the UI presents them.
func (d *Dispatcher) Actions() []Action {
	return []Action{
		{ActionCreateTable, d.CreateTable},
		{ActionFilterTable, d.FilterTable},
		{ActionSortTable, d.SortTable},
		{ActionCreateChart, d.CreateChart},
		{ActionFreezeHeader, d.FreezeHeader},
	}
}

// Action returns the action registered under name.
func (d *Dispatcher) Action(name string) (Action, error) {
	for _, a := range d.Actions() {
		if a.Name == name {
			return a, nil
		}
	}
	return Action{}, fmt.Errorf("%w: %s", ErrUnknownAction, name)
}

// RunAll runs every action in order and stops at the first failure.
func (d *Dispatcher) RunAll(ctx context.Context) []Result {
	var results []Result
	for _, a := range d.Actions() {
		res := a.Run(ctx)
		results = append(results, res)
		if !res.OK() {
			break
		}
	}
	return results
}

func (d *Dispatcher) CreateTable(ctx context.Context) Result {
	return d.run(ctx, ActionCreateTable, func(b *batch.Batch) error {
		table := d.worksheet(b).Tables().Add(HeaderAddress, true)
		table.SetName(d.opts.TableName)
		table.GetHeaderRowRange().SetValues([][]any{ExpenseHeader})
		table.Rows().Add(nil, ExpenseRows())
		table.Columns().GetItemAt(AmountColumn).GetRange().SetNumberFormat([][]string{{AmountFormat}})
		table.GetRange().Format().AutofitColumns()
		table.GetRange().Format().AutofitRows()
		return nil
	})
}

func (d *Dispatcher) FilterTable(ctx context.Context) Result {
	return d.run(ctx, ActionFilterTable, func(b *batch.Batch) error {
		table := d.worksheet(b).Tables().GetItem(d.opts.TableName)
		table.Columns().GetItem(FilterColumn).Filter().ApplyValuesFilter(FilterValues)
		return nil
	})
}

func (d *Dispatcher) SortTable(ctx context.Context) Result {
	return d.run(ctx, ActionSortTable, func(b *batch.Batch) error {
		table := d.worksheet(b).Tables().GetItem(d.opts.TableName)
		table.Sort().Apply(SortFields, false)
		return nil
	})
}

func (d *Dispatcher) CreateChart(ctx context.Context) Result {
	return d.run(ctx, ActionCreateChart, func(b *batch.Batch) error {
		sheet := d.worksheet(b)
		data := sheet.Tables().GetItem(d.opts.TableName).GetDataBodyRange()
		chart := sheet.Charts().Add(ChartType, data, batch.SeriesByAuto)
		chart.SetPosition(ChartStart, ChartEnd)
		chart.Title().SetText(ChartTitle)
		chart.Legend().SetPosition(ChartLegend)
		chart.Legend().SetFill(ChartLegendFill)
		chart.DataLabels().SetFontSize(ChartFontSize)
		chart.DataLabels().SetFontColor(ChartFontColor)
		return nil
	})
}

func (d *Dispatcher) FreezeHeader(ctx context.Context) Result {
	return d.run(ctx, ActionFreezeHeader, func(b *batch.Batch) error {
		d.worksheet(b).FreezePanes().FreezeRows(FrozenRows)
		return nil
	})
}

func (d *Dispatcher) worksheet(b *batch.Batch) *batch.Worksheet {
	sheets := b.Workbook().Worksheets()
	if d.opts.Sheet != "" {
		return sheets.GetItem(d.opts.Sheet)
	}
	return sheets.GetActiveWorksheet()
}

// run queues fn on a fresh batch and synchronizes once. A failure is
// logged exactly once and returned in the Result; it is never retried.
func (d *Dispatcher) run(ctx context.Context, name string, fn func(b *batch.Batch) error) Result {
	res := Result{Action: name}
	err := batch.Run(ctx, d.host, func(b *batch.Batch) error {
		if err := fn(b); err != nil {
			return err
		}
		res.Commands = b.Len()
		return nil
	})
	observability.RecordAction(name, res.Commands, err == nil)
	if err != nil {
		res.Err = &ActionError{Action: name, Err: err}
		d.logFailure(res)
		return res
	}
	d.logger.Debug().Str("action", name).Int("commands", res.Commands).Msg("action applied")
	return res
}

func (d *Dispatcher) logFailure(res Result) {
	event := d.logger.Error().
		Str("action", res.Action).
		Str("error_type", errorType(res.Err)).
		Err(res.Err)
	if info := res.DebugInfo(); info != nil {
		event = event.Interface("debug_info", info)
	}
	event.Msg("action failed")
}

// errorType names the kind of failure the way the host reports it.
func errorType(err error) string {
	var se *batch.SyncError
	switch {
	case errors.As(err, &se):
		return string(se.Code)
	case errors.Is(err, context.Canceled):
		return "Canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "Timeout"
	case errors.Is(err, batch.ErrBatchClosed), errors.Is(err, batch.ErrForeignHandle):
		return "InvalidBatchUse"
	default:
		return fmt.Sprintf("%T", errors.Unwrap(err))
	}
}
