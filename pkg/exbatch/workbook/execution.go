package workbook

import (
	"fmt"

	"github.com/ukaji3/exbatch-go/pkg/exbatch/batch"
	"github.com/xuri/excelize/v2"
)

// sheetBinding is a resolved worksheet.
type sheetBinding struct {
	name string
}

// columnBinding is a resolved table column.
type columnBinding struct {
	table  *tableState
	offset int
}

// execution holds the ref bindings of one Execute call.
type execution struct {
	w        *Workbook
	bindings map[batch.Ref]any
	charts   []*chartState
}

func newExecution(w *Workbook) *execution {
	return &execution{w: w, bindings: make(map[batch.Ref]any)}
}

func (x *execution) f() *excelize.File {
	return x.w.f
}

func (x *execution) bind(ref batch.Ref, v any) {
	x.bindings[ref] = v
}

func lookup[T any](x *execution, ref batch.Ref, kind string) (T, error) {
	var zero T
	v, ok := x.bindings[ref]
	if !ok {
		return zero, batch.Errorf(batch.CodeInvalidReference, "%s reference %d is not bound in this batch", kind, ref)
	}
	t, ok := v.(T)
	if !ok {
		return zero, batch.Errorf(batch.CodeInvalidReference, "reference %d is not a %s", ref, kind)
	}
	return t, nil
}

func (x *execution) sheet(ref batch.Ref) (string, error) {
	s, err := lookup[sheetBinding](x, ref, "worksheet")
	return s.name, err
}

func (x *execution) table(ref batch.Ref) (*tableState, error) {
	return lookup[*tableState](x, ref, "table")
}

func (x *execution) column(ref batch.Ref) (columnBinding, error) {
	return lookup[columnBinding](x, ref, "column")
}

func (x *execution) rangeOf(ref batch.Ref) (area, error) {
	return lookup[area](x, ref, "range")
}

func (x *execution) chart(ref batch.Ref) (*chartState, error) {
	return lookup[*chartState](x, ref, "chart")
}

// apply runs one command against the workbook.
func (x *execution) apply(cmd batch.Command) error {
	switch c := cmd.(type) {
	case batch.GetActiveWorksheet:
		x.bind(c.Out, sheetBinding{name: x.f().GetSheetName(x.f().GetActiveSheetIndex())})
		return nil
	case batch.GetWorksheet:
		idx, err := x.f().GetSheetIndex(c.Name)
		if err != nil || idx < 0 {
			return batch.Errorf(batch.CodeItemNotFound, "worksheet %q does not exist", c.Name)
		}
		x.bind(c.Out, sheetBinding{name: x.f().GetSheetName(idx)})
		return nil
	case batch.GetRange:
		sheet, err := x.sheet(c.Sheet)
		if err != nil {
			return err
		}
		a, err := parseArea(sheet, c.Address)
		if err != nil {
			return batch.Errorf(batch.CodeInvalidArgument, "%v", err)
		}
		x.bind(c.Out, a)
		return nil
	case batch.AddTable:
		return x.addTable(c)
	case batch.GetTable:
		return x.getTable(c)
	case batch.SetTableName:
		return x.setTableName(c)
	case batch.GetTableRange:
		return x.getTableRange(c)
	case batch.GetColumn:
		return x.getColumn(c)
	case batch.GetColumnAt:
		return x.getColumnAt(c)
	case batch.GetColumnRange:
		return x.getColumnRange(c)
	case batch.AddTableRows:
		return x.addTableRows(c)
	case batch.ClearTableFilters:
		return x.clearTableFilters(c)
	case batch.ApplySort:
		return x.applySort(c)
	case batch.ApplyValuesFilter:
		return x.applyValuesFilter(c)
	case batch.ClearFilter:
		return x.clearFilter(c)
	case batch.SetValues:
		return x.setValues(c)
	case batch.SetNumberFormat:
		return x.setNumberFormat(c)
	case batch.AutofitColumns:
		return x.autofitColumns(c)
	case batch.AutofitRows:
		return x.autofitRows(c)
	case batch.LoadRange:
		return x.loadRange(c)
	case batch.AddChart:
		return x.addChart(c)
	case batch.SetChartPosition:
		return x.setChartPosition(c)
	case batch.SetChartTitle, batch.SetLegendPosition, batch.SetLegendFill,
		batch.SetDataLabelsShowValue, batch.SetDataLabelFontSize, batch.SetDataLabelFontColor:
		return x.setChartProperty(c)
	case batch.FreezeRows:
		return x.freezeRows(c)
	case batch.Unfreeze:
		return x.unfreeze(c)
	default:
		return batch.Errorf(batch.CodeUnsupported, "operation %s is not supported", cmd.Op())
	}
}

// commit writes back tables and charts touched by the batch, then the
// active values filters.
func (x *execution) commit() error {
	// Drop every stale part first so renamed tables can trade names.
	for _, t := range x.w.reg.Tables {
		if !t.Dirty {
			continue
		}
		if err := x.dropTablePart(t); err != nil {
			return fmt.Errorf("drop table %s: %w", t.Stored, err)
		}
	}
	for _, t := range x.w.reg.Tables {
		if !t.Dirty {
			continue
		}
		if err := x.commitTable(t); err != nil {
			return fmt.Errorf("commit table %s: %w", t.Name, err)
		}
	}
	for _, c := range x.charts {
		if err := x.commitChart(c); err != nil {
			return fmt.Errorf("commit chart on %s: %w", c.Sheet, err)
		}
	}
	if err := x.saveFilters(); err != nil {
		return fmt.Errorf("save filters: %w", err)
	}
	return nil
}
