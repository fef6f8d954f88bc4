package workbook

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ukaji3/exbatch-go/pkg/exbatch/batch"
	"github.com/xuri/excelize/v2"
)

var expenseRows = [][]any{
	{"1/1/2017", "The Phone Company", "Communications", "120"},
	{"1/2/2017", "Northwind Electric Cars", "Transportation", "142.33"},
	{"1/5/2017", "Best For You Organics Company", "Groceries", "27.9"},
	{"1/10/2017", "Coho Vineyard", "Restaurant", "33"},
	{"1/11/2017", "Bellows College", "Education", "350.1"},
	{"1/15/2017", "Trey Research", "Other", "135"},
	{"1/15/2017", "Best For You Organics Company", "Groceries", "97.88"},
}

// seed creates the expenses table on the active sheet.
func seed(t *testing.T, w *Workbook) {
	t.Helper()
	err := batch.Run(context.Background(), w, func(b *batch.Batch) error {
		sheet := b.Workbook().Worksheets().GetActiveWorksheet()
		table := sheet.Tables().Add("A1:D1", true)
		table.SetName("ExpensesTable")
		table.GetHeaderRowRange().SetValues([][]any{{"Date", "Merchant", "Category", "Amount"}})
		table.Rows().Add(nil, expenseRows)
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to seed workbook: %v", err)
	}
}

func TestCreateTable(t *testing.T) {
	w := New()
	defer w.Close()
	seed(t, w)

	names := w.TableNames()
	if len(names) != 1 || names[0] != "ExpensesTable" {
		t.Fatalf("Expected [ExpensesTable], got %v", names)
	}

	tables, err := w.File().GetTables("Sheet1")
	if err != nil {
		t.Fatalf("GetTables failed: %v", err)
	}
	if len(tables) != 1 {
		t.Fatalf("Expected 1 table part, got %d", len(tables))
	}
	if tables[0].Range != "A1:D8" {
		t.Errorf("Expected range A1:D8, got %s", tables[0].Range)
	}
	if tables[0].Name != "ExpensesTable" {
		t.Errorf("Expected name ExpensesTable, got %s", tables[0].Name)
	}

	header, _ := w.File().GetCellValue("Sheet1", "B1")
	if header != "Merchant" {
		t.Errorf("Expected header 'Merchant', got %q", header)
	}
	typ, _ := w.File().GetCellType("Sheet1", "D2")
	if typ == excelize.CellTypeSharedString || typ == excelize.CellTypeInlineString {
		t.Errorf("Expected D2 to be stored as a number, got type %v", typ)
	}
}

func TestLoadReturnsTypedValues(t *testing.T) {
	w := New()
	defer w.Close()
	seed(t, w)

	var data *batch.RangeData
	err := batch.Run(context.Background(), w, func(b *batch.Batch) error {
		table := b.Workbook().Worksheets().GetActiveWorksheet().Tables().GetItem("ExpensesTable")
		data = table.GetDataBodyRange().Load()
		return nil
	})
	if err != nil {
		t.Fatalf("Batch failed: %v", err)
	}
	if len(data.Values) != 7 {
		t.Fatalf("Expected 7 rows, got %d", len(data.Values))
	}
	if data.Values[0][3] != float64(120) {
		t.Errorf("Expected float64(120), got %v (type: %T)", data.Values[0][3], data.Values[0][3])
	}
	if data.Values[0][0] != "1/1/2017" {
		t.Errorf("Expected date text to stay a string, got %v", data.Values[0][0])
	}
	if data.Address != "Sheet1!A2:D8" {
		t.Errorf("Expected address Sheet1!A2:D8, got %s", data.Address)
	}
	if data.Rows[0] != 2 || data.Rows[6] != 8 {
		t.Errorf("Expected rows 2..8, got %v", data.Rows)
	}
}

func TestValuesFilterHidesRows(t *testing.T) {
	w := New()
	defer w.Close()
	seed(t, w)

	var visible *batch.RangeData
	err := batch.Run(context.Background(), w, func(b *batch.Batch) error {
		table := b.Workbook().Worksheets().GetActiveWorksheet().Tables().GetItem("ExpensesTable")
		table.ClearFilters()
		table.Columns().GetItem("Category").Filter().ApplyValuesFilter([]string{"Education", "Groceries"})
		visible = table.GetDataBodyRange().LoadVisible()
		return nil
	})
	if err != nil {
		t.Fatalf("Batch failed: %v", err)
	}
	if len(visible.Rows) != 3 {
		t.Fatalf("Expected 3 visible rows, got %d (%v)", len(visible.Rows), visible.Rows)
	}
	for _, row := range visible.Values {
		if row[2] != "Education" && row[2] != "Groceries" {
			t.Errorf("Unexpected visible category %v", row[2])
		}
	}

	shown, _ := w.File().GetRowVisible("Sheet1", 2)
	if shown {
		t.Error("Expected row 2 (Communications) to be hidden")
	}

	err = batch.Run(context.Background(), w, func(b *batch.Batch) error {
		table := b.Workbook().Worksheets().GetActiveWorksheet().Tables().GetItem("ExpensesTable")
		table.Columns().GetItem("Category").Filter().Clear()
		visible = table.GetDataBodyRange().LoadVisible()
		return nil
	})
	if err != nil {
		t.Fatalf("Clear batch failed: %v", err)
	}
	if len(visible.Rows) != 7 {
		t.Errorf("Expected 7 visible rows after clearing, got %d", len(visible.Rows))
	}
}

func TestSortDescendingByMerchant(t *testing.T) {
	w := New()
	defer w.Close()
	seed(t, w)

	var data *batch.RangeData
	err := batch.Run(context.Background(), w, func(b *batch.Batch) error {
		table := b.Workbook().Worksheets().GetActiveWorksheet().Tables().GetItem("ExpensesTable")
		table.Sort().Apply([]batch.SortField{{Key: 1, Ascending: false}}, false)
		data = table.GetDataBodyRange().Load()
		return nil
	})
	if err != nil {
		t.Fatalf("Batch failed: %v", err)
	}

	expected := []string{
		"Trey Research",
		"The Phone Company",
		"Northwind Electric Cars",
		"Coho Vineyard",
		"Best For You Organics Company",
		"Best For You Organics Company",
		"Bellows College",
	}
	merchants, err := data.Column(1)
	if err != nil {
		t.Fatalf("Column failed: %v", err)
	}
	for i, want := range expected {
		if merchants[i] != want {
			t.Errorf("Row %d: expected %q, got %v", i, want, merchants[i])
		}
	}
	// Rows move as a whole.
	if data.Values[0][3] != float64(135) {
		t.Errorf("Expected Trey Research amount 135, got %v", data.Values[0][3])
	}
	// Ties keep their original order.
	if data.Values[4][3] != 27.9 || data.Values[5][3] != 97.88 {
		t.Errorf("Expected stable order for equal keys, got %v and %v", data.Values[4][3], data.Values[5][3])
	}
}

func TestSortMovesRowVisibility(t *testing.T) {
	w := New()
	defer w.Close()
	seed(t, w)
	// Row 2 holds The Phone Company.
	if err := w.File().SetRowVisible("Sheet1", 2, false); err != nil {
		t.Fatalf("SetRowVisible failed: %v", err)
	}

	err := batch.Run(context.Background(), w, func(b *batch.Batch) error {
		table := b.Workbook().Worksheets().GetActiveWorksheet().Tables().GetItem("ExpensesTable")
		table.Sort().Apply([]batch.SortField{{Key: 1, Ascending: false}}, false)
		return nil
	})
	if err != nil {
		t.Fatalf("Batch failed: %v", err)
	}

	for row := 2; row <= 8; row++ {
		merchant, _ := w.File().GetCellValue("Sheet1", cellName(2, row))
		shown, err := w.File().GetRowVisible("Sheet1", row)
		if err != nil {
			t.Fatalf("GetRowVisible failed: %v", err)
		}
		expected := merchant != "The Phone Company"
		if shown != expected {
			t.Errorf("Row %d (%s): expected visible=%v, got %v", row, merchant, expected, shown)
		}
	}
}

func TestFiltersSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.xlsx")
	w := New()
	seed(t, w)
	err := batch.Run(context.Background(), w, func(b *batch.Batch) error {
		table := b.Workbook().Worksheets().GetActiveWorksheet().Tables().GetItem("ExpensesTable")
		table.Columns().GetItem("Category").Filter().ApplyValuesFilter([]string{"Education", "Groceries"})
		return nil
	})
	if err != nil {
		t.Fatalf("Filter batch failed: %v", err)
	}
	if err := w.SaveAs(path); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}
	w.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer reopened.Close()

	var visible *batch.RangeData
	err = batch.Run(context.Background(), reopened, func(b *batch.Batch) error {
		table := b.Workbook().Worksheets().GetActiveWorksheet().Tables().GetItem("ExpensesTable")
		table.Sort().Apply([]batch.SortField{{Key: 1, Ascending: false}}, false)
		visible = table.GetDataBodyRange().LoadVisible()
		return nil
	})
	if err != nil {
		t.Fatalf("Sort batch failed: %v", err)
	}
	if len(visible.Rows) != 3 {
		t.Fatalf("Expected 3 visible rows, got %d (%v)", len(visible.Rows), visible.Values)
	}
	for row := 2; row <= 8; row++ {
		category, _ := reopened.File().GetCellValue("Sheet1", cellName(3, row))
		shown, err := reopened.File().GetRowVisible("Sheet1", row)
		if err != nil {
			t.Fatalf("GetRowVisible failed: %v", err)
		}
		expected := category == "Education" || category == "Groceries"
		if shown != expected {
			t.Errorf("Row %d (%s): expected visible=%v, got %v", row, category, expected, shown)
		}
	}

	err = batch.Run(context.Background(), reopened, func(b *batch.Batch) error {
		b.Workbook().Worksheets().GetActiveWorksheet().Tables().GetItem("ExpensesTable").ClearFilters()
		return nil
	})
	if err != nil {
		t.Fatalf("Clear batch failed: %v", err)
	}
	props, err := reopened.File().GetCustomProps()
	if err != nil {
		t.Fatalf("GetCustomProps failed: %v", err)
	}
	for _, p := range props {
		if p.Name == filterPropPrefix+"ExpensesTable" {
			t.Errorf("Expected filter property to be removed, got %v", p.Value)
		}
	}
}

func TestCompareSortValues(t *testing.T) {
	tests := []struct {
		name      string
		a, b      any
		ascending bool
		matchCase bool
		expected  int
	}{
		{"numbers ascending", 1.0, 2.0, true, false, -1},
		{"numbers descending", 1.0, 2.0, false, false, 1},
		{"numbers before text", 5.0, "a", true, false, -1},
		{"text before bools", "z", true, true, false, -1},
		{"blank last ascending", nil, 1.0, true, false, 1},
		{"blank last descending", nil, 1.0, false, false, 1},
		{"case folded", "abc", "ABC", true, false, 0},
		{"case kept", "ABC", "abc", true, true, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := compareSortValues(tt.a, tt.b, tt.ascending, tt.matchCase); got != tt.expected {
				t.Errorf("compareSortValues(%v, %v) = %d, expected %d", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestOverlappingTableFailsAndRollsBack(t *testing.T) {
	w := New()
	defer w.Close()
	seed(t, w)

	err := batch.Run(context.Background(), w, func(b *batch.Batch) error {
		sheet := b.Workbook().Worksheets().GetActiveWorksheet()
		sheet.GetRange("F1").SetValues([][]any{{"scratch"}})
		table := sheet.Tables().Add("A1:D1", true)
		table.SetName("ExpensesTable")
		return nil
	})
	if err == nil {
		t.Fatal("Expected second table on the same range to fail")
	}
	if !batch.IsCode(err, batch.CodeInvalidOperation) {
		t.Errorf("Expected %s, got %v", batch.CodeInvalidOperation, err)
	}
	var se *batch.SyncError
	if !errors.As(err, &se) {
		t.Fatalf("Expected *batch.SyncError, got %T", err)
	}
	if se.Op != "tables.add" {
		t.Errorf("Expected failing op tables.add, got %s", se.Op)
	}

	scratch, _ := w.File().GetCellValue("Sheet1", "F1")
	if scratch != "" {
		t.Errorf("Expected F1 to be rolled back, got %q", scratch)
	}
	if names := w.TableNames(); len(names) != 1 {
		t.Errorf("Expected 1 table after failed batch, got %v", names)
	}
	last, _ := w.File().GetCellValue("Sheet1", "B9")
	if last != "" {
		t.Errorf("Expected no duplicated data below the table, got %q", last)
	}
}

func TestMissingTableFailsAtSync(t *testing.T) {
	w := New()
	defer w.Close()

	b := batch.New(w)
	sheet := b.Workbook().Worksheets().GetActiveWorksheet()
	sheet.GetRange("A1").SetValues([][]any{{"kept?"}})
	sheet.Tables().GetItem("Missing").ClearFilters()

	err := b.Sync(context.Background())
	if !batch.IsCode(err, batch.CodeItemNotFound) {
		t.Fatalf("Expected %s, got %v", batch.CodeItemNotFound, err)
	}
	v, _ := w.File().GetCellValue("Sheet1", "A1")
	if v != "" {
		t.Errorf("Expected A1 to be rolled back, got %q", v)
	}
}

func TestDuplicateTableName(t *testing.T) {
	w := New()
	defer w.Close()
	seed(t, w)

	err := batch.Run(context.Background(), w, func(b *batch.Batch) error {
		table := b.Workbook().Worksheets().GetActiveWorksheet().Tables().Add("F1:G3", true)
		table.SetName("expensestable")
		return nil
	})
	if !batch.IsCode(err, batch.CodeItemAlreadyExists) {
		t.Fatalf("Expected %s, got %v", batch.CodeItemAlreadyExists, err)
	}
}

func TestRenamedTablesTradeNames(t *testing.T) {
	w := New()
	defer w.Close()

	err := batch.Run(context.Background(), w, func(b *batch.Batch) error {
		sheet := b.Workbook().Worksheets().GetActiveWorksheet()
		sheet.Tables().Add("A1:B2", true).SetName("Left")
		sheet.Tables().Add("D1:E2", true).SetName("Right")
		return nil
	})
	if err != nil {
		t.Fatalf("Setup batch failed: %v", err)
	}
	err = batch.Run(context.Background(), w, func(b *batch.Batch) error {
		tables := b.Workbook().Worksheets().GetActiveWorksheet().Tables()
		left, right := tables.GetItem("Left"), tables.GetItem("Right")
		left.SetName("Tmp")
		right.SetName("Left")
		left.SetName("Right")
		return nil
	})
	if err != nil {
		t.Fatalf("Rename batch failed: %v", err)
	}
	tables, _ := w.File().GetTables("Sheet1")
	byName := make(map[string]string)
	for _, tbl := range tables {
		byName[tbl.Name] = tbl.Range
	}
	if byName["Left"] != "D1:E2" || byName["Right"] != "A1:B2" {
		t.Errorf("Expected swapped names, got %v", byName)
	}
}

func TestAddRowsInsertsAtIndex(t *testing.T) {
	w := New()
	defer w.Close()
	seed(t, w)

	var data *batch.RangeData
	err := batch.Run(context.Background(), w, func(b *batch.Batch) error {
		table := b.Workbook().Worksheets().GetActiveWorksheet().Tables().GetItem("ExpensesTable")
		idx := 0
		table.Rows().Add(&idx, [][]any{{"12/31/2016", "Contoso", "Other", 5}})
		data = table.GetRange().Load()
		return nil
	})
	if err != nil {
		t.Fatalf("Batch failed: %v", err)
	}
	if len(data.Values) != 9 {
		t.Fatalf("Expected header plus 8 rows, got %d", len(data.Values))
	}
	if data.Values[1][1] != "Contoso" {
		t.Errorf("Expected inserted row first, got %v", data.Values[1][1])
	}
	if data.Values[2][1] != "The Phone Company" {
		t.Errorf("Expected original first row to shift down, got %v", data.Values[2][1])
	}
	tables, _ := w.File().GetTables("Sheet1")
	if tables[0].Range != "A1:D9" {
		t.Errorf("Expected range A1:D9, got %s", tables[0].Range)
	}
}

func TestAddRowsRejectsWrongWidth(t *testing.T) {
	w := New()
	defer w.Close()
	seed(t, w)

	err := batch.Run(context.Background(), w, func(b *batch.Batch) error {
		table := b.Workbook().Worksheets().GetActiveWorksheet().Tables().GetItem("ExpensesTable")
		table.Rows().Add(nil, [][]any{{"too", "short"}})
		return nil
	})
	if !batch.IsCode(err, batch.CodeInvalidArgument) {
		t.Fatalf("Expected %s, got %v", batch.CodeInvalidArgument, err)
	}
}

func TestNumberFormatAndAutofit(t *testing.T) {
	w := New()
	defer w.Close()
	seed(t, w)

	var data *batch.RangeData
	err := batch.Run(context.Background(), w, func(b *batch.Batch) error {
		sheet := b.Workbook().Worksheets().GetActiveWorksheet()
		table := sheet.Tables().GetItem("ExpensesTable")
		table.Columns().GetItemAt(3).GetDataBodyRange().SetNumberFormat([][]string{{"€#,##0.00"}})
		table.GetRange().Format().AutofitColumns()
		table.GetRange().Format().AutofitRows()
		data = table.Columns().GetItemAt(3).GetDataBodyRange().Load()
		return nil
	})
	if err != nil {
		t.Fatalf("Batch failed: %v", err)
	}
	for i, row := range data.NumberFormat {
		if row[0] != "€#,##0.00" {
			t.Errorf("Row %d: expected currency format, got %q", i, row[0])
		}
	}
	if data.Values[0][0] != float64(120) {
		t.Errorf("Expected value to survive formatting, got %v", data.Values[0][0])
	}

	width, err := w.File().GetColWidth("Sheet1", "B")
	if err != nil {
		t.Fatalf("GetColWidth failed: %v", err)
	}
	// "Best For You Organics Company" is 29 characters.
	if width != 31 {
		t.Errorf("Expected column B width 31, got %v", width)
	}
}

func TestSetValuesChecksDimensions(t *testing.T) {
	w := New()
	defer w.Close()

	err := batch.Run(context.Background(), w, func(b *batch.Batch) error {
		b.Workbook().Worksheets().GetActiveWorksheet().GetRange("A1:B2").SetValues([][]any{{1, 2, 3}})
		return nil
	})
	if !batch.IsCode(err, batch.CodeInvalidArgument) {
		t.Fatalf("Expected %s, got %v", batch.CodeInvalidArgument, err)
	}
}

func TestCreateChart(t *testing.T) {
	w := New()
	defer w.Close()
	seed(t, w)

	err := batch.Run(context.Background(), w, func(b *batch.Batch) error {
		sheet := b.Workbook().Worksheets().GetActiveWorksheet()
		table := sheet.Tables().GetItem("ExpensesTable")
		chart := sheet.Charts().Add(batch.ChartColumnClustered, table.GetDataBodyRange(), batch.SeriesByAuto)
		chart.SetPosition("A15", "F30")
		chart.Title().SetText("Expenses")
		chart.Legend().SetPosition(batch.LegendRight)
		chart.Legend().SetFill("white")
		chart.DataLabels().SetFontSize(15)
		chart.DataLabels().SetFontColor("#000000")
		return nil
	})
	if err != nil {
		t.Fatalf("Batch failed: %v", err)
	}

	charts := w.Charts()
	if len(charts) != 1 {
		t.Fatalf("Expected 1 chart, got %d", len(charts))
	}
	c := charts[0]
	if c.Title != "Expenses" {
		t.Errorf("Expected title Expenses, got %q", c.Title)
	}
	if c.Start != "A15" || c.End != "F30" {
		t.Errorf("Expected A15:F30, got %s:%s", c.Start, c.End)
	}
	if c.LegendFill != "FFFFFF" {
		t.Errorf("Expected legend fill FFFFFF, got %s", c.LegendFill)
	}
	if c.LabelFontSize != 15 || c.LabelFontColor != "000000" {
		t.Errorf("Expected 15pt 000000 labels, got %vpt %s", c.LabelFontSize, c.LabelFontColor)
	}

	path := filepath.Join(t.TempDir(), "chart.xlsx")
	if err := w.SaveAs(path); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}
	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer reopened.Close()
	if names := reopened.TableNames(); len(names) != 1 || names[0] != "ExpensesTable" {
		t.Errorf("Expected table registry to be rebuilt, got %v", names)
	}
}

func TestChartWithoutNumbersFails(t *testing.T) {
	w := New()
	defer w.Close()
	seed(t, w)

	err := batch.Run(context.Background(), w, func(b *batch.Batch) error {
		sheet := b.Workbook().Worksheets().GetActiveWorksheet()
		table := sheet.Tables().GetItem("ExpensesTable")
		sheet.Charts().Add(batch.ChartPie, table.Columns().GetItem("Merchant").GetDataBodyRange(), batch.SeriesByColumns)
		return nil
	})
	if !batch.IsCode(err, batch.CodeInvalidArgument) {
		t.Fatalf("Expected %s, got %v", batch.CodeInvalidArgument, err)
	}
	if len(w.Charts()) != 0 {
		t.Error("Expected no chart after failed batch")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		ok       bool
	}{
		{"white", "FFFFFF", true},
		{"Black", "000000", true},
		{"#1f4e79", "1F4E79", true},
		{"abcdef", "ABCDEF", true},
		{"#12345", "", false},
		{"chartreuse-ish", "", false},
	}
	for _, tt := range tests {
		got, err := parseColor(tt.input)
		if (err == nil) != tt.ok {
			t.Errorf("parseColor(%q) error = %v, expected ok=%v", tt.input, err, tt.ok)
			continue
		}
		if got != tt.expected {
			t.Errorf("parseColor(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestFreezeHeaderRow(t *testing.T) {
	w := New()
	defer w.Close()
	seed(t, w)

	err := batch.Run(context.Background(), w, func(b *batch.Batch) error {
		b.Workbook().Worksheets().GetActiveWorksheet().FreezePanes().FreezeRows(1)
		return nil
	})
	if err != nil {
		t.Fatalf("Batch failed: %v", err)
	}
	panes, err := w.File().GetPanes("Sheet1")
	if err != nil {
		t.Fatalf("GetPanes failed: %v", err)
	}
	if !panes.Freeze || panes.YSplit != 1 || panes.TopLeftCell != "A2" {
		t.Errorf("Expected one frozen row, got %+v", panes)
	}

	err = batch.Run(context.Background(), w, func(b *batch.Batch) error {
		b.Workbook().Worksheets().GetActiveWorksheet().FreezePanes().FreezeRows(0)
		return nil
	})
	if !batch.IsCode(err, batch.CodeInvalidArgument) {
		t.Errorf("Expected %s for zero rows, got %v", batch.CodeInvalidArgument, err)
	}
}

func TestSupports(t *testing.T) {
	w := New()
	defer w.Close()
	tests := []struct {
		set, version string
		expected     bool
	}{
		{APISet, "1.1", true},
		{APISet, "1.7", true},
		{APISet, "1.8", false},
		{APISet, "1.10", false},
		{APISet, "1", true},
		{APISet, "2.0", false},
		{"WordApi", "1.1", false},
		{APISet, "abc", false},
	}
	for _, tt := range tests {
		if got := w.Supports(tt.set, tt.version); got != tt.expected {
			t.Errorf("Supports(%s, %s) = %v, expected %v", tt.set, tt.version, got, tt.expected)
		}
	}
}
