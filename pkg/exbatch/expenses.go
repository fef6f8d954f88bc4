package exbatch

import "github.com/ukaji3/exbatch-go/pkg/exbatch/batch"

// Table layout.
const (
	// HeaderAddress is the header row the table is created over.
	HeaderAddress = "A1:D1"
	// AmountColumn is the zero-based position of the Amount column.
	AmountColumn = 3
	AmountFormat = "€#,##0.00"
)

// ExpenseHeader labels the table columns.
var ExpenseHeader = []any{"Date", "Merchant", "Category", "Amount"}

// Amounts are strings on purpose: the host stores numeric text as numbers.
var expenses = [][]any{
	{"1/1/2017", "The Phone Company", "Communications", "120"},
	{"1/2/2017", "Northwind Electric Cars", "Transportation", "142.33"},
	{"1/5/2017", "Best For You Organics Company", "Groceries", "27.9"},
	{"1/10/2017", "Coho Vineyard", "Restaurant", "33"},
	{"1/11/2017", "Bellows College", "Education", "350.1"},
	{"1/15/2017", "Trey Research", "Other", "135"},
	{"1/15/2017", "Best For You Organics Company", "Groceries", "97.88"},
}

// ExpenseRows returns a copy of the seven fixed expense rows.
func ExpenseRows() [][]any {
	out := make([][]any, len(expenses))
	for i, row := range expenses {
		out[i] = append([]any(nil), row...)
	}
	return out
}

// Filter settings.
const FilterColumn = "Category"

// FilterValues are the categories left visible by filterTable.
var FilterValues = []string{"Education", "Groceries"}

// SortFields orders the table by Merchant, descending.
var SortFields = []batch.SortField{{Key: 1, Ascending: false}}

// Chart settings.
const (
	ChartType       = batch.ChartColumnClustered
	ChartStart      = "A15"
	ChartEnd        = "F30"
	ChartTitle      = "Expenses"
	ChartLegend     = batch.LegendRight
	ChartLegendFill = "white"
	ChartFontSize   = 15
	ChartFontColor  = "black"
)

// FrozenRows is the number of header rows freezeHeader keeps in view.
const FrozenRows = 1
