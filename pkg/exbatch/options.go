// Package exbatch runs the expense-tracking actions against a spreadsheet
// host. Each action queues its commands on one batch and synchronizes once.
package exbatch

import "github.com/ukaji3/exbatch-go/pkg/exbatch/dialog"

// Options configures a Dispatcher.
type Options struct {
	// Sheet names the worksheet actions run on. Empty means the active
	// worksheet.
	Sheet string
	// TableName is the name createTable gives the expenses table and the
	// other actions look it up by.
	TableName string
	// MinAPIVersion is the ExcelApi requirement set version checked by
	// Bootstrap.
	MinAPIVersion string
	// Dialog configures the dialog messenger.
	Dialog dialog.Options
}

// DefaultOptions returns the options of the expense tutorial.
func DefaultOptions() Options {
	return Options{
		TableName:     "ExpensesTable",
		MinAPIVersion: "1.7",
		Dialog:        dialog.DefaultOptions(),
	}
}
