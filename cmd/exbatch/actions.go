package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/ukaji3/exbatch-go/pkg/exbatch"
	"github.com/ukaji3/exbatch-go/pkg/exbatch/workbook"
)

var actionHelp = []struct {
	name  string
	short string
}{
	{exbatch.ActionCreateTable, "Create the expenses table on the sheet"},
	{exbatch.ActionFilterTable, "Show only Education and Groceries rows"},
	{exbatch.ActionSortTable, "Sort the table by merchant, descending"},
	{exbatch.ActionCreateChart, "Add a clustered column chart of the table"},
	{exbatch.ActionFreezeHeader, "Freeze the header row"},
}

func actionCommands() []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(actionHelp))
	for _, a := range actionHelp {
		name := a.name
		cmds = append(cmds, &cobra.Command{
			Use:   name + " <workbook.xlsx>",
			Short: a.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDispatcher(cmd, args[0], func(ctx context.Context, d *exbatch.Dispatcher) ([]exbatch.Result, error) {
					action, err := d.Action(name)
					if err != nil {
						return nil, err
					}
					return []exbatch.Result{action.Run(ctx)}, nil
				})
			},
		})
	}
	return cmds
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <workbook.xlsx>",
		Short: "Run every action in order, stopping at the first failure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDispatcher(cmd, args[0], func(ctx context.Context, d *exbatch.Dispatcher) ([]exbatch.Result, error) {
				return d.RunAll(ctx), nil
			})
		},
	}
}

// withDispatcher opens (or creates) the workbook, runs fn and saves the
// workbook when at least one action applied.
func withDispatcher(cmd *cobra.Command, path string, fn func(context.Context, *exbatch.Dispatcher) ([]exbatch.Result, error)) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	wb, err := workbook.OpenOrCreate(path, workbook.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	d := exbatch.NewDispatcher(wb, cfg.Options, logger)
	d.Bootstrap()

	results, err := fn(cmd.Context(), d)
	if err != nil {
		return err
	}
	applied := printResults(cmd.OutOrStdout(), results)
	if applied > 0 {
		if err := wb.Save(); err != nil {
			return fmt.Errorf("save workbook: %w", err)
		}
	}
	if applied < len(results) {
		return errActionFailed
	}
	return nil
}

func printResults(w io.Writer, results []exbatch.Result) int {
	applied := 0
	for _, res := range results {
		status := "ok"
		if !res.OK() {
			status = "failed"
		} else {
			applied++
		}
		fmt.Fprintf(w, "%-14s %-6s %d commands\n", res.Action, status, res.Commands)
	}
	return applied
}
