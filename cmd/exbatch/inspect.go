package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/ukaji3/exbatch-go/pkg/exbatch"
	"github.com/ukaji3/exbatch-go/pkg/exbatch/models"
	"github.com/ukaji3/exbatch-go/pkg/exbatch/output"
)

func newInspectCmd() *cobra.Command {
	var (
		outputPath string
		pretty     bool
		sheetsDir  string
	)
	cmd := &cobra.Command{
		Use:   "inspect <workbook.xlsx>",
		Short: "Print cells, tables, charts and panes of a workbook as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := exbatch.Inspect(args[0])
			if err != nil {
				return fmt.Errorf("inspection failed: %w", err)
			}

			jsonData, err := output.ToJSON(wb, pretty)
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}
			if outputPath != "" {
				if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			} else if sheetsDir == "" {
				fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
			}

			if sheetsDir != "" {
				if err := writeSheetFiles(wb, sheetsDir, pretty); err != nil {
					return fmt.Errorf("failed to write sheet files: %w", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().StringVar(&sheetsDir, "sheets-dir", "", "Directory for per-sheet output files")
	return cmd
}

func writeSheetFiles(wb *models.WorkbookData, dir string, pretty bool) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for sheetName, sheet := range wb.Sheets {
		jsonData, err := output.SheetToJSON(&sheet, pretty)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, sheetName+".json"), jsonData, 0644); err != nil {
			return err
		}
	}
	return nil
}
