// Package main provides the CLI entry point for exbatch.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/ukaji3/exbatch-go/internal/config"
	"github.com/ukaji3/exbatch-go/internal/logging"
)

var (
	configPath string
	logLevel   string
	sheetName  string
)

// errActionFailed marks failures that were already logged.
var errActionFailed = errors.New("action failed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errActionFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "exbatch",
		Short: "Run expense-table actions against an xlsx workbook",
		Long: `exbatch creates, filters, sorts and charts an expenses table in an xlsx
workbook. Each action is sent as one batch of commands with a single
synchronization point. The dialog command relays a message from a popup
page.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to exbatch.toml")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	root.PersistentFlags().StringVar(&sheetName, "sheet", "", "Worksheet to act on (default: the active sheet)")

	root.AddCommand(actionCommands()...)
	root.AddCommand(newRunCmd(), newInspectCmd(), newDialogCmd())
	return root
}

// setup resolves the configuration and logger for a command. Flags win over
// the config file.
func setup(cmd *cobra.Command) (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if cmd.Flags().Changed("sheet") {
		cfg.Options.Sheet = sheetName
	}
	return cfg, logging.Runtime(cfg.LogLevel), nil
}
