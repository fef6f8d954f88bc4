package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/ukaji3/exbatch-go/pkg/exbatch/dialog"
)

func newDialogCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "dialog",
		Short: "Serve the popup page and print the message it sends back",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			opts := cfg.Options.Dialog
			page, err := pagePath(opts.URL)
			if err != nil {
				return err
			}

			gin.SetMode(gin.ReleaseMode)
			host := dialog.NewHTTPHost(cfg.DialogAddr, page, logger)
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = host.Shutdown(ctx)
			}()

			sink := dialog.NewElements()
			m := dialog.NewMessenger(host, sink, opts, logger)
			session, err := m.Open(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Open %s\n", session.Location())

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			if _, err := session.Wait(ctx); err != nil {
				_ = session.Close()
				if errors.Is(err, dialog.ErrDismissed) {
					fmt.Fprintln(out, "Dialog closed without a message")
					return nil
				}
				return err
			}
			text, _ := sink.Text(opts.Element)
			fmt.Fprintf(out, "%s: %s\n", opts.Element, text)
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "How long to wait for the message")
	return cmd
}

// pagePath is the path the dialog host serves the page at.
func pagePath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("dialog url: %w", err)
	}
	if u.Path == "" || u.Path == "/" {
		return "/popup.html", nil
	}
	return u.Path, nil
}
