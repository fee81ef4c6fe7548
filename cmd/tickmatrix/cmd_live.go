package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tsawler/tickmatrix/live"
)

var (
	keepOpen   bool
	controlURL string
	headful    bool
)

var liveCmd = &cobra.Command{
	Use:   "live [url]",
	Short: "Validate a page in a browser and paint it in place",
	Long: `Loads the URL in Chrome (launched, or attached with --control-url), runs
the validation on the rendered HTML, and applies every recorded write to the
live page.

Example:
  tickmatrix live https://example.org/model -p parentMatrix -C childMatrix --headful --keep-open`,
	Args: cobra.ExactArgs(1),
	RunE: runLive,
}

func liveConfig() live.Config {
	lc := live.Config{
		ControlURL: cfg.Live.ControlURL,
		BrowserBin: cfg.Live.BrowserBin,
		Headless:   cfg.Live.Headless,
		Timeout:    cfg.GetLiveTimeout(),
	}
	if controlURL != "" {
		lc.ControlURL = controlURL
	}
	if headful {
		lc.Headless = false
	}
	return lc
}

func runLive(cmd *cobra.Command, args []string) error {
	parent, child := scopes()
	if parent == "" || child == "" {
		return fmt.Errorf("parent and child scopes are required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := live.Connect(ctx, liveConfig())
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			logger.Warn("failed to close browser", zap.Error(err))
		}
	}()

	out, err := s.Validate(ctx, args[0], parent, child, engineOptions(), keepOpen)
	if err != nil {
		return err
	}

	logResult(out.URL, out.Result)
	if out.Missing > 0 {
		logger.Warn("mutations did not match the live page",
			zap.Int("missing", out.Missing),
			zap.Int("applied", out.Applied))
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Matched:   %d\n", len(out.Result.Comparison.Matched()))
	fmt.Fprintf(w, "Unmatched: %d\n", len(out.Result.Comparison.Unmatched()))
	fmt.Fprintf(w, "Applied:   %d/%d writes\n", out.Applied, len(out.Result.Mutations))

	if keepOpen && cfg.Live.ControlURL == "" && controlURL == "" {
		fmt.Fprintln(w, "Press Ctrl+C to close the browser.")
		<-ctx.Done()
	}
	return nil
}
