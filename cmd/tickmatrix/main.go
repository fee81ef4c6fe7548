package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tsawler/tickmatrix/config"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Loaded in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tickmatrix",
	Short: "Cross-reference tick-list matrices in HTML pages",
	Long: `tickmatrix annotates the ticked cells of matrix tables with their row and
column headings, then paints each ticked cell of a child matrix green when
the same row/column pair is ticked in the parent matrix and red otherwise.

Pages can be validated from files, over HTTP (serve), or in a live browser.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(cmd, configPath)
		if err != nil {
			return err
		}

		// Initialize logger
		zc := zap.NewProductionConfig()
		level, err := zapcore.ParseLevel(cfg.Logging.Level)
		if err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
		zc.Level = zap.NewAtomicLevelAt(level)
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		if cfg.Logging.Development {
			zc.Development = true
			zc.Encoding = "console"
		}
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// loadConfig loads and validates the configuration. config init skips
// validation so it can replace a broken file.
func loadConfig(cmd *cobra.Command, path string) (*config.Config, error) {
	c, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if cmd == configInitCmd {
		return c, nil
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return c, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Config file (YAML)")

	addScopeFlags(validateCmd)
	validateCmd.Flags().StringVarP(&outputFormat, "format", "f", formatPage, "Output: page, markdown, json, or html")
	validateCmd.Flags().StringVarP(&outputPath, "out", "o", "", "Write output to file (default: stdout)")
	validateCmd.Flags().BoolVar(&strict, "strict", false, "Fail when any child label is unmatched or warnings were raised")
	addEngineFlags(validateCmd)

	annotateCmd.Flags().StringVarP(&parentScope, "parent", "p", "", "Class of the parent matrix (default from config)")
	annotateCmd.Flags().StringVarP(&outputPath, "out", "o", "", "Write output to file (default: stdout)")
	addEngineFlags(annotateCmd)

	labelsCmd.Flags().StringVarP(&scope, "scope", "s", "", "Class of the matrix to read (required)")
	labelsCmd.Flags().BoolVar(&labelsJSON, "json", false, "Print the label set as JSON")
	_ = labelsCmd.MarkFlagRequired("scope")

	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "Listen address (default from config)")

	addScopeFlags(liveCmd)
	liveCmd.Flags().BoolVar(&keepOpen, "keep-open", false, "Leave the painted page open in the browser")
	liveCmd.Flags().StringVar(&controlURL, "control-url", "", "DevTools URL of a running browser")
	liveCmd.Flags().BoolVar(&headful, "headful", false, "Show the launched browser window")
	addEngineFlags(liveCmd)

	configInitCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(annotateCmd)
	rootCmd.AddCommand(labelsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(liveCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
