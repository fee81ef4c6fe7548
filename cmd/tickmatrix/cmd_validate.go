package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tsawler/tickmatrix"
	"github.com/tsawler/tickmatrix/matrix"
	"github.com/tsawler/tickmatrix/report"
)

// formatPage writes the annotated page instead of a report.
const formatPage = "page"

var (
	parentScope  string
	childScope   string
	outputFormat string
	outputPath   string
	strict       bool

	headingClass string
	columnOffset int
	layoutColor  string
	normalize    bool

	scope      string
	labelsJSON bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [file.html|-]",
	Short: "Annotate a page and compare the child matrix against the parent",
	Long: `Reads an HTML page, describes every ticked cell with its row and column
headings, blanks generated placeholder cells, and paints each ticked cell of
the child matrix by whether the parent matrix ticks the same pair.

Example:
  tickmatrix validate page.html -p parentMatrix -C childMatrix -f markdown`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

var annotateCmd = &cobra.Command{
	Use:   "annotate [file.html|-]",
	Short: "Describe ticked cells with their row and column headings",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnnotate,
}

var labelsCmd = &cobra.Command{
	Use:   "labels [file.html|-]",
	Short: "List the marker labels of one matrix",
	Args:  cobra.ExactArgs(1),
	RunE:  runLabels,
}

func addScopeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&parentScope, "parent", "p", "", "Class of the parent matrix (default from config)")
	cmd.Flags().StringVarP(&childScope, "child", "C", "", "Class of the child matrix (default from config)")
}

func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&headingClass, "heading-class", "", "Class of column heading elements")
	cmd.Flags().IntVar(&columnOffset, "column-offset", -1, "Leading cells without a heading (-1: from config)")
	cmd.Flags().StringVar(&layoutColor, "layout-color", "", "Tint the layout element with this color")
	cmd.Flags().BoolVar(&normalize, "normalize", false, "Compare labels in Unicode NFC form")
}

// engineOptions merges command-line overrides into the configured options.
func engineOptions() matrix.Options {
	opts := cfg.Options()
	if headingClass != "" {
		opts.HeadingClass = headingClass
	}
	if columnOffset >= 0 {
		opts.ColumnOffset = columnOffset
	}
	if layoutColor != "" {
		opts.LayoutColor = layoutColor
	}
	if normalize {
		opts.NormalizeLabels = true
	}
	return opts
}

func scopes() (parent, child string) {
	parent, child = parentScope, childScope
	if parent == "" {
		parent = cfg.Matrix.ParentScope
	}
	if child == "" {
		child = cfg.Matrix.ChildScope
	}
	return parent, child
}

// source returns a Validator over the named file, or stdin for "-".
func source(cmd *cobra.Command, name string) *tickmatrix.Validator {
	var v *tickmatrix.Validator
	if name == "-" {
		v = tickmatrix.FromReader(cmd.InOrStdin())
	} else {
		v = tickmatrix.Open(name)
	}
	return v.WithOptions(engineOptions())
}

func runValidate(cmd *cobra.Command, args []string) error {
	parent, child := scopes()
	v := source(cmd, args[0]).Parent(parent).Child(child)

	format := strings.ToLower(outputFormat)
	var buf bytes.Buffer
	var res *matrix.Result

	if format == formatPage {
		r, err := v.Render(&buf)
		if err != nil {
			return err
		}
		res = r
	} else {
		f, err := report.ParseFormat(format)
		if err != nil {
			return err
		}
		rep, err := v.Report()
		if err != nil {
			return err
		}
		if err := rep.Write(&buf, f); err != nil {
			return err
		}
		res = rep.Result
	}

	logResult(args[0], res)

	if err := writeOutput(cmd.OutOrStdout(), buf.Bytes()); err != nil {
		return err
	}

	if strict {
		if n := len(res.Comparison.Unmatched()); n > 0 {
			return fmt.Errorf("%d child label(s) not ticked in parent matrix %q", n, parent)
		}
		if len(res.Warnings) > 0 {
			return fmt.Errorf("validation raised %d warning(s)", len(res.Warnings))
		}
	}
	return nil
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	parent, _ := scopes()
	v := source(cmd, args[0]).Parent(parent)

	stats, warnings, err := v.Annotate()
	if err != nil {
		return err
	}
	for _, w := range warnings {
		logger.Warn("annotation warning", zap.String("code", string(w.Code)), zap.String("message", w.Message), zap.String("path", w.Path))
	}
	logger.Info("annotated page",
		zap.String("source", args[0]),
		zap.Int("cells", stats.Cells),
		zap.Int("annotated", stats.Annotated),
		zap.Int("blanked", stats.Blanked),
		zap.Int("skipped", stats.Skipped))

	doc, err := v.Document()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), buf.Bytes())
}

func runLabels(cmd *cobra.Command, args []string) error {
	set, err := source(cmd, args[0]).Labels(scope)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if labelsJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(set)
	}

	if set.Status == matrix.ScopeNotFound {
		logger.Warn("scope matched no element", zap.String("scope", scope))
	}
	for _, l := range set.Labels {
		fmt.Fprintln(out, strings.ReplaceAll(l, "\r\n", " / "))
	}
	return nil
}

func logResult(src string, res *matrix.Result) {
	for _, w := range res.Warnings {
		logger.Warn("validation warning", zap.String("code", string(w.Code)), zap.String("message", w.Message), zap.String("path", w.Path))
	}
	logger.Info("validated page",
		zap.String("source", src),
		zap.String("parent", res.ParentScope),
		zap.String("child", res.ChildScope),
		zap.Int("matched", len(res.Comparison.Matched())),
		zap.Int("unmatched", len(res.Comparison.Unmatched())),
		zap.Int("mutations", len(res.Mutations)))
}

// writeOutput writes to --out when set, otherwise to w.
func writeOutput(w io.Writer, data []byte) error {
	if outputPath == "" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
