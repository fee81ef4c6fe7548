// Package report turns a validation run into a document for people or tools.
//
// A [Report] bundles the [matrix.Result] of a run with snapshots of the
// parent and child matrices. It renders as Markdown, JSON, or HTML (the
// Markdown converted with goldmark).
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/net/html"

	"github.com/tsawler/tickmatrix/htmldoc"
	"github.com/tsawler/tickmatrix/matrix"
	"github.com/tsawler/tickmatrix/model"
)

// Format selects a report rendering.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatHTML     Format = "html"
)

// ParseFormat parses a format name. "md" is accepted for markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "html":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unknown report format %q", s)
	}
}

// Report describes one validation run.
type Report struct {
	RunID     string          `json:"run_id"`
	Source    string          `json:"source"`
	Generated time.Time       `json:"generated"`
	Result    *matrix.Result  `json:"result"`
	Document  *model.Document `json:"document"`
}

// New builds a report for res, snapshotting both matrices from root.
func New(source string, root *html.Node, res *matrix.Result, opts matrix.Options) *Report {
	doc := model.NewDocument()
	doc.Metadata.Source = source
	doc.Metadata.Created = time.Now()
	doc.Metadata.Title = htmldoc.FromNode(root).Title()
	for _, scope := range []string{res.ParentScope, res.ChildScope} {
		for _, t := range Snapshot(root, scope, opts) {
			doc.AddTable(t)
		}
	}

	return &Report{
		RunID:     uuid.NewString(),
		Source:    source,
		Generated: doc.Metadata.Created,
		Result:    res,
		Document:  doc,
	}
}

// Markdown renders the report as Markdown.
func (r *Report) Markdown() string {
	var sb strings.Builder
	res := r.Result

	sb.WriteString("# Matrix validation report\n\n")
	fmt.Fprintf(&sb, "- Run: %s\n", r.RunID)
	if r.Source != "" {
		fmt.Fprintf(&sb, "- Source: %s\n", r.Source)
	}
	if r.Document.Metadata.Title != "" {
		fmt.Fprintf(&sb, "- Page: %s\n", r.Document.Metadata.Title)
	}
	fmt.Fprintf(&sb, "- Parent scope: `%s` (%s, %d labels)\n",
		res.ParentScope, res.Comparison.Parent.Status, res.Comparison.Parent.Len())
	fmt.Fprintf(&sb, "- Child scope: `%s` (%s, %d labels)\n",
		res.ChildScope, res.Comparison.Child.Status, res.Comparison.Child.Len())
	fmt.Fprintf(&sb, "- Cells: %d visited, %d annotated, %d blanked, %d skipped\n",
		res.Stats.Cells, res.Stats.Annotated, res.Stats.Blanked, res.Stats.Skipped)

	writeLabels(&sb, "Matched", res.Comparison.Matched())
	writeLabels(&sb, "Unmatched", res.Comparison.Unmatched())

	if len(res.Warnings) > 0 {
		fmt.Fprintf(&sb, "\n## Warnings (%d)\n\n", len(res.Warnings))
		for _, w := range res.Warnings {
			fmt.Fprintf(&sb, "- %s\n", inline(w.String()))
		}
	}

	for _, t := range r.Document.Tables {
		if t.RowCount() == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n## Matrix `%s`\n\n", t.Scope)
		sb.WriteString(t.ToMarkdown())
	}

	return sb.String()
}

func writeLabels(sb *strings.Builder, title string, labels []string) {
	fmt.Fprintf(sb, "\n## %s (%d)\n\n", title, len(labels))
	if len(labels) == 0 {
		sb.WriteString("_none_\n")
		return
	}
	for _, l := range labels {
		fmt.Fprintf(sb, "- %s\n", inline(l))
	}
}

// inline flattens line breaks so a label fits on one list line.
func inline(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " / ")
	return strings.ReplaceAll(s, "\n", " / ")
}

// JSON renders the report as indented JSON.
func (r *Report) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling report: %w", err)
	}
	return data, nil
}

// HTML renders the Markdown report as an HTML fragment.
func (r *Report) HTML() (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var buf bytes.Buffer
	if err := md.Convert([]byte(r.Markdown()), &buf); err != nil {
		return "", fmt.Errorf("rendering report HTML: %w", err)
	}
	return buf.String(), nil
}

// Write renders the report in the given format to w.
func (r *Report) Write(w io.Writer, format Format) error {
	var data []byte
	switch format {
	case FormatMarkdown:
		data = []byte(r.Markdown())
	case FormatJSON:
		j, err := r.JSON()
		if err != nil {
			return err
		}
		data = append(j, '\n')
	case FormatHTML:
		h, err := r.HTML()
		if err != nil {
			return err
		}
		data = []byte(h)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
