package matrix

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/tsawler/tickmatrix/htmldoc"
)

// AnnotateStats counts what the structural pass did.
type AnnotateStats struct {
	Cells     int `json:"cells"`     // Table cells visited
	Annotated int `json:"annotated"` // Positive ticks given a description
	Blanked   int `json:"blanked"`   // Placeholder cells whitened
	Skipped   int `json:"skipped"`   // Non-empty cells that were not a single positive tick
}

// Annotator runs the structural and comparison passes and records every
// write it makes. An Annotator is not safe for concurrent use.
type Annotator struct {
	opts        Options
	placeholder *regexp.Regexp
	journal     journal
	warnings    []Warning
}

// NewAnnotator creates an Annotator with the given options.
func NewAnnotator(opts Options) *Annotator {
	return &Annotator{
		opts:        opts.Clone(),
		placeholder: placeholderPattern(opts.PlaceholderPrefixes),
	}
}

// placeholderPattern compiles the id substrings that mark generated cells.
func placeholderPattern(prefixes []string) *regexp.Regexp {
	quoted := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if p != "" {
			quoted = append(quoted, regexp.QuoteMeta(p))
		}
	}
	if len(quoted) == 0 {
		return nil
	}
	return regexp.MustCompile(strings.Join(quoted, "|"))
}

// Options returns a copy of the annotator's options.
func (a *Annotator) Options() Options {
	return a.opts.Clone()
}

// Mutations returns every write recorded so far, in order.
func (a *Annotator) Mutations() []Mutation {
	return a.journal.snapshot()
}

// Warnings returns the warnings recorded so far.
func (a *Annotator) Warnings() []Warning {
	return append([]Warning(nil), a.warnings...)
}

// Reset clears recorded mutations and warnings.
func (a *Annotator) Reset() {
	a.journal = journal{}
	a.warnings = nil
}

func (a *Annotator) warn(code WarningCode, path, format string, args ...interface{}) {
	a.warnings = append(a.warnings, Warning{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Path:    path,
	})
}

// Annotate runs the structural pass over every td below root, resolving
// column headings from the matrix identified by parentScope.
func (a *Annotator) Annotate(root *html.Node, parentScope string) AnnotateStats {
	headers := BuildHeaderMap(root, parentScope, a.opts)
	if headers.Status != ScopeFound {
		a.warn(WarnHeadingsMissing, "", "no %q headings in element %d of scope %q",
			a.opts.HeadingClass, a.opts.HeadingContainer, parentScope)
	}
	return a.AnnotateWithHeaders(root, headers)
}

// AnnotateWithHeaders runs the structural pass with a prebuilt header map.
//
// A cell whose only element child carries the tick sentinel in both alt and
// title gets the description "Row: <row text>\r\nColumn: <heading>" as the
// title of the cell and of the marker. A cell with no element children whose
// id contains a placeholder prefix gets the placeholder background. Every
// other cell is left alone.
func (a *Annotator) AnnotateWithHeaders(root *html.Node, headers HeaderMap) AnnotateStats {
	var stats AnnotateStats

	for _, cell := range htmldoc.FindAll(root, htmldoc.Tag("td")) {
		stats.Cells++
		children := htmldoc.ElementChildren(cell)

		switch {
		case len(children) == 1 && a.isPositiveTick(children[0]):
			column, ok := headers.Column(htmldoc.CellIndex(cell))
			if !ok {
				a.warn(WarnHeaderOutOfRange, htmldoc.Path(cell),
					"column %d has no heading (%d headings, offset %d)",
					htmldoc.CellIndex(cell), headers.Len(), headers.Offset)
				stats.Skipped++
				continue
			}
			desc := Describe(rowText(cell), column)
			a.journal.setAttr(cell, "title", desc)
			a.journal.setAttr(children[0], "title", desc)
			stats.Annotated++

		case len(children) == 0:
			if a.isPlaceholder(cell) {
				a.journal.setStyle(cell, "background-color", a.opts.PlaceholderColor)
				stats.Blanked++
			}

		default:
			stats.Skipped++
		}
	}

	return stats
}

// Describe builds the description written on an annotated tick cell.
func Describe(row, column string) string {
	return "Row: " + row + "\r\nColumn: " + column
}

func (a *Annotator) isPositiveTick(n *html.Node) bool {
	alt, okAlt := htmldoc.LookupAttr(n, "alt")
	title, okTitle := htmldoc.LookupAttr(n, "title")
	return okAlt && okTitle && alt == a.opts.TickSentinel && title == a.opts.TickSentinel
}

func (a *Annotator) isPlaceholder(cell *html.Node) bool {
	if a.placeholder == nil {
		return false
	}
	return a.placeholder.MatchString(htmldoc.GetAttr(cell, "id"))
}

// rowText is the trimmed text content of the cell's row.
func rowText(cell *html.Node) string {
	row := htmldoc.ParentElement(cell)
	if row == nil {
		return ""
	}
	return strings.TrimSpace(htmldoc.TextContent(row))
}
