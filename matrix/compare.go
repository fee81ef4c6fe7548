package matrix

import (
	"golang.org/x/net/html"

	"github.com/tsawler/tickmatrix/htmldoc"
)

// Verdict is the outcome for one child label occurrence.
type Verdict struct {
	Label   string `json:"label"`
	Matched bool   `json:"matched"`
	Color   string `json:"color"`
	Cells   int    `json:"cells"` // Cells painted for this occurrence
}

// Comparison is the result of the comparison pass.
type Comparison struct {
	Parent   LabelSet  `json:"parent"`
	Child    LabelSet  `json:"child"`
	Verdicts []Verdict `json:"verdicts"`
}

// Matched returns the distinct child labels found in the parent, in first
// occurrence order.
func (c Comparison) Matched() []string {
	return c.distinct(true)
}

// Unmatched returns the distinct child labels missing from the parent, in
// first occurrence order.
func (c Comparison) Unmatched() []string {
	return c.distinct(false)
}

func (c Comparison) distinct(matched bool) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, v := range c.Verdicts {
		if v.Matched != matched || seen[v.Label] {
			continue
		}
		seen[v.Label] = true
		out = append(out, v.Label)
	}
	return out
}

// Compare extracts both label sets and, for every child label in order,
// paints the parent element of each child marker carrying that label with
// the match or mismatch color. Repeated labels repaint the same cells.
func (a *Annotator) Compare(root *html.Node, parentScope, childScope string) Comparison {
	cmp := Comparison{
		Parent:   Extract(root, parentScope, a.opts),
		Child:    Extract(root, childScope, a.opts),
		Verdicts: []Verdict{},
	}

	for _, label := range cmp.Child.Labels {
		v := Verdict{Label: label, Matched: cmp.Parent.Contains(label)}
		if v.Matched {
			v.Color = a.opts.MatchColor
		} else {
			v.Color = a.opts.MismatchColor
		}
		v.Cells = a.paint(root, childScope, label, v.Color)
		cmp.Verdicts = append(cmp.Verdicts, v)
	}

	return cmp
}

// paint colors the parent of every marker in scope labelled label.
func (a *Annotator) paint(root *html.Node, scope, label, color string) int {
	painted := 0
	for _, m := range markersLabelled(root, scope, label, a.opts) {
		parent := htmldoc.ParentElement(m)
		if parent == nil {
			continue
		}
		a.journal.setStyle(parent, "background-color", color)
		painted++
	}
	return painted
}
