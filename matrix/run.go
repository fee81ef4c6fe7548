package matrix

import (
	"golang.org/x/net/html"

	"github.com/tsawler/tickmatrix/htmldoc"
)

// Result collects everything one validation run produced.
type Result struct {
	ParentScope string        `json:"parent_scope"`
	ChildScope  string        `json:"child_scope"`
	Headers     HeaderMap     `json:"headers"`
	Stats       AnnotateStats `json:"stats"`
	Comparison  Comparison    `json:"comparison"`
	Mutations   []Mutation    `json:"mutations"`
	Warnings    []Warning     `json:"warnings"`
}

// Run performs a full validation: the structural pass, then the comparison
// pass, then the optional layout tint. Recorded mutations and warnings are
// reset first, so the Result describes this run only.
func (a *Annotator) Run(root *html.Node, parentScope, childScope string) *Result {
	a.Reset()

	res := &Result{ParentScope: parentScope, ChildScope: childScope}

	res.Headers = BuildHeaderMap(root, parentScope, a.opts)
	if res.Headers.Status != ScopeFound {
		a.warn(WarnHeadingsMissing, "", "no %q headings in element %d of scope %q",
			a.opts.HeadingClass, a.opts.HeadingContainer, parentScope)
	}
	res.Stats = a.AnnotateWithHeaders(root, res.Headers)
	res.Comparison = a.Compare(root, parentScope, childScope)

	if res.Comparison.Parent.Status == ScopeNotFound {
		a.warn(WarnScopeNotFound, "", "parent scope %q matched no element", parentScope)
	}
	if res.Comparison.Child.Status == ScopeNotFound {
		a.warn(WarnScopeNotFound, "", "child scope %q matched no element", childScope)
	}

	a.tintLayout(root)

	res.Mutations = a.Mutations()
	res.Warnings = a.Warnings()
	return res
}

// tintLayout paints the layout element when a layout color is configured.
func (a *Annotator) tintLayout(root *html.Node) {
	if a.opts.LayoutColor == "" {
		return
	}
	layout := htmldoc.FindByID(root, a.opts.LayoutID)
	if layout == nil {
		a.warn(WarnLayoutNotFound, "", "no element with id %q", a.opts.LayoutID)
		return
	}
	a.journal.setStyle(layout, "background-color", a.opts.LayoutColor)
}

// Validate is a convenience wrapper running a fresh Annotator over root.
func Validate(root *html.Node, parentScope, childScope string, opts Options) *Result {
	return NewAnnotator(opts).Run(root, parentScope, childScope)
}
