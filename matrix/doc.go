// Package matrix cross-references tick-list matrices rendered as HTML tables.
//
// A tick-list matrix is a table whose cells hold checkmark markers (usually
// <img> elements). The package provides three operations over a parsed tree:
//
//   - [Extract] collects the label of every marker inside a scope, the
//     equivalent of the selector ".scope td img".
//   - [Annotator.Annotate] writes a "Row: …\r\nColumn: …" description on every
//     positive tick cell and whitens generator-produced empty placeholder cells.
//   - [Annotator.Compare] paints every cell of a child matrix green when its
//     label also occurs in a parent matrix and red otherwise.
//
// Typical usage:
//
//	doc, err := htmldoc.Open("page.html")
//	if err != nil {
//	    // handle error
//	}
//	a := matrix.NewAnnotator(matrix.DefaultOptions())
//	res := a.Run(doc.Root(), "mood-node-name-parent", "mood-node-name-child")
//	for _, v := range res.Comparison.Verdicts {
//	    fmt.Println(v.Label, v.Matched)
//	}
//
// All writes are applied to the tree in place and recorded as [Mutation]
// values so they can be replayed against a live page.
//
// Nothing in this package returns an error for a missing scope or an
// unexpected cell shape. Missing scopes are reported through [ScopeStatus],
// unusual shapes are skipped and counted, and header lookups that fall
// outside the heading row produce a [Warning].
package matrix
