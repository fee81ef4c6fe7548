package matrix

import (
	"golang.org/x/net/html"

	"github.com/tsawler/tickmatrix/htmldoc"
)

// MutationKind identifies what a Mutation writes.
type MutationKind string

const (
	// MutationAttribute sets an element attribute.
	MutationAttribute MutationKind = "attribute"
	// MutationStyle sets an inline style property.
	MutationStyle MutationKind = "style"
)

// Mutation is one in-place write, addressed by a CSS selector path.
type Mutation struct {
	Path  string       `json:"path"`
	Kind  MutationKind `json:"kind"`
	Name  string       `json:"name"`
	Value string       `json:"value"`
}

// journal applies writes to the tree and records them in order.
type journal struct {
	entries []Mutation
}

func (j *journal) setAttr(n *html.Node, key, val string) {
	htmldoc.SetAttr(n, key, val)
	j.entries = append(j.entries, Mutation{
		Path:  htmldoc.Path(n),
		Kind:  MutationAttribute,
		Name:  key,
		Value: val,
	})
}

func (j *journal) setStyle(n *html.Node, property, val string) {
	htmldoc.SetStyle(n, property, val)
	j.entries = append(j.entries, Mutation{
		Path:  htmldoc.Path(n),
		Kind:  MutationStyle,
		Name:  property,
		Value: val,
	})
}

func (j *journal) snapshot() []Mutation {
	return append([]Mutation(nil), j.entries...)
}
