package matrix

import (
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/tickmatrix/htmldoc"
)

// ScopeStatus tells a legitimately empty scope apart from a misconfigured one.
type ScopeStatus int

const (
	// ScopeNotFound means no element carries the scope class.
	ScopeNotFound ScopeStatus = iota
	// ScopeEmpty means the scope exists but holds no labelled markers.
	ScopeEmpty
	// ScopeFound means at least one label was collected.
	ScopeFound
)

// String returns the string representation of the status.
func (s ScopeStatus) String() string {
	switch s {
	case ScopeNotFound:
		return "not-found"
	case ScopeEmpty:
		return "empty"
	case ScopeFound:
		return "found"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s ScopeStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// LabelSet is the ordered label sequence of one matrix. Duplicates are kept.
type LabelSet struct {
	Scope  string      `json:"scope"`
	Labels []string    `json:"labels"`
	Status ScopeStatus `json:"status"`
}

// Contains reports whether label occurs in the set.
func (s LabelSet) Contains(label string) bool {
	for _, l := range s.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// Len returns the number of labels, duplicates included.
func (s LabelSet) Len() int {
	return len(s.Labels)
}

// Extract collects the label of every marker selected by ".scope td marker"
// below root, in document order. Markers without the label attribute are
// ignored.
func Extract(root *html.Node, scope string, opts Options) LabelSet {
	set := LabelSet{Scope: scope, Labels: []string{}}

	if !htmldoc.Exists(root, scope) {
		set.Status = ScopeNotFound
		return set
	}

	for _, m := range markers(root, scope, opts) {
		label, ok := htmldoc.LookupAttr(m, opts.LabelAttr)
		if !ok {
			continue
		}
		set.Labels = append(set.Labels, opts.normalize(label))
	}

	if len(set.Labels) == 0 {
		set.Status = ScopeEmpty
	} else {
		set.Status = ScopeFound
	}
	return set
}

// markers returns the marker elements of a scope.
func markers(root *html.Node, scope string, opts Options) []*html.Node {
	return htmldoc.Select(root, htmldoc.Class(scope), htmldoc.Tag("td"), htmldoc.Tag(opts.MarkerTag))
}

// markersLabelled returns the markers of a scope whose label equals label.
func markersLabelled(root *html.Node, scope, label string, opts Options) []*html.Node {
	labelled := func(n *html.Node) bool {
		v, ok := htmldoc.LookupAttr(n, opts.LabelAttr)
		return ok && opts.normalize(v) == label
	}
	return htmldoc.Select(root, htmldoc.Class(scope), htmldoc.Tag("td"),
		htmldoc.And(htmldoc.Tag(opts.MarkerTag), labelled))
}

func (o Options) normalize(label string) string {
	if o.NormalizeLabels {
		return norm.NFC.String(label)
	}
	return label
}
