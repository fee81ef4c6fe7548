// Package htmldoc provides HTML document parsing and the small set of
// element queries and in-place writes used by the matrix engine.
package htmldoc

import (
	"strings"

	"golang.org/x/net/html"
)

// Predicate reports whether an element node matches a query.
type Predicate func(n *html.Node) bool

// Tag matches element nodes with the given tag name.
func Tag(name string) Predicate {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == name
	}
}

// Class matches element nodes whose class attribute contains the token.
func Class(token string) Predicate {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && HasClass(n, token)
	}
}

// AttrEquals matches element nodes whose attribute key equals val exactly.
func AttrEquals(key, val string) Predicate {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		v, ok := LookupAttr(n, key)
		return ok && v == val
	}
}

// And matches when every predicate matches.
func And(preds ...Predicate) Predicate {
	return func(n *html.Node) bool {
		for _, p := range preds {
			if !p(n) {
				return false
			}
		}
		return true
	}
}

// CellTag reports whether the element is a table cell (td or th).
func CellTag(n *html.Node) bool {
	return n.Type == html.ElementNode && (n.Data == "td" || n.Data == "th")
}

// HasClass reports whether the class attribute of n contains token as a
// whitespace separated entry.
func HasClass(n *html.Node, token string) bool {
	if token == "" {
		return false
	}
	for _, c := range strings.Fields(GetAttr(n, "class")) {
		if c == token {
			return true
		}
	}
	return false
}
