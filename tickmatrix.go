// Package tickmatrix provides a fluent API for cross-referencing tick-list
// matrices in rendered HTML pages.
//
// Basic usage:
//
//	res, err := tickmatrix.Open("page.html").
//	    Parent("mood-node-name-parent").
//	    Child("mood-node-name-child").
//	    Validate()
//	if err != nil {
//	    // handle error
//	}
//	if len(res.Warnings) > 0 {
//	    log.Println("Warnings:", tickmatrix.FormatWarnings(res.Warnings))
//	}
//
// With options:
//
//	var out bytes.Buffer
//	res, err := tickmatrix.FromReader(resp.Body).
//	    Parent("parentMatrix").
//	    Child("childMatrix").
//	    HeadingClass("VertColHeadingInnerDiv").
//	    Colors("#2e7d32", "#c62828").
//	    Render(&out)
//
// For lower-level control the htmldoc and matrix packages are also available.
package tickmatrix

import (
	"io"

	"golang.org/x/net/html"

	"github.com/tsawler/tickmatrix/matrix"
)

// Warning describes a recoverable problem found during a pass.
type Warning = matrix.Warning

// FormatWarnings joins warnings one per line.
func FormatWarnings(warnings []Warning) string {
	return matrix.FormatWarnings(warnings)
}

// Open returns a Validator that reads the HTML file on the first terminal
// operation.
//
// Example:
//
//	labels, err := tickmatrix.Open("page.html").Labels("childMatrix")
func Open(filename string) *Validator {
	return &Validator{
		src:     &source{filename: filename},
		options: defaultOptions(),
	}
}

// FromReader returns a Validator that parses HTML from r on the first
// terminal operation. Validators chained from it share the parsed tree, so r
// is read once.
func FromReader(r io.Reader) *Validator {
	return &Validator{
		src:     &source{reader: r},
		options: defaultOptions(),
	}
}

// FromNode returns a Validator over an already parsed tree. Terminal
// operations mutate that tree in place.
func FromNode(root *html.Node) *Validator {
	return &Validator{
		src:     &source{root: root},
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	res := tickmatrix.Must(tickmatrix.Open("page.html").Parent("p").Child("c").Validate())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
