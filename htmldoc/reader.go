// Package htmldoc provides HTML document parsing.
package htmldoc

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// Document wraps a parsed HTML tree.
type Document struct {
	root *html.Node
}

// Open opens an HTML file for reading.
func Open(filename string) (*Document, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return OpenReader(f)
}

// OpenReader parses HTML from an io.Reader. The input encoding is sniffed
// from a BOM or <meta charset> and converted to UTF-8.
func OpenReader(r io.Reader) (*Document, error) {
	return OpenReaderWithContentType(r, "")
}

// OpenReaderWithContentType parses HTML from r using contentType (for example
// an HTTP Content-Type header) as the encoding hint.
func OpenReaderWithContentType(r io.Reader, contentType string) (*Document, error) {
	utf8Reader, err := charset.NewReader(r, contentType)
	if err != nil {
		return nil, fmt.Errorf("detecting charset: %w", err)
	}

	doc, err := html.Parse(utf8Reader)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	return &Document{root: doc}, nil
}

// Parse parses an HTML string.
func Parse(s string) (*Document, error) {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return &Document{root: doc}, nil
}

// FromNode wraps an already parsed tree.
func FromNode(root *html.Node) *Document {
	return &Document{root: root}
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	return d.root
}

// Body returns the body element, or the document node when there is none.
func (d *Document) Body() *html.Node {
	if body := findElement(d.root, "body"); body != nil {
		return body
	}
	return d.root
}

// Title returns the text of the <title> element.
func (d *Document) Title() string {
	if t := findElement(d.root, "title"); t != nil {
		return strings.TrimSpace(TextContent(t))
	}
	return ""
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	if err := html.Render(w, d.root); err != nil {
		return fmt.Errorf("rendering HTML: %w", err)
	}
	return nil
}

// String renders the document to a string. Render errors yield "".
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// Close releases resources associated with the Document.
func (d *Document) Close() error {
	// Nothing to close for HTML (no file handles kept)
	return nil
}

// findElement finds the first element with the given tag name.
func findElement(n *html.Node, tagName string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tagName {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result := findElement(c, tagName); result != nil {
			return result
		}
	}
	return nil
}

// TextContent returns the concatenated text of n and its descendants,
// including script and style text, without added separators. It mirrors the
// DOM textContent property.
func TextContent(n *html.Node) string {
	var result strings.Builder
	textContentRecursive(n, &result)
	return result.String()
}

func textContentRecursive(n *html.Node, result *strings.Builder) {
	if n.Type == html.TextNode {
		result.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		textContentRecursive(c, result)
	}
}

// InnerText approximates rendered text: script and style content is dropped,
// <br> becomes a newline and block elements are followed by a space. The
// result is trimmed.
func InnerText(n *html.Node) string {
	var result strings.Builder
	innerTextRecursive(n, &result)
	return strings.TrimSpace(result.String())
}

func innerTextRecursive(n *html.Node, result *strings.Builder) {
	if n.Type == html.TextNode {
		result.WriteString(n.Data)
	}
	if n.Type == html.ElementNode {
		if shouldSkipElement(n.Data) {
			return
		}
		if n.Data == "br" {
			result.WriteString("\n")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		innerTextRecursive(c, result)
	}
	if n.Type == html.ElementNode {
		switch n.Data {
		case "p", "div", "li", "h1", "h2", "h3", "h4", "h5", "h6", "tr", "td", "th":
			result.WriteString(" ")
		}
	}
}

// shouldSkipElement returns true for elements whose text is never rendered.
func shouldSkipElement(tagName string) bool {
	switch tagName {
	case "script", "style", "noscript", "template":
		return true
	}
	return false
}
