package matrix

import (
	"golang.org/x/net/html"

	"github.com/tsawler/tickmatrix/htmldoc"
)

// HeaderMap maps a cell's column index to its column heading text.
type HeaderMap struct {
	Scope   string      `json:"scope"`
	Headers []string    `json:"headers"`
	Offset  int         `json:"offset"`
	Status  ScopeStatus `json:"status"`
}

// BuildHeaderMap collects the column headings of the matrix identified by
// scope. The heading container is the element at opts.HeadingContainer among
// those carrying the scope class; each descendant with opts.HeadingClass is
// one column, in document order. Heading text is taken verbatim.
func BuildHeaderMap(root *html.Node, scope string, opts Options) HeaderMap {
	hm := HeaderMap{Scope: scope, Offset: opts.ColumnOffset}

	containers := htmldoc.FindByClass(root, scope)
	if opts.HeadingContainer < 0 || opts.HeadingContainer >= len(containers) {
		hm.Status = ScopeNotFound
		return hm
	}

	for _, h := range htmldoc.FindByClass(containers[opts.HeadingContainer], opts.HeadingClass) {
		hm.Headers = append(hm.Headers, htmldoc.TextContent(h))
	}

	if len(hm.Headers) == 0 {
		hm.Status = ScopeEmpty
	} else {
		hm.Status = ScopeFound
	}
	return hm
}

// Column returns the heading for the cell at cellIndex.
func (h HeaderMap) Column(cellIndex int) (string, bool) {
	i := cellIndex - h.Offset
	if i < 0 || i >= len(h.Headers) {
		return "", false
	}
	return h.Headers[i], true
}

// Len returns the number of headings.
func (h HeaderMap) Len() int {
	return len(h.Headers)
}
