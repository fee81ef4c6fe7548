package htmldoc

import (
	"fmt"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
)

// Style returns the value of an inline style property, or "" when unset or
// when the style attribute cannot be parsed.
func Style(n *html.Node, property string) string {
	decls, err := parseStyle(n)
	if err != nil {
		return ""
	}
	property = strings.ToLower(property)
	value := ""
	for _, d := range decls {
		if strings.ToLower(d.Property) == property {
			value = d.Value
		}
	}
	return value
}

// SetStyle sets an inline style property on n, like
// element.style.setProperty. Other declarations keep their order; an
// unparseable style attribute is replaced.
func SetStyle(n *html.Node, property, value string) {
	decls, err := parseStyle(n)
	if err != nil {
		decls = nil
	}
	property = strings.ToLower(property)

	replaced := false
	out := decls[:0]
	for _, d := range decls {
		if strings.ToLower(d.Property) == property {
			if replaced {
				continue
			}
			d.Value = value
			d.Important = false
			replaced = true
		}
		out = append(out, d)
	}
	if !replaced {
		out = append(out, &css.Declaration{Property: property, Value: value})
	}

	SetAttr(n, "style", formatStyle(out))
}

func parseStyle(n *html.Node) ([]*css.Declaration, error) {
	raw := GetAttr(n, "style")
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	decls, err := parser.ParseDeclarations(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing style %q: %w", raw, err)
	}
	return decls, nil
}

func formatStyle(decls []*css.Declaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		part := d.Property + ": " + d.Value
		if d.Important {
			part += " !important"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "; ") + ";"
}
