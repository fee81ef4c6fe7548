package htmldoc

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// FindAll returns every descendant element of root matching pred, in
// document order. root itself is not considered.
func FindAll(root *html.Node, pred Predicate) []*html.Node {
	var out []*html.Node
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		collect(c, pred, &out)
	}
	return out
}

func collect(n *html.Node, pred Predicate, out *[]*html.Node) {
	if n.Type == html.ElementNode && pred(n) {
		*out = append(*out, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collect(c, pred, out)
	}
}

// FindByClass returns every element carrying the class token, root itself
// included, in document order.
func FindByClass(root *html.Node, class string) []*html.Node {
	var out []*html.Node
	collect(root, Class(class), &out)
	return out
}

// FindByID returns the first element below root whose id equals id, or nil.
func FindByID(root *html.Node, id string) *html.Node {
	found := FindAll(root, AttrEquals("id", id))
	if len(found) == 0 {
		return nil
	}
	return found[0]
}

// Exists reports whether root or any element below it carries the class token.
func Exists(root *html.Node, class string) bool {
	return len(FindByClass(root, class)) > 0
}

// Select evaluates a descendant-combinator chain such as ".scope td img":
// it returns elements matching the last predicate that have ancestors, in
// order, matching the earlier ones. Ancestors are searched up to and including
// root. Results are unique and in document order.
func Select(root *html.Node, chain ...Predicate) []*html.Node {
	if len(chain) == 0 {
		return nil
	}
	last := chain[len(chain)-1]
	var out []*html.Node
	for _, n := range FindAll(root, last) {
		if matchesAncestors(n, chain[:len(chain)-1], root) {
			out = append(out, n)
		}
	}
	return out
}

// matchesAncestors walks up from n matching chain right to left. Taking the
// nearest matching ancestor at each step is sufficient for descendant
// combinators.
func matchesAncestors(n *html.Node, chain []Predicate, root *html.Node) bool {
	cur := n
	for i := len(chain) - 1; i >= 0; i-- {
		matched := false
		for cur != root && cur.Parent != nil {
			cur = cur.Parent
			if cur.Type == html.ElementNode && chain[i](cur) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// ElementChildren returns the element children of n (the DOM children
// collection; text and comment nodes are excluded).
func ElementChildren(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// ParentElement returns the nearest element ancestor of n, or nil.
func ParentElement(n *html.Node) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode {
			return p
		}
	}
	return nil
}

// CellIndex returns the position of a td/th among the cells of its row,
// or -1 when n is not a cell inside a tr.
func CellIndex(n *html.Node) int {
	if !CellTag(n) || n.Parent == nil || n.Parent.Type != html.ElementNode || n.Parent.Data != "tr" {
		return -1
	}
	idx := 0
	for c := n.Parent.FirstChild; c != nil && c != n; c = c.NextSibling {
		if CellTag(c) {
			idx++
		}
	}
	return idx
}

// Path returns a CSS selector that addresses n from the document root using
// :nth-child steps, for example "html > body > table:nth-child(1) > tbody > tr:nth-child(2) > td:nth-child(3)".
// An element whose id is a plain identifier used by no other element in the
// tree is addressed directly.
func Path(n *html.Node) string {
	top := n
	for top.Parent != nil {
		top = top.Parent
	}

	var steps []string
	for cur := n; cur != nil && cur.Type == html.ElementNode; cur = cur.Parent {
		if id := GetAttr(cur, "id"); id != "" && isSimpleIdent(id) && uniqueID(top, id) {
			steps = append(steps, "#"+id)
			break
		}
		step := cur.Data
		if cur.Parent != nil && cur.Parent.Type == html.ElementNode && countElementChildren(cur.Parent) > 1 {
			step += ":nth-child(" + strconv.Itoa(elementPosition(cur)) + ")"
		}
		steps = append(steps, step)
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return strings.Join(steps, " > ")
}

// uniqueID reports whether exactly one element at or below top has the id.
func uniqueID(top *html.Node, id string) bool {
	var found []*html.Node
	collect(top, AttrEquals("id", id), &found)
	return len(found) == 1
}

// elementPosition returns the 1-based position of n among its element siblings.
func elementPosition(n *html.Node) int {
	pos := 1
	for c := n.PrevSibling; c != nil; c = c.PrevSibling {
		if c.Type == html.ElementNode {
			pos++
		}
	}
	return pos
}

func countElementChildren(n *html.Node) int {
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			count++
		}
	}
	return count
}

// isSimpleIdent reports whether id can be used in a #id selector unescaped.
func isSimpleIdent(id string) bool {
	for i, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r == '-' || (r >= '0' && r <= '9'):
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return id != ""
}

// GetAttr returns the value of an attribute on a node, or empty string if not found.
func GetAttr(n *html.Node, key string) string {
	v, _ := LookupAttr(n, key)
	return v
}

// LookupAttr returns the attribute value and whether it is present.
func LookupAttr(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

// SetAttr sets an attribute, replacing an existing value.
func SetAttr(n *html.Node, key, val string) {
	for i, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
