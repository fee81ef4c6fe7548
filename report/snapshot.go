package report

import (
	"golang.org/x/net/html"

	"github.com/tsawler/tickmatrix/htmldoc"
	"github.com/tsawler/tickmatrix/matrix"
	"github.com/tsawler/tickmatrix/model"
)

// Snapshot captures every table inside elements carrying the scope class.
// Tables nested in several scope elements are captured once.
func Snapshot(root *html.Node, scope string, opts matrix.Options) []*model.Table {
	var tables []*model.Table
	seen := make(map[*html.Node]bool)

	for _, container := range htmldoc.FindByClass(root, scope) {
		for _, tbl := range htmldoc.FindAll(container, htmldoc.Tag("table")) {
			if seen[tbl] {
				continue
			}
			seen[tbl] = true
			tables = append(tables, snapshotTable(tbl, scope, opts))
		}
	}
	return tables
}

func snapshotTable(tbl *html.Node, scope string, opts matrix.Options) *model.Table {
	t := &model.Table{Scope: scope}
	for _, tr := range htmldoc.FindAll(tbl, htmldoc.Tag("tr")) {
		// Rows of nested tables belong to those tables.
		if nearestTable(tr) != tbl {
			continue
		}
		var row []model.Cell
		for _, c := range htmldoc.ElementChildren(tr) {
			if !htmldoc.CellTag(c) {
				continue
			}
			row = append(row, snapshotCell(c, opts))
		}
		t.AddRow(row)
	}
	return t
}

func snapshotCell(c *html.Node, opts matrix.Options) model.Cell {
	cell := model.Cell{
		Text:            htmldoc.InnerText(c),
		Description:     htmldoc.GetAttr(c, "title"),
		IsHeader:        c.Data == "th",
		BackgroundColor: htmldoc.Style(c, "background-color"),
		Path:            htmldoc.Path(c),
	}
	if markers := htmldoc.FindAll(c, htmldoc.Tag(opts.MarkerTag)); len(markers) > 0 {
		cell.HasMarker = true
		cell.Label = htmldoc.GetAttr(markers[0], opts.LabelAttr)
	}
	return cell
}

func nearestTable(n *html.Node) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == "table" {
			return p
		}
	}
	return nil
}
