package matrix

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/tsawler/tickmatrix/htmldoc"
)

// colorsOf returns the background colors of the cells holding markers with
// the given title inside scope.
func colorsOf(root *html.Node, scope, title string) []string {
	var out []string
	for _, m := range markersLabelled(root, scope, title, DefaultOptions()) {
		out = append(out, htmldoc.Style(htmldoc.ParentElement(m), "background-color"))
	}
	return out
}

func TestCompare_Scenario(t *testing.T) {
	root := parse(t, labelMatrix("parent", "A", "B", "C")+labelMatrix("child", "B", "D"))

	cmpRes := NewAnnotator(DefaultOptions()).Compare(root, "parent", "child")

	if diff := cmp.Diff([]string{"green"}, colorsOf(root, "child", "B")); diff != "" {
		t.Errorf("B colors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"red"}, colorsOf(root, "child", "D")); diff != "" {
		t.Errorf("D colors mismatch (-want +got):\n%s", diff)
	}
	// Parent cells are never painted
	if diff := cmp.Diff([]string{""}, colorsOf(root, "parent", "B")); diff != "" {
		t.Errorf("parent B colors mismatch (-want +got):\n%s", diff)
	}

	want := []Verdict{
		{Label: "B", Matched: true, Color: "green", Cells: 1},
		{Label: "D", Matched: false, Color: "red", Cells: 1},
	}
	if diff := cmp.Diff(want, cmpRes.Verdicts); diff != "" {
		t.Errorf("Verdicts mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"B"}, cmpRes.Matched()); diff != "" {
		t.Errorf("Matched() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"D"}, cmpRes.Unmatched()); diff != "" {
		t.Errorf("Unmatched() mismatch (-want +got):\n%s", diff)
	}
}

func TestCompare_GreenIffInParent(t *testing.T) {
	parent := []string{"x", "y", "y", "z"}
	child := []string{"a", "y", "z", "b", "x"}
	root := parse(t, labelMatrix("parent", parent...)+labelMatrix("child", child...))

	NewAnnotator(DefaultOptions()).Compare(root, "parent", "child")

	inParent := map[string]bool{}
	for _, p := range parent {
		inParent[p] = true
	}
	for _, l := range child {
		want := "red"
		if inParent[l] {
			want = "green"
		}
		for _, got := range colorsOf(root, "child", l) {
			if got != want {
				t.Errorf("label %q color = %q, want %q", l, got, want)
			}
		}
	}
}

func TestCompare_DuplicateLabelsRepaint(t *testing.T) {
	root := parse(t, labelMatrix("parent", "A")+labelMatrix("child", "A", "A"))

	a := NewAnnotator(DefaultOptions())
	res := a.Compare(root, "parent", "child")

	// Each occurrence paints both cells carrying the label
	if len(res.Verdicts) != 2 {
		t.Fatalf("len(Verdicts) = %d, want 2", len(res.Verdicts))
	}
	for _, v := range res.Verdicts {
		if v.Cells != 2 || !v.Matched {
			t.Errorf("verdict = %+v, want matched with 2 cells", v)
		}
	}
	if len(a.Mutations()) != 4 {
		t.Errorf("len(Mutations()) = %d, want 4", len(a.Mutations()))
	}
	if diff := cmp.Diff([]string{"A"}, res.Matched()); diff != "" {
		t.Errorf("Matched() mismatch (-want +got):\n%s", diff)
	}
}

func TestCompare_MissingScopesAreNoOps(t *testing.T) {
	tests := []struct {
		name       string
		html       string
		wantParent ScopeStatus
		wantChild  ScopeStatus
		wantColor  string
	}{
		{
			name:       "missing child",
			html:       labelMatrix("parent", "A"),
			wantParent: ScopeFound,
			wantChild:  ScopeNotFound,
		},
		{
			name:       "missing parent paints everything red",
			html:       labelMatrix("child", "A"),
			wantParent: ScopeNotFound,
			wantChild:  ScopeFound,
			wantColor:  "red",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := parse(t, tt.html)
			res := NewAnnotator(DefaultOptions()).Compare(root, "parent", "child")

			if res.Parent.Status != tt.wantParent {
				t.Errorf("Parent.Status = %v, want %v", res.Parent.Status, tt.wantParent)
			}
			if res.Child.Status != tt.wantChild {
				t.Errorf("Child.Status = %v, want %v", res.Child.Status, tt.wantChild)
			}
			if tt.wantColor != "" {
				if got := colorsOf(root, "child", "A"); len(got) != 1 || got[0] != tt.wantColor {
					t.Errorf("child A colors = %v, want [%s]", got, tt.wantColor)
				}
			}
		})
	}
}

func TestCompare_RerunReflectsTreeChanges(t *testing.T) {
	root := parse(t, labelMatrix("parent", "A")+labelMatrix("child", "B"))
	a := NewAnnotator(DefaultOptions())

	a.Compare(root, "parent", "child")
	if got := colorsOf(root, "child", "B"); got[0] != "red" {
		t.Fatalf("B color = %q, want red", got[0])
	}

	// Relabel the parent marker; the next pass must see it.
	parentMarker := markers(root, "parent", DefaultOptions())[0]
	htmldoc.SetAttr(parentMarker, "title", "B")

	a.Compare(root, "parent", "child")
	if got := colorsOf(root, "child", "B"); got[0] != "green" {
		t.Errorf("B color after relabel = %q, want green", got[0])
	}
}

func TestCompare_CustomColors(t *testing.T) {
	root := parse(t, labelMatrix("parent", "A")+labelMatrix("child", "A", "Z"))

	opts := DefaultOptions()
	opts.MatchColor = "#00a3a4"
	opts.MismatchColor = "orange"
	NewAnnotator(opts).Compare(root, "parent", "child")

	if got := colorsOf(root, "child", "A"); got[0] != "#00a3a4" {
		t.Errorf("A color = %q", got[0])
	}
	if got := colorsOf(root, "child", "Z"); got[0] != "orange" {
		t.Errorf("Z color = %q", got[0])
	}
}

func TestRun_AnnotatesThenCompares(t *testing.T) {
	root := parse(t, platformPage)

	res := Validate(root, "parentMatrix", "childMatrix", DefaultOptions())

	// After annotation labels are the descriptions, so cells are compared by
	// row and column.
	if diff := cmp.Diff([]string{"Row: Row 1\r\nColumn: Col X"}, res.Comparison.Matched()); diff != "" {
		t.Errorf("Matched() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Row: Row 1\r\nColumn: Col Y"}, res.Comparison.Unmatched()); diff != "" {
		t.Errorf("Unmatched() mismatch (-want +got):\n%s", diff)
	}
	if got := htmldoc.Style(htmldoc.FindByID(root, "c11"), "background-color"); got != "green" {
		t.Errorf("c11 color = %q, want green", got)
	}
	if got := htmldoc.Style(htmldoc.FindByID(root, "c12"), "background-color"); got != "red" {
		t.Errorf("c12 color = %q, want red", got)
	}
	if got := htmldoc.Style(htmldoc.FindByID(root, "p11"), "background-color"); got != "" {
		t.Errorf("parent cell p11 should not be painted, got %q", got)
	}
	if res.Stats.Annotated != 4 || res.Stats.Blanked != 1 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings:\n%s", FormatWarnings(res.Warnings))
	}
	// 9 structural writes + 2 paints
	if len(res.Mutations) != 11 {
		t.Errorf("len(Mutations) = %d, want 11", len(res.Mutations))
	}
}

func TestRun_MisconfiguredScopesWarn(t *testing.T) {
	root := parse(t, platformPage)

	res := NewAnnotator(DefaultOptions()).Run(root, "parentMatrix", "typo")

	found := false
	for _, w := range res.Warnings {
		if w.Code == WarnScopeNotFound {
			found = true
		}
	}
	if !found {
		t.Errorf("expected %s warning, got:\n%s", WarnScopeNotFound, FormatWarnings(res.Warnings))
	}
	if len(res.Comparison.Verdicts) != 0 {
		t.Errorf("Verdicts = %v, want none", res.Comparison.Verdicts)
	}
}

func TestRun_LayoutTint(t *testing.T) {
	root := parse(t, platformPage)

	opts := DefaultOptions()
	opts.LayoutColor = "#00a3a4"
	res := Validate(root, "parentMatrix", "childMatrix", opts)

	if got := htmldoc.Style(htmldoc.FindByID(root, "layout"), "background-color"); got != "#00a3a4" {
		t.Errorf("layout color = %q", got)
	}

	opts.LayoutID = "missing"
	res = Validate(parse(t, platformPage), "parentMatrix", "childMatrix", opts)
	if len(res.Warnings) != 1 || res.Warnings[0].Code != WarnLayoutNotFound {
		t.Errorf("warnings = %v, want one %s", res.Warnings, WarnLayoutNotFound)
	}
}

func TestRun_ResetsBetweenRuns(t *testing.T) {
	a := NewAnnotator(DefaultOptions())

	first := a.Run(parse(t, platformPage), "parentMatrix", "childMatrix")
	second := a.Run(parse(t, platformPage), "parentMatrix", "childMatrix")

	if len(first.Mutations) != len(second.Mutations) {
		t.Errorf("second run recorded %d mutations, first %d", len(second.Mutations), len(first.Mutations))
	}
}
