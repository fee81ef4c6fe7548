package tickmatrix

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tsawler/tickmatrix/htmldoc"
	"github.com/tsawler/tickmatrix/matrix"
)

const samplePage = `<html><head><title>Platform</title></head><body><div id="layout">
<div class="parentMatrix"></div>
<div class="parentMatrix">
<div class="VertColHeadingInnerDiv">Col X</div><div class="VertColHeadingInnerDiv">Col Y</div>
<table>
<tr><td>Row 1</td><td id="p11"><img alt="Tick" title="Tick"></td><td id="yui-gen-1"></td></tr>
<tr><td>Row 2</td><td></td><td id="p22"><img alt="Tick" title="Tick"></td></tr>
</table>
</div>
<div class="childMatrix">
<table>
<tr><td>Row 1</td><td id="c11"><img alt="Tick" title="Tick"></td><td id="c12"><img alt="Tick" title="Tick"></td></tr>
</table>
</div>
</div></body></html>`

func writePage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte(samplePage), 0o644); err != nil {
		t.Fatalf("write page: %v", err)
	}
	return path
}

func TestOpen_Validate(t *testing.T) {
	res, err := Open(writePage(t)).Parent("parentMatrix").Child("childMatrix").Validate()
	if err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}

	if got := res.Comparison.Matched(); len(got) != 1 || got[0] != "Row: Row 1\r\nColumn: Col X" {
		t.Errorf("Matched() = %q", got)
	}
	if got := res.Comparison.Unmatched(); len(got) != 1 || got[0] != "Row: Row 1\r\nColumn: Col Y" {
		t.Errorf("Unmatched() = %q", got)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %s", FormatWarnings(res.Warnings))
	}
}

func TestFromReader_Render(t *testing.T) {
	var out bytes.Buffer
	_, err := FromReader(strings.NewReader(samplePage)).
		Parent("parentMatrix").
		Child("childMatrix").
		Colors("#2e7d32", "#c62828").
		Render(&out)
	if err != nil {
		t.Fatalf("Render() failed: %v", err)
	}

	d, err := htmldoc.Parse(out.String())
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if got := htmldoc.Style(htmldoc.FindByID(d.Root(), "c11"), "background-color"); got != "#2e7d32" {
		t.Errorf("c11 color = %q, want #2e7d32", got)
	}
	if got := htmldoc.Style(htmldoc.FindByID(d.Root(), "c12"), "background-color"); got != "#c62828" {
		t.Errorf("c12 color = %q, want #c62828", got)
	}
	if got := htmldoc.Style(htmldoc.FindByID(d.Root(), "yui-gen-1"), "background-color"); got != "white" {
		t.Errorf("placeholder color = %q, want white", got)
	}
}

func TestFromNode_MutatesInPlace(t *testing.T) {
	d, err := htmldoc.Parse(samplePage)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	if _, err := FromNode(d.Root()).Parent("parentMatrix").Child("childMatrix").Validate(); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	if got := htmldoc.GetAttr(htmldoc.FindByID(d.Root(), "p22"), "title"); got != "Row: Row 2\r\nColumn: Col Y" {
		t.Errorf("p22 title = %q", got)
	}
}

func TestValidator_Immutable(t *testing.T) {
	base := FromReader(strings.NewReader(samplePage)).Parent("parentMatrix")
	custom := base.Colors("blue", "orange").ColumnOffset(2)

	if got := base.Options(); got.MatchColor != "green" || got.ColumnOffset != 1 {
		t.Errorf("base options changed: %+v", got)
	}
	if got := custom.Options(); got.MatchColor != "blue" || got.MismatchColor != "orange" || got.ColumnOffset != 2 {
		t.Errorf("custom options = %+v", got)
	}

	prefixed := base.PlaceholderPrefixes("gen-")
	prefixed.options.engine.PlaceholderPrefixes[0] = "changed"
	if base.Options().PlaceholderPrefixes[0] != "yui-gen" {
		t.Error("prefix slices should not be shared between validators")
	}
}

func TestValidator_ConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		v    *Validator
	}{
		{"missing parent", FromReader(strings.NewReader(samplePage)).Child("c")},
		{"missing child", FromReader(strings.NewReader(samplePage)).Parent("p")},
		{"negative offset", FromReader(strings.NewReader(samplePage)).Parent("p").Child("c").ColumnOffset(-1)},
		{"negative container", FromReader(strings.NewReader(samplePage)).Parent("p").Child("c").HeadingContainer(-2)},
		{"empty heading class", FromReader(strings.NewReader(samplePage)).Parent("p").Child("c").HeadingClass("")},
		{"empty label attr", FromReader(strings.NewReader(samplePage)).Parent("p").Child("c").LabelAttr("")},
		{"no source", (&Validator{options: defaultOptions()}).Parent("p").Child("c")},
		{"missing file", Open(filepath.Join(t.TempDir(), "nope.html")).Parent("p").Child("c")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.v.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestValidator_ErrorPropagates(t *testing.T) {
	v := FromReader(strings.NewReader(samplePage)).ColumnOffset(-1).Parent("p").Child("c").Colors("a", "b")
	if _, err := v.Validate(); err == nil || !strings.Contains(err.Error(), "column offset") {
		t.Errorf("Validate() error = %v, want column offset error", err)
	}
	if _, err := v.Labels("p"); err == nil {
		t.Error("Labels() should return the accumulated error")
	}
}

func TestValidator_SiblingChainsShareSource(t *testing.T) {
	base := FromReader(strings.NewReader(samplePage))
	first := base.Parent("parentMatrix").Child("childMatrix")
	second := base.Parent("parentMatrix").Child("childMatrix")

	res1, err := first.Validate()
	if err != nil {
		t.Fatalf("first Validate() failed: %v", err)
	}
	res2, err := second.Validate()
	if err != nil {
		t.Fatalf("second Validate() failed: %v", err)
	}
	if diff := cmp.Diff(res1.Comparison.Matched(), res2.Comparison.Matched()); diff != "" {
		t.Errorf("sibling results differ (-first +second):\n%s", diff)
	}

	d1, _ := first.Document()
	d2, _ := base.Document()
	if d1.Root() != d2.Root() {
		t.Error("validators from one reader should share the parsed tree")
	}
}

func TestValidator_Labels(t *testing.T) {
	v := FromReader(strings.NewReader(samplePage))

	set, err := v.Labels("childMatrix")
	if err != nil {
		t.Fatalf("Labels() failed: %v", err)
	}
	if set.Status != matrix.ScopeFound || set.Len() != 2 {
		t.Errorf("Labels() = %+v, want 2 found labels", set)
	}

	// The reader was consumed by the first call; the parsed tree is reused.
	missing, err := v.Labels("absent")
	if err != nil {
		t.Fatalf("second Labels() failed: %v", err)
	}
	if missing.Status != matrix.ScopeNotFound {
		t.Errorf("Status = %v, want not-found", missing.Status)
	}
}

func TestValidator_Annotate(t *testing.T) {
	v := FromReader(strings.NewReader(samplePage)).Parent("parentMatrix")

	stats, warnings, err := v.Annotate()
	if err != nil {
		t.Fatalf("Annotate() failed: %v", err)
	}
	if stats.Annotated != 4 || stats.Blanked != 1 {
		t.Errorf("stats = %+v, want 4 annotated, 1 blanked", stats)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	if _, _, err := FromReader(strings.NewReader(samplePage)).Annotate(); err == nil {
		t.Error("Annotate() without parent should fail")
	}
}

func TestValidator_Warnings(t *testing.T) {
	res, err := FromReader(strings.NewReader(samplePage)).
		Parent("parentMatrix").
		Child("mood-node-name-child").
		LayoutColor("#00a3a4").
		Validate()
	if err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Code != matrix.WarnScopeNotFound {
		t.Errorf("warnings = %v, want one scope-not-found", res.Warnings)
	}
}

func TestValidator_Report(t *testing.T) {
	path := writePage(t)
	r, err := Open(path).Parent("parentMatrix").Child("childMatrix").Report()
	if err != nil {
		t.Fatalf("Report() failed: %v", err)
	}
	if r.Source != path {
		t.Errorf("Source = %q, want %q", r.Source, path)
	}
	if !strings.Contains(r.Markdown(), "## Unmatched (1)") {
		t.Errorf("Markdown() missing unmatched section:\n%s", r.Markdown())
	}
}

func TestValidator_NormalizeAndLabelAttr(t *testing.T) {
	page := `<div class="p"><table><tr><td><img data-key="e` + "\u0301" + `"></td></tr></table></div>` +
		`<div class="c"><table><tr><td><img data-key="` + "\u00e9" + `"></td></tr></table></div>`

	set, err := FromReader(strings.NewReader(page)).LabelAttr("data-key").NormalizeLabels().Labels("p")
	if err != nil {
		t.Fatalf("Labels() failed: %v", err)
	}
	if !set.Contains("\u00e9") {
		t.Errorf("Labels() = %q, want NFC label", set.Labels)
	}
}

func TestValidator_UnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "export.pdf")
	noExt := filepath.Join(dir, "export")
	for _, p := range []string{pdf, noExt} {
		if err := os.WriteFile(p, []byte("%PDF-1.7\n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	for _, v := range []*Validator{
		Open(pdf),
		Open(noExt),
		FromReader(strings.NewReader("PK\x03\x04zipped")),
	} {
		_, err := v.Parent("p").Child("c").Validate()
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("Validate() error = %v, want ErrUnsupportedFormat", err)
		}
	}

	// Unrecognised content without an extension is parsed as HTML.
	frag := filepath.Join(dir, "fragment")
	if err := os.WriteFile(frag, []byte(`<div class="c"><table><tr><td><img title="x"></td></tr></table></div>`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	set, err := Open(frag).Labels("c")
	if err != nil || set.Len() != 1 {
		t.Errorf("Labels() = %+v, %v, want one label", set, err)
	}
}

func TestMust(t *testing.T) {
	res := Must(FromReader(strings.NewReader(samplePage)).Parent("parentMatrix").Child("childMatrix").Validate())
	if res == nil {
		t.Fatal("Must() returned nil")
	}

	defer func() {
		if recover() == nil {
			t.Error("Must() should panic on error")
		}
	}()
	Must(FromReader(strings.NewReader(samplePage)).Validate())
}
