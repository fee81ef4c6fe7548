package tickmatrix

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/net/html"

	"github.com/tsawler/tickmatrix/format"
	"github.com/tsawler/tickmatrix/htmldoc"
	"github.com/tsawler/tickmatrix/matrix"
	"github.com/tsawler/tickmatrix/report"
)

// ErrUnsupportedFormat is returned when the source is recognisably not an
// HTML page, such as a PDF or Office export.
var ErrUnsupportedFormat = errors.New("unsupported input format")

// Validator provides a fluent interface for validating tick-list matrices.
// Each configuration method returns a new Validator instance, so a base
// configuration can be shared and specialised by chaining.
//
// Terminal operations (Labels, Annotate, Validate, Render, Report) parse the
// source on first use and then mutate the parsed tree. Validators derived
// from the same constructor share that tree, whichever of them parses it.
type Validator struct {
	// Source, shared by every Validator chained from the same constructor
	src *source

	// Configuration
	options ValidateOptions

	// Accumulated error (fail-fast)
	err error
}

// source is parsed at most once. The content type of the first terminal
// operation is the one used for charset detection.
type source struct {
	once     sync.Once
	filename string
	reader   io.Reader
	root     *html.Node
	err      error
}

// clone creates a shallow copy of the Validator with a deep copy of options.
func (v *Validator) clone() *Validator {
	return &Validator{
		src:     v.src,
		options: v.options.clone(),
		err:     v.err,
	}
}

// ensureDocument parses the source if it has not been parsed yet.
func (v *Validator) ensureDocument() error {
	if v.src == nil {
		return fmt.Errorf("no source specified")
	}
	v.src.once.Do(func() {
		if v.src.root != nil {
			return
		}
		v.src.root, v.src.err = v.src.load(v.options.contentType)
		v.src.reader = nil
	})
	return v.src.err
}

func (s *source) load(contentType string) (*html.Node, error) {
	var (
		doc *htmldoc.Document
		err error
	)
	switch {
	case s.reader != nil:
		br := bufio.NewReader(s.reader)
		// Peek errors resurface from the parser's first read.
		head, _ := br.Peek(format.SniffLen)
		if f := format.DetectFromMagic(head); f != format.Unknown && !f.IsPage() {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
		}
		doc, err = htmldoc.OpenReaderWithContentType(br, contentType)
		if err != nil {
			return nil, fmt.Errorf("failed to parse HTML: %w", err)
		}
	case s.filename != "":
		if err := checkFile(s.filename); err != nil {
			return nil, err
		}
		doc, err = htmldoc.Open(s.filename)
		if err != nil {
			return nil, fmt.Errorf("failed to open HTML: %w", err)
		}
	default:
		return nil, fmt.Errorf("no source specified")
	}
	return doc.Root(), nil
}

// checkFile rejects files that are recognisably not HTML pages. Files with
// an unknown extension are sniffed; unrecognised content is parsed as HTML.
func checkFile(filename string) error {
	f := format.Detect(filename)
	if f == format.Unknown {
		f = sniffFile(filename)
	}
	if f != format.Unknown && !f.IsPage() {
		return fmt.Errorf("%w: %s (%s)", ErrUnsupportedFormat, f, filename)
	}
	return nil
}

func sniffFile(filename string) format.Format {
	file, err := os.Open(filename)
	if err != nil {
		// htmldoc.Open reports the error
		return format.Unknown
	}
	defer file.Close()

	head := make([]byte, format.SniffLen)
	n, _ := io.ReadFull(file, head)
	return format.DetectFromMagic(head[:n])
}

// ============================================================================
// Configuration Methods (return new Validator instance)
// ============================================================================

// Parent sets the class naming the parent (reference) matrix.
//
// Example:
//
//	res, err := tickmatrix.Open("page.html").Parent("parentMatrix").Child("childMatrix").Validate()
func (v *Validator) Parent(scope string) *Validator {
	nv := v.clone()
	nv.options.parent = scope
	return nv
}

// Child sets the class naming the child matrix whose ticks are checked
// against the parent.
func (v *Validator) Child(scope string) *Validator {
	nv := v.clone()
	nv.options.child = scope
	return nv
}

// HeadingClass sets the class of the column heading elements.
func (v *Validator) HeadingClass(class string) *Validator {
	nv := v.clone()
	if class == "" && nv.err == nil {
		nv.err = fmt.Errorf("heading class must not be empty")
	}
	nv.options.engine.HeadingClass = class
	return nv
}

// HeadingContainer selects which element carrying the parent class holds
// the column headings (0-based).
//
// Example:
//
//	res, err := tickmatrix.Open("page.html").Parent("p").Child("c").HeadingContainer(0).Validate()
func (v *Validator) HeadingContainer(index int) *Validator {
	nv := v.clone()
	if index < 0 && nv.err == nil {
		nv.err = fmt.Errorf("heading container index must be non-negative, got %d", index)
	}
	nv.options.engine.HeadingContainer = index
	return nv
}

// ColumnOffset sets how many leading cells of each row carry no heading.
func (v *Validator) ColumnOffset(offset int) *Validator {
	nv := v.clone()
	if offset < 0 && nv.err == nil {
		nv.err = fmt.Errorf("column offset must be non-negative, got %d", offset)
	}
	nv.options.engine.ColumnOffset = offset
	return nv
}

// Colors sets the background colors for matched and unmatched child cells.
//
// Example:
//
//	res, err := tickmatrix.Open("page.html").Parent("p").Child("c").Colors("#2e7d32", "#c62828").Validate()
func (v *Validator) Colors(match, mismatch string) *Validator {
	nv := v.clone()
	nv.options.engine.MatchColor = match
	nv.options.engine.MismatchColor = mismatch
	return nv
}

// PlaceholderColor sets the background color of blanked placeholder cells.
func (v *Validator) PlaceholderColor(color string) *Validator {
	nv := v.clone()
	nv.options.engine.PlaceholderColor = color
	return nv
}

// PlaceholderPrefixes replaces the id prefixes that mark generated
// placeholder cells. Calling it with no prefixes disables blanking.
func (v *Validator) PlaceholderPrefixes(prefixes ...string) *Validator {
	nv := v.clone()
	nv.options.engine.PlaceholderPrefixes = append([]string(nil), prefixes...)
	return nv
}

// NormalizeLabels makes label comparison use Unicode NFC normalization.
func (v *Validator) NormalizeLabels() *Validator {
	nv := v.clone()
	nv.options.engine.NormalizeLabels = true
	return nv
}

// LabelAttr sets the marker attribute that carries the label.
func (v *Validator) LabelAttr(attr string) *Validator {
	nv := v.clone()
	if attr == "" && nv.err == nil {
		nv.err = fmt.Errorf("label attribute must not be empty")
	}
	nv.options.engine.LabelAttr = attr
	return nv
}

// LayoutColor tints the layout element after validation. An empty color
// leaves the layout untouched.
func (v *Validator) LayoutColor(color string) *Validator {
	nv := v.clone()
	nv.options.engine.LayoutColor = color
	return nv
}

// ContentType sets the content type used to detect the character set of a
// reader source, as sent in an HTTP Content-Type header.
func (v *Validator) ContentType(contentType string) *Validator {
	nv := v.clone()
	nv.options.contentType = contentType
	return nv
}

// WithOptions replaces the engine options wholesale. Scopes are kept.
func (v *Validator) WithOptions(opts matrix.Options) *Validator {
	nv := v.clone()
	nv.options.engine = opts.Clone()
	return nv
}

// Options returns a copy of the engine options the Validator will use.
func (v *Validator) Options() matrix.Options {
	return v.options.engine.Clone()
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Document returns the parsed document, parsing the source if needed.
func (v *Validator) Document() (*htmldoc.Document, error) {
	if v.err != nil {
		return nil, v.err
	}
	if err := v.ensureDocument(); err != nil {
		return nil, err
	}
	return htmldoc.FromNode(v.src.root), nil
}

// Labels extracts the labels of the matrix carrying the given class.
//
// Example:
//
//	set, err := tickmatrix.Open("page.html").Labels("childMatrix")
//	fmt.Println(set.Status, set.Labels)
func (v *Validator) Labels(scope string) (matrix.LabelSet, error) {
	if v.err != nil {
		return matrix.LabelSet{}, v.err
	}
	if err := v.ensureDocument(); err != nil {
		return matrix.LabelSet{}, err
	}
	return matrix.Extract(v.src.root, scope, v.options.engine), nil
}

// Annotate runs only the structural pass over the parent matrix headings:
// ticked cells get Row/Column descriptions and placeholders are blanked.
func (v *Validator) Annotate() (matrix.AnnotateStats, []Warning, error) {
	if v.err != nil {
		return matrix.AnnotateStats{}, nil, v.err
	}
	if v.options.parent == "" {
		return matrix.AnnotateStats{}, nil, fmt.Errorf("parent scope not set")
	}
	if err := v.ensureDocument(); err != nil {
		return matrix.AnnotateStats{}, nil, err
	}

	a := matrix.NewAnnotator(v.options.engine)
	stats := a.Annotate(v.src.root, v.options.parent)
	return stats, a.Warnings(), nil
}

// Validate annotates the page and compares the child matrix against the
// parent. Problems with the page itself are reported as warnings in the
// Result; errors are reserved for configuration and I/O failures.
func (v *Validator) Validate() (*matrix.Result, error) {
	if v.err != nil {
		return nil, v.err
	}
	if v.options.parent == "" {
		return nil, fmt.Errorf("parent scope not set")
	}
	if v.options.child == "" {
		return nil, fmt.Errorf("child scope not set")
	}
	if err := v.ensureDocument(); err != nil {
		return nil, err
	}
	return matrix.Validate(v.src.root, v.options.parent, v.options.child, v.options.engine), nil
}

// Render validates and writes the annotated page as HTML to w.
func (v *Validator) Render(w io.Writer) (*matrix.Result, error) {
	res, err := v.Validate()
	if err != nil {
		return nil, err
	}
	if err := htmldoc.FromNode(v.src.root).Render(w); err != nil {
		return res, err
	}
	return res, nil
}

// Report validates and builds a report of the run.
func (v *Validator) Report() (*report.Report, error) {
	res, err := v.Validate()
	if err != nil {
		return nil, err
	}
	return report.New(v.src.filename, v.src.root, res, v.options.engine), nil
}
