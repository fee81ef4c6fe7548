package matrix

// Options configures extraction, annotation and painting.
type Options struct {
	// Marker selection
	MarkerTag    string // Element holding the tick, "img" by default
	LabelAttr    string // Attribute carrying the cross-reference label
	TickSentinel string // Value of both alt and title on an unannotated positive tick

	// Column header resolution
	HeadingClass     string // Class of each column heading element
	HeadingContainer int    // Index among elements carrying the parent scope class
	ColumnOffset     int    // Leading non-data columns to skip

	// Placeholder cells
	PlaceholderPrefixes []string // Substrings of generated ids
	PlaceholderColor    string

	// Comparison colors
	MatchColor    string
	MismatchColor string

	// NormalizeLabels compares labels in Unicode NFC form.
	NormalizeLabels bool

	// Page tint. LayoutColor == "" leaves the layout element untouched.
	LayoutID    string
	LayoutColor string
}

// DefaultOptions returns the options matching pages produced by the
// modelling platform.
func DefaultOptions() Options {
	return Options{
		MarkerTag:           "img",
		LabelAttr:           "title",
		TickSentinel:        "Tick",
		HeadingClass:        "VertColHeadingInnerDiv",
		HeadingContainer:    1,
		ColumnOffset:        1,
		PlaceholderPrefixes: []string{"yui-gen"},
		PlaceholderColor:    "white",
		MatchColor:          "green",
		MismatchColor:       "red",
		NormalizeLabels:     false,
		LayoutID:            "layout",
		LayoutColor:         "",
	}
}

// Clone returns a deep copy of o.
func (o Options) Clone() Options {
	newOpts := o
	if o.PlaceholderPrefixes != nil {
		newOpts.PlaceholderPrefixes = make([]string, len(o.PlaceholderPrefixes))
		copy(newOpts.PlaceholderPrefixes, o.PlaceholderPrefixes)
	}
	return newOpts
}
