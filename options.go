package tickmatrix

import "github.com/tsawler/tickmatrix/matrix"

// ValidateOptions holds configuration for a validation run.
type ValidateOptions struct {
	// Scopes
	parent string
	child  string

	// Source hints
	contentType string

	// Engine configuration
	engine matrix.Options
}

// defaultOptions returns the default validation options.
func defaultOptions() ValidateOptions {
	return ValidateOptions{
		parent:      "",
		child:       "",
		contentType: "",
		engine:      matrix.DefaultOptions(),
	}
}

// clone creates a deep copy of ValidateOptions.
func (o ValidateOptions) clone() ValidateOptions {
	return ValidateOptions{
		parent:      o.parent,
		child:       o.child,
		contentType: o.contentType,
		engine:      o.engine.Clone(),
	}
}
