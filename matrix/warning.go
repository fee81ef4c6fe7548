package matrix

import (
	"fmt"
	"strings"
)

// WarningCode classifies a Warning.
type WarningCode string

const (
	// WarnScopeNotFound means a scope class matched no element.
	WarnScopeNotFound WarningCode = "scope-not-found"
	// WarnHeadingsMissing means the heading container or its headings are absent.
	WarnHeadingsMissing WarningCode = "headings-missing"
	// WarnHeaderOutOfRange means a tick cell has no heading at its column.
	WarnHeaderOutOfRange WarningCode = "header-out-of-range"
	// WarnLayoutNotFound means the layout element to tint does not exist.
	WarnLayoutNotFound WarningCode = "layout-not-found"
)

// Warning describes a recoverable problem found during a pass.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
	Path    string      `json:"path,omitempty"`
}

// String formats the warning on one line.
func (w Warning) String() string {
	if w.Path != "" {
		return fmt.Sprintf("%s: %s (at %s)", w.Code, w.Message, w.Path)
	}
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}

// FormatWarnings joins warnings one per line.
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, 0, len(warnings))
	for _, w := range warnings {
		lines = append(lines, w.String())
	}
	return strings.Join(lines, "\n")
}
