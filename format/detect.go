// Package format recognises the kinds of files users feed the validator.
//
// Only HTML and XHTML pages can be validated. The other formats are the
// exports a modelling platform typically offers next to the rendered page,
// detected so callers can reject them with a clear message instead of
// parsing binary data as an empty document.
package format

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Format represents a detected input format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// HTML indicates an HTML page.
	HTML
	// XHTML indicates an XHTML page.
	XHTML
	// MHTML indicates a saved web archive (multipart MIME).
	MHTML
	// PDF indicates a PDF document.
	PDF
	// ZIP indicates a ZIP container such as an Office export.
	ZIP
)

// SniffLen is the number of leading bytes DetectFromMagic inspects.
const SniffLen = 512

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case HTML:
		return "HTML"
	case XHTML:
		return "XHTML"
	case MHTML:
		return "MHTML"
	case PDF:
		return "PDF"
	case ZIP:
		return "ZIP"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case HTML:
		return ".html"
	case XHTML:
		return ".xhtml"
	case MHTML:
		return ".mhtml"
	case PDF:
		return ".pdf"
	case ZIP:
		return ".zip"
	default:
		return ""
	}
}

// IsPage reports whether the format can be validated.
func (f Format) IsPage() bool {
	return f == HTML || f == XHTML
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".html", ".htm":
		return HTML
	case ".xhtml", ".xht":
		return XHTML
	case ".mhtml", ".mht":
		return MHTML
	case ".pdf":
		return PDF
	case ".zip", ".docx", ".xlsx", ".pptx", ".odt":
		return ZIP
	default:
		return Unknown
	}
}

// DetectFromMagic checks leading bytes to determine format. Only the first
// SniffLen bytes are examined.
func DetectFromMagic(data []byte) Format {
	if len(data) > SniffLen {
		data = data[:SniffLen]
	}
	if len(data) < 4 {
		return Unknown
	}

	// PDF magic: %PDF
	if bytes.HasPrefix(data, []byte("%PDF")) {
		return PDF
	}

	// ZIP magic: PK\x03\x04
	if bytes.HasPrefix(data, []byte{0x50, 0x4B, 0x03, 0x04}) {
		return ZIP
	}

	return detectMarkup(data)
}

// detectMarkup recognises HTML, XHTML and MHTML text.
func detectMarkup(data []byte) Format {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) == 0 {
		return Unknown
	}

	// Check for common HTML signatures (case-insensitive)
	upper := strings.ToUpper(string(data))
	switch {
	case strings.HasPrefix(upper, "<?XML") && strings.Contains(upper, "<HTML"):
		return XHTML
	case strings.HasPrefix(upper, "<!DOCTYPE HTML"):
		if strings.Contains(upper, "XHTML") {
			return XHTML
		}
		return HTML
	case strings.HasPrefix(upper, "<HTML"),
		strings.HasPrefix(upper, "<HEAD"),
		strings.HasPrefix(upper, "<BODY"),
		strings.HasPrefix(upper, "<!--"):
		return HTML
	case strings.HasPrefix(upper, "FROM:"),
		strings.HasPrefix(upper, "MIME-VERSION:"),
		strings.HasPrefix(upper, "CONTENT-TYPE: MULTIPART/RELATED"):
		return MHTML
	}

	return Unknown
}
