package model

import (
	"fmt"
	"strings"
)

// TickGlyph is shown for a marker cell with no visible text.
const TickGlyph = "✓"

// Table represents a matrix with cells organized in rows and columns
type Table struct {
	Scope string
	Rows  [][]Cell
}

// Cell represents a matrix cell
type Cell struct {
	Text            string // Visible text
	Description     string // title attribute written by annotation
	Label           string // Marker label used for comparison
	HasMarker       bool
	IsHeader        bool
	BackgroundColor string
	Path            string // CSS selector addressing the cell
}

// Display returns the text shown for the cell in exports.
func (c Cell) Display() string {
	text := c.Text
	if text == "" && c.HasMarker {
		text = TickGlyph
	}
	if c.BackgroundColor != "" {
		if text == "" {
			return "(" + c.BackgroundColor + ")"
		}
		return text + " (" + c.BackgroundColor + ")"
	}
	return text
}

// NewTable creates a new table with given dimensions
func NewTable(scope string, rows, cols int) *Table {
	table := &Table{
		Scope: scope,
		Rows:  make([][]Cell, rows),
	}
	for i := 0; i < rows; i++ {
		table.Rows[i] = make([]Cell, cols)
	}
	return table
}

// AddRow appends a row of cells
func (t *Table) AddRow(cells []Cell) {
	t.Rows = append(t.Rows, cells)
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the number of columns in the widest row
func (t *Table) ColCount() int {
	cols := 0
	for _, row := range t.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	return cols
}

// GetCell returns the cell at the given row and column (0-indexed)
func (t *Table) GetCell(row, col int) *Cell {
	if row < 0 || row >= len(t.Rows) {
		return nil
	}
	if col < 0 || col >= len(t.Rows[row]) {
		return nil
	}
	return &t.Rows[row][col]
}

// SetCell sets the cell at the given position
func (t *Table) SetCell(row, col int, cell Cell) error {
	if row < 0 || row >= len(t.Rows) {
		return fmt.Errorf("row index %d out of bounds", row)
	}
	if col < 0 || col >= len(t.Rows[row]) {
		return fmt.Errorf("col index %d out of bounds", col)
	}
	t.Rows[row][col] = cell
	return nil
}

// CountColor returns how many cells have the given background color
func (t *Table) CountColor(color string) int {
	n := 0
	for _, row := range t.Rows {
		for _, cell := range row {
			if cell.BackgroundColor == color {
				n++
			}
		}
	}
	return n
}

// Markers returns every cell holding a marker, row by row
func (t *Table) Markers() []Cell {
	var out []Cell
	for _, row := range t.Rows {
		for _, cell := range row {
			if cell.HasMarker {
				out = append(out, cell)
			}
		}
	}
	return out
}

// GetText returns the visible text, tab separated, one row per line
func (t *Table) GetText() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		for j, cell := range row {
			sb.WriteString(cell.Text)
			if j < len(row)-1 {
				sb.WriteString("\t")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// ToMarkdown converts the table to markdown format. Rows shorter than the
// widest row are padded.
func (t *Table) ToMarkdown() string {
	if len(t.Rows) == 0 {
		return ""
	}
	cols := t.ColCount()

	var sb strings.Builder
	writeRow := func(row []Cell) {
		for j := 0; j < cols; j++ {
			sb.WriteString("| ")
			if j < len(row) {
				sb.WriteString(escapeMarkdown(row[j].Display()))
			}
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
	}

	// Header row
	writeRow(t.Rows[0])

	// Separator
	for j := 0; j < cols; j++ {
		sb.WriteString("|---")
	}
	sb.WriteString("|\n")

	// Data rows
	for i := 1; i < len(t.Rows); i++ {
		writeRow(t.Rows[i])
	}

	return sb.String()
}

// escapeMarkdown escapes special markdown characters in text.
func escapeMarkdown(text string) string {
	var sb strings.Builder
	for _, r := range text {
		switch r {
		case '|':
			sb.WriteString("\\|")
		case '\n':
			sb.WriteString(" ")
		case '\r':
			// Skip
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// ToCSV converts the table to CSV format using each cell's Display text
func (t *Table) ToCSV() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		for j, cell := range row {
			// Escape quotes and wrap in quotes if necessary
			text := cell.Display()
			if strings.ContainsAny(text, ",\"\n\r") {
				text = "\"" + strings.ReplaceAll(text, "\"", "\"\"") + "\""
			}
			sb.WriteString(text)
			if j < len(row)-1 {
				sb.WriteString(",")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
