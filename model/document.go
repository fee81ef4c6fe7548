package model

import "time"

// Document groups the matrix snapshots taken from one page.
type Document struct {
	Metadata Metadata
	Tables   []*Table
}

// Metadata contains page-level information
type Metadata struct {
	Title   string
	Source  string
	Created time.Time
	// Custom metadata
	Custom map[string]string
}

// NewDocument creates a new empty document
func NewDocument() *Document {
	return &Document{
		Metadata: Metadata{
			Custom: make(map[string]string),
		},
		Tables: make([]*Table, 0),
	}
}

// AddTable adds a table to the document
func (d *Document) AddTable(t *Table) {
	d.Tables = append(d.Tables, t)
}

// Table returns the first table snapshot for scope, or nil
func (d *Document) Table(scope string) *Table {
	for _, t := range d.Tables {
		if t.Scope == scope {
			return t
		}
	}
	return nil
}

// TableCount returns the number of tables
func (d *Document) TableCount() int {
	return len(d.Tables)
}
