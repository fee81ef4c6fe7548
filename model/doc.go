// Package model provides plain snapshots of tick-list matrices.
//
// A [Table] captures one matrix after a validation run: each [Cell] keeps its
// visible text, the description written by the structural pass, the marker
// label used for comparison and the background color that was painted.
// Tables are grouped in a [Document] together with page metadata.
//
// Snapshots hold no references to the parsed HTML tree, so they can be
// serialized, compared in tests and exported:
//
//	t := doc.Table("mood-node-name-child")
//	fmt.Print(t.ToMarkdown())
//	fmt.Print(t.ToCSV())
package model
