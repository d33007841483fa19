package wiki

import "database/sql"

// PageText is one row of the export join: a page, its latest revision,
// and that revision's stored text. The revision and text legs are LEFT
// joined, so RevID, TextRef and TextID are NULL when the chain from
// page_latest does not resolve; such pages are skipped by the exporter.
//
// The column set matches the pre-1.31 MediaWiki schema where revision
// text lives inline in the `text` table. Content/slots based schemas
// (1.31+) are not supported.
type PageText struct {
	PageID    int64
	Title     string
	Namespace int64
	Latest    int64

	RevID   sql.NullInt64 // revision.rev_id, NULL when the revision row is missing
	TextRef sql.NullInt64 // revision.rev_text_id
	TextID  sql.NullInt64 // text.old_id, NULL when the text row is missing
	Text    []byte        // text.old_text, raw bytes as stored
}

// Resolved reports whether the page's latest revision and its text blob
// both exist.
func (p PageText) Resolved() bool {
	return p.RevID.Valid && p.TextID.Valid
}

// Filter narrows the set of pages returned by the repository.
type Filter struct {
	// Namespace restricts rows to one namespace when non-nil. A pointer
	// keeps namespace 0 (articles) distinct from "all namespaces".
	Namespace *int64

	// Limit caps the number of rows when positive; 0 means no cap.
	Limit int64
}
