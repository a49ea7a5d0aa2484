package services

import (
	"fmt"

	"github.com/mrlokans/orgclips/internal/entities"
	"github.com/mrlokans/orgclips/internal/exporters"
)

// Ledger records every exported book. *database.Database satisfies it.
type Ledger interface {
	RecordImport(record *entities.ImportRecord) error
}

// BookResult is the outcome of exporting the clippings of one book file.
type BookResult struct {
	BookFile string
	Bibid    string
	// Title of the book in the clippings export, or the looked-up title
	// when the export has no entry for it.
	ClippingsTitle string
	Identity       entities.BookIdentity
	TextFile       string
	Highlights     int
	exporters.ExportResult

	// Non-fatal problems: missing metadata, failed conversions, duplicate
	// entries in the org file.
	Warnings []string
}

func (r *BookResult) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// ImportResult is the outcome of filing one book into the library.
type ImportResult struct {
	SourceFile string
	MasterFile string
	Bibid      string
	// NewInBib is true when the bib entry was appended by this run.
	NewInBib bool
	// SkipReason is set when the book was left where it was.
	SkipReason string
	Clips      *BookResult
	Warnings   []string
}
