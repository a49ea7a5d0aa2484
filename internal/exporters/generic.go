package exporters

// EntryWriter persists rendered book entries and reports what is
// already persisted.
type EntryWriter interface {
	Index() (Index, error)
	Append(entry OrgEntry) error
}

type ExportResult struct {
	HighlightsRendered int  `json:"highlights_rendered"`
	HighlightsSkipped  int  `json:"highlights_skipped"`
	DuplicateEntry     bool `json:"duplicate_entry"`
}
