package entities

import (
	"strings"
	"time"
)

// BookIdentity is the bibliographic metadata of a book file as reported by
// the metadata provider. Year is zero when unknown.
type BookIdentity struct {
	Title     string
	Authors   []string
	Year      int
	ISBN      string
	Publisher string
	Language  string
	URL       string

	// Identifiers such as "mobi-asin" or "uuid", keyed by scheme.
	Identifiers map[string]string
	// Other single-valued fields reported by the provider, keyed by their
	// lower-cased name.
	Extra map[string]string
}

// PrimaryAuthor returns the first author, or "".
func (b BookIdentity) PrimaryAuthor() string {
	if len(b.Authors) == 0 {
		return ""
	}
	return b.Authors[0]
}

// AuthorList joins the authors the way BibTeX does.
func (b BookIdentity) AuthorList() string {
	return strings.Join(b.Authors, " and ")
}

// MissingFields lists which of title, author and year are unknown.
func (b BookIdentity) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(b.Title) == "" {
		missing = append(missing, "title")
	}
	if len(b.Authors) == 0 {
		missing = append(missing, "author")
	}
	if b.Year == 0 {
		missing = append(missing, "year")
	}
	return missing
}

// ImportRecord is a ledger row for a book whose clippings were exported.
type ImportRecord struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Bibid           string    `gorm:"uniqueIndex;size:256" json:"bibid"`
	Title           string    `gorm:"size:512" json:"title"`
	Authors         string    `gorm:"size:512" json:"authors"`
	Year            int       `json:"year,omitempty"`
	BookFile        string    `gorm:"size:1024" json:"book_file"`
	OrgFile         string    `gorm:"size:1024" json:"org_file"`
	ClippingsTitle  string    `gorm:"size:512" json:"clippings_title"`
	HighlightsAdded int       `json:"highlights_added"`
	TotalHighlights int       `json:"total_highlights"`
	Runs            int       `gorm:"default:1" json:"runs"`
	DuplicateEntry  bool      `json:"duplicate_entry"`
	Warnings        string    `gorm:"type:text" json:"warnings,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (ImportRecord) TableName() string {
	return "import_records"
}
