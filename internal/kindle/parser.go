package kindle

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/mrlokans/orgclips/internal/apperr"
)

// Clipping is a highlight or bookmark of a book, with the body of the note
// that followed it, if any.
type Clipping struct {
	Kind     Kind
	Content  string
	Location *Location
	Page     *int
	AddedAt  *time.Time
	Note     string
}

// Parser parses the Kindle My Clippings.txt format
type Parser struct {
	dates DateParser
}

// NewParser creates a parser that hands "Added on" dates to the given
// parser. A nil DateParser uses NewDateParser.
func NewParser(dates DateParser) *Parser {
	if dates == nil {
		dates = NewDateParser()
	}
	return &Parser{dates: dates}
}

const entrySeparator = "=========="

// Parse reads a whole clippings export and groups its entries by book.
// Malformed sections are skipped; only a failure to read r is an error.
func (p *Parser) Parse(r io.Reader) (*Store, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading clippings: %v", apperr.ErrIO, err)
	}
	return p.ParseString(string(raw)), nil
}

// ParseString is Parse over an in-memory export.
func (p *Parser) ParseString(raw string) *Store {
	raw = normalize(raw)

	store := NewStore()
	// Index of the latest highlight per book, for attaching notes.
	lastHighlight := make(map[string]int)

	for _, section := range strings.Split(raw, entrySeparator) {
		title, metaLine, content, ok := splitSection(section)
		if !ok {
			continue
		}

		meta, err := ParseMetadata(metaLine, p.dates)
		if err != nil {
			log.Printf("Kindle parser: skipping entry of %q: %v", title, err)
			continue
		}
		if meta == nil {
			continue
		}

		if meta.Kind == KindNote {
			idx, ok := lastHighlight[title]
			if !ok {
				continue
			}
			store.books[title][idx].Note = content
			continue
		}

		store.add(title, Clipping{
			Kind:     meta.Kind,
			Content:  content,
			Location: meta.Location,
			Page:     meta.Page,
			AddedAt:  meta.AddedAt,
		})
		if meta.Kind == KindHighlight {
			lastHighlight[title] = len(store.books[title]) - 1
		}
	}

	return store
}

func normalize(raw string) string {
	raw = strings.ReplaceAll(raw, "\ufeff", "")
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	return strings.ReplaceAll(raw, "\r", "\n")
}

// splitSection returns the title line, the metadata line and the body of
// a section. A section needs at least three non-empty lines.
func splitSection(section string) (title, meta, content string, ok bool) {
	lines := strings.Split(section, "\n")

	nonEmpty := 0
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			nonEmpty++
		}
	}
	if nonEmpty < 3 {
		return "", "", "", false
	}

	i := 0
	next := func() string {
		for ; i < len(lines); i++ {
			if line := strings.TrimSpace(lines[i]); line != "" {
				i++
				return line
			}
		}
		return ""
	}
	title = next()
	meta = next()
	content = strings.TrimSpace(strings.Join(lines[i:], "\n"))

	return title, meta, content, true
}
