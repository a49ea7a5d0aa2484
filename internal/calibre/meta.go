package calibre

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mrlokans/orgclips/internal/apperr"
	"github.com/mrlokans/orgclips/internal/entities"
	"github.com/mrlokans/orgclips/internal/kindle"
)

// Provider looks up the bibliographic metadata of a book file.
type Provider interface {
	Lookup(ctx context.Context, bookFile string) (entities.BookIdentity, error)
}

// MetaProvider asks ebook-meta for the metadata of a book.
type MetaProvider struct {
	Bin     string
	Timeout time.Duration
	Dates   kindle.DateParser
	Run     Runner
}

func NewMetaProvider(bin string, timeout time.Duration) *MetaProvider {
	if bin == "" {
		bin = "ebook-meta"
	}
	return &MetaProvider{
		Bin:     bin,
		Timeout: timeout,
		Dates:   kindle.NewDateParser(),
		Run:     ExecRunner,
	}
}

func (p *MetaProvider) Lookup(ctx context.Context, bookFile string) (entities.BookIdentity, error) {
	ctx, cancel := withTimeout(ctx, p.Timeout)
	defer cancel()

	run := p.Run
	if run == nil {
		run = ExecRunner
	}
	out, err := run(ctx, p.Bin, bookFile)
	if err != nil {
		return entities.BookIdentity{}, fmt.Errorf("reading metadata of %s: %w", bookFile, err)
	}
	return ParseEbookMeta(string(out), p.Dates), nil
}

var (
	fieldSeparator = regexp.MustCompile(`\s+:\s+`)
	bracketed      = regexp.MustCompile(`\[.+\]`)
	yearPattern    = regexp.MustCompile(`\b(\d{4})\b`)
)

// ParseEbookMeta reads the "Key : value" listing printed by ebook-meta.
// Lines that do not split into exactly one key and one value are ignored.
func ParseEbookMeta(output string, dates kindle.DateParser) entities.BookIdentity {
	if dates == nil {
		dates = kindle.NewDateParser()
	}

	book := entities.BookIdentity{
		Identifiers: map[string]string{},
		Extra:       map[string]string{},
	}
	for _, line := range strings.Split(output, "\n") {
		parts := fieldSeparator.Split(strings.TrimRight(line, "\r"), -1)
		if len(parts) != 2 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])

		switch {
		case strings.Contains(key, "author"):
			book.Authors = ParseAuthors(value)
		case key == "title":
			book.Title = value
		case strings.Contains(key, "language"):
			book.Language = value
		case key == "publisher":
			book.Publisher = value
		case strings.Contains(key, "identifier"):
			parseIdentifiers(value, &book)
		case strings.Contains(key, "published"):
			book.Year = parseYear(value, dates)
		default:
			book.Extra[key] = value
		}
	}
	return book
}

func parseIdentifiers(value string, book *entities.BookIdentity) {
	identified := false
	for _, id := range strings.Split(value, ",") {
		scheme, content, ok := strings.Cut(strings.TrimSpace(id), ":")
		if !ok {
			continue
		}
		scheme = strings.ToLower(strings.TrimSpace(scheme))
		content = strings.TrimSpace(content)
		if scheme == "isbn" {
			book.ISBN = content
		} else {
			book.Identifiers[scheme] = content
		}
		identified = true
	}
	if !identified {
		book.Identifiers["identifier"] = value
	}
}

func parseYear(value string, dates kindle.DateParser) int {
	if t, ok := dates.ParseDate(value); ok {
		return t.Year()
	}
	if m := yearPattern.FindString(value); m != "" {
		year, _ := strconv.Atoi(m)
		return year
	}
	log.Printf("ebook-meta: unrecognised publication date %q", value)
	return 0
}

// ParseAuthors splits an ebook-meta author field into "Last, First" names.
// The bracketed author sort key calibre appends is dropped.
func ParseAuthors(info string) []string {
	info = bracketed.ReplaceAllString(info, "")

	var names []string
	switch {
	case strings.Contains(info, "&"):
		names = strings.Split(info, "&")
	case strings.Contains(info, " and "):
		names = strings.Split(info, " and ")
	default:
		names = []string{info}
	}

	authors := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		authors = append(authors, lastNameFirst(name))
	}
	return authors
}

func lastNameFirst(name string) string {
	if strings.Contains(name, ",") {
		return name
	}
	words := strings.Fields(name)
	if len(words) < 2 {
		return name
	}
	return words[len(words)-1] + ", " + strings.Join(words[:len(words)-1], " ")
}

// RequireFields reports which of title, author and year the identity lacks
// as an ErrCollaborator error.
func RequireFields(book entities.BookIdentity) error {
	missing := book.MissingFields()
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: missing %s", apperr.ErrCollaborator, strings.Join(missing, ", "))
}
