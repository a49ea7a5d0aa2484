// Package bibid derives the canonical identifier of a book from its
// metadata. The identifier names the book's files and is its BibTeX key,
// e.g. "cialdini-2011---influence", so the derivation must stay stable
// across releases.
package bibid

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mrlokans/orgclips/internal/entities"
)

// MaxTitleWords bounds the number of words kept from a title.
const MaxTitleWords = 7

// Words a shortened title must not end on.
var stopwords = map[string]bool{
	"the": true, "and": true, "but": true, "or": true, "yet": true,
	"for": true, "with": true, "no": true, "nor": true, "not": true,
	"so": true, "a": true, "s": true, "that": true,
}

var (
	// Leftovers of BibTeX accent escapes, as in "C{\'i}ald\~ini".
	accentArtifacts = strings.NewReplacer("{", "", "}", "", `\`, "", "'", "", "~", "")

	nameSeparators = regexp.MustCompile(`[\s.]+`)
	parenthesized  = regexp.MustCompile(`\(.*\)`)
)

// Generate builds the bibid: "<author>-<year>---<title>", with the author
// and year parts left out when unknown and the title alone when both are.
func Generate(book entities.BookIdentity) string {
	prefix := ""
	if author := AuthorSlug(book.PrimaryAuthor()); author != "" {
		prefix = author + "-"
	}
	if book.Year != 0 {
		prefix += strconv.Itoa(book.Year) + "-"
	}

	title := TitleSlug(book.Title)
	if prefix == "" {
		return title
	}
	return prefix + "--" + title
}

// AuthorSlug reduces an author name to the slug of its surname. Names in
// "Surname, Given" form keep the part before the comma; otherwise the last
// word is taken.
func AuthorSlug(author string) string {
	author = accentArtifacts.Replace(author)

	if surname, _, found := strings.Cut(author, ","); found {
		return Slugify(surname)
	}

	tokens := nameSeparators.Split(strings.TrimSpace(author), -1)
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i] != "" {
			return Slugify(tokens[i])
		}
	}
	return ""
}

// TitleSlug slugifies the main title, dropping any subtitle after a colon
// and any parenthesized part, and shortens it with ReasonableLength.
func TitleSlug(title string) string {
	title, _, _ = strings.Cut(title, ":")
	title = strings.TrimSpace(parenthesized.ReplaceAllString(title, ""))
	return ReasonableLength(Slugify(title))
}

// ReasonableLength keeps at most MaxTitleWords words of a hyphenated slug.
// A slug that had to be cut does not end on a stopword unless only one word
// is left.
func ReasonableLength(slug string) string {
	words := strings.Split(slug, "-")
	if len(words) <= MaxTitleWords {
		return slug
	}

	n := MaxTitleWords
	for n > 1 && stopwords[words[n-1]] {
		n--
	}
	return strings.Join(words[:n], "-")
}
