package bibid

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/mrlokans/orgclips/internal/apperr"
	"github.com/mrlokans/orgclips/internal/entities"
)

// BibString renders a BibTeX entry of the given type ("book", "article")
// keyed by id.
func BibString(book entities.BookIdentity, id, doctype string) string {
	if doctype == "" {
		doctype = "book"
	}

	year := ""
	if book.Year != 0 {
		year = strconv.Itoa(book.Year)
	}

	fields := []string{
		id,
		fmt.Sprintf("title = {%s}", book.Title),
		fmt.Sprintf("author = {%s}", book.AuthorList()),
		fmt.Sprintf("year = {%s}", year),
	}
	for _, f := range []struct{ name, value string }{
		{"isbn", book.ISBN},
		{"publisher", book.Publisher},
		{"url", book.URL},
	} {
		if f.value != "" {
			fields = append(fields, fmt.Sprintf("%s = {%s}", f.name, f.value))
		}
	}

	return fmt.Sprintf("@%s {%s\n}", doctype, strings.Join(fields, ",\n  "))
}

// HasEntry reports whether bib holds an entry keyed exactly by id.
func HasEntry(bib, id string) bool {
	key := regexp.MustCompile(`@\w+\s*\{\s*` + regexp.QuoteMeta(id) + `\s*,`)
	return key.MatchString(bib)
}

// AppendToBib adds entry to the bib file at path unless an entry keyed by
// id is already in it. It reports whether the entry was written.
func AppendToBib(path, entry, id string) (bool, error) {
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("%w: read bib file %s: %v", apperr.ErrIO, path, err)
	}
	if HasEntry(string(existing), id) {
		return false, nil
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return false, fmt.Errorf("%w: create directory %s: %v", apperr.ErrIO, dir, err)
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false, fmt.Errorf("%w: open bib file %s: %v", apperr.ErrIO, path, err)
	}
	defer f.Close()

	if _, err := f.WriteString("\n" + entry + "\n"); err != nil {
		return false, fmt.Errorf("%w: write bib file %s: %v", apperr.ErrIO, path, err)
	}
	return true, nil
}
