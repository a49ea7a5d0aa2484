package kindle

import (
	"sort"
	"strings"
)

// Store maps book titles, as written in the export, to their clippings in
// file order.
type Store struct {
	books map[string][]Clipping
}

func NewStore() *Store {
	return &Store{books: make(map[string][]Clipping)}
}

func (s *Store) add(title string, c Clipping) {
	s.books[title] = append(s.books[title], c)
}

// Titles returns all book titles, sorted.
func (s *Store) Titles() []string {
	titles := make([]string, 0, len(s.books))
	for title := range s.books {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return titles
}

// Len returns the number of books.
func (s *Store) Len() int {
	return len(s.books)
}

// Clippings returns the clippings stored under exactly this title.
func (s *Store) Clippings(title string) []Clipping {
	return s.books[title]
}

// Book resolves a possibly truncated title and returns its clippings,
// or nil when nothing matches.
func (s *Store) Book(query string) (string, []Clipping) {
	title := s.Resolve(query)
	return title, s.books[title]
}

// Resolve maps a title, as given by book metadata, to the key used in the
// clippings export. It tries, in order: the exact title; any key that
// contains the title cut at its first colon; the same case-insensitively.
// When several keys qualify at a step the lexicographically smallest wins.
// With no match the query is returned unchanged, as is a query with nothing
// before its first colon (": Subtitle").
func (s *Store) Resolve(query string) string {
	if _, ok := s.books[query]; ok {
		return query
	}

	short, _, _ := strings.Cut(query, ":")
	if strings.TrimSpace(short) == "" {
		return query
	}
	titles := s.Titles()

	for _, title := range titles {
		if strings.Contains(title, short) {
			return title
		}
	}

	lower := strings.ToLower(short)
	for _, title := range titles {
		if strings.Contains(strings.ToLower(title), lower) {
			return title
		}
	}

	return query
}
