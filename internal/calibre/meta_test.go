package calibre

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/orgclips/internal/apperr"
	"github.com/mrlokans/orgclips/internal/entities"
)

const influenceMeta = `Title               : Influence
Author(s)           : Robert B. Cialdini [Cialdini, Robert B.]
Publisher           : HarperCollins
Book Producer       : calibre (0.9.29) [http://calibre-ebook.com]
Tags                : Psychology
Languages           : eng
Published           : 2009-03-17T04:00:00+00:00
Identifiers         : isbn:9780061899874, mobi-asin:B002BD2UUC
Comments            : A classic : still cited
`

func TestParseEbookMeta(t *testing.T) {
	book := ParseEbookMeta(influenceMeta, nil)

	assert.Equal(t, "Influence", book.Title)
	assert.Equal(t, []string{"Cialdini, Robert B."}, book.Authors)
	assert.Equal(t, "HarperCollins", book.Publisher)
	assert.Equal(t, "eng", book.Language)
	assert.Equal(t, 2009, book.Year)
	assert.Equal(t, "9780061899874", book.ISBN)
	assert.Equal(t, map[string]string{"mobi-asin": "B002BD2UUC"}, book.Identifiers)
	assert.Equal(t, "Psychology", book.Extra["tags"])
	assert.NotContains(t, book.Extra, "comments")
	assert.Empty(t, book.MissingFields())
}

func TestParseEbookMeta_Sparse(t *testing.T) {
	book := ParseEbookMeta("Title : Notes\r\nIdentifiers : B00XYZ\r\nPublished : sometime in 1999\r\n", nil)

	assert.Equal(t, "Notes", book.Title)
	assert.Equal(t, "B00XYZ", book.Identifiers["identifier"])
	assert.Equal(t, 1999, book.Year)
	assert.Equal(t, []string{"author"}, book.MissingFields())
}

func TestParseAuthors(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"Stuckey, Maggie & McGee, Rose Marie Nichols [Stuckey, Maggie]", []string{"Stuckey, Maggie", "McGee, Rose Marie Nichols"}},
		{"Cialdini, Robert B. [Cialdini, Robert B.]", []string{"Cialdini, Robert B."}},
		{"Robert B. Cialdini", []string{"Cialdini, Robert B."}},
		{"Cialdini", []string{"Cialdini"}},
		{"Chip Heath and Dan Heath", []string{"Heath, Chip", "Heath, Dan"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseAuthors(tt.input))
		})
	}
}

func TestMetaProvider_Lookup(t *testing.T) {
	var gotName string
	var gotArgs []string
	provider := NewMetaProvider("", time.Second)
	provider.Run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		gotName, gotArgs = name, args
		return []byte(influenceMeta), nil
	}

	book, err := provider.Lookup(context.Background(), "/books/influence.mobi")
	require.NoError(t, err)
	assert.Equal(t, "ebook-meta", gotName)
	assert.Equal(t, []string{"/books/influence.mobi"}, gotArgs)
	assert.Equal(t, "Influence", book.Title)
}

func TestMetaProvider_LookupFailure(t *testing.T) {
	provider := NewMetaProvider("ebook-meta", time.Second)
	provider.Run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, errors.Join(apperr.ErrCollaborator, errors.New("exit status 1"))
	}

	_, err := provider.Lookup(context.Background(), "/books/locked.azw")
	assert.ErrorIs(t, err, apperr.ErrCollaborator)
}

func TestRequireFields(t *testing.T) {
	assert.NoError(t, RequireFields(entities.BookIdentity{Title: "T", Authors: []string{"A"}, Year: 2000}))

	err := RequireFields(entities.BookIdentity{Title: "T"})
	assert.ErrorIs(t, err, apperr.ErrCollaborator)
	assert.Contains(t, err.Error(), "author, year")
}
