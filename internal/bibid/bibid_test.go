package bibid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrlokans/orgclips/internal/entities"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name     string
		book     entities.BookIdentity
		expected string
	}{
		{
			name:     "author, year and title",
			book:     entities.BookIdentity{Title: "Influence", Authors: []string{"Cialdini, Robert B."}, Year: 2011},
			expected: "cialdini-2011---influence",
		},
		{
			name:     "subtitle dropped",
			book:     entities.BookIdentity{Title: "Adapt: Why Success Always Starts with Failure", Authors: []string{"Harford, Tim"}, Year: 2011},
			expected: "harford-2011---adapt",
		},
		{
			name:     "author without year",
			book:     entities.BookIdentity{Title: "Influence", Authors: []string{"Robert B. Cialdini"}},
			expected: "cialdini---influence",
		},
		{
			name:     "year without author",
			book:     entities.BookIdentity{Title: "Influence", Year: 1984},
			expected: "1984---influence",
		},
		{
			name:     "title only",
			book:     entities.BookIdentity{Title: "Influence"},
			expected: "influence",
		},
		{
			name:     "only the first author counts",
			book:     entities.BookIdentity{Title: "Made to Stick", Authors: []string{"Heath, Chip", "Heath, Dan"}, Year: 2007},
			expected: "heath-2007---made-to-stick",
		},
		{
			name:     "accented author",
			book:     entities.BookIdentity{Title: "Cien años de soledad", Authors: []string{"García Márquez, Gabriel"}, Year: 1967},
			expected: "garcia-marquez-1967---cien-anos-de-soledad",
		},
		{
			name: "long title",
			book: entities.BookIdentity{
				Title:   "How Children Succeed: Grit, Curiosity, and the Hidden Power of Character",
				Authors: []string{"Tough, Paul"},
				Year:    2012,
			},
			expected: "tough-2012---how-children-succeed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Generate(tt.book))
		})
	}
}

func TestGenerate_IsPure(t *testing.T) {
	book := entities.BookIdentity{Title: "Influence", Authors: []string{"Cialdini, Robert B."}, Year: 2011}
	first := Generate(book)
	second := Generate(book)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"Cialdini, Robert B."}, book.Authors)
}

func TestAuthorSlug(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Cialdini, Robert B.", "cialdini"},
		{"Robert B. Cialdini", "cialdini"},
		{"Robert B.Cialdini", "cialdini"},
		{"Cialdini", "cialdini"},
		{`C{}'ialdi\~ni`, "cialdini"},
		{"Le Guin, Ursula K.", "le-guin"},
		{"Ursula K. Le Guin", "guin"},
		{"Gödel", "godel"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, AuthorSlug(tt.input))
		})
	}
}

func TestTitleSlug(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"This Very Long and Unwieldy Title That Never Ends", "this-very-long-and-unwieldy-title"},
		{"This Title: With a Subtitle", "this-title"},
		{"this title (with paren)", "this-title"},
		{"Influence", "influence"},
		{"Children's Books", "children-s-books"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, TitleSlug(tt.input))
		})
	}
}

func TestReasonableLength(t *testing.T) {
	assert.Equal(t, "how-children-succeed-grit-curiosity",
		ReasonableLength("how-children-succeed-grit-curiosity-and-the-hidden-power-of-character"))
	assert.Equal(t, "influence", ReasonableLength("influence"))

	// At most seven words never get stopword trimming.
	assert.Equal(t, "the-art-of-the", ReasonableLength("the-art-of-the"))

	// A cut slug made only of stopwords keeps its first word.
	assert.Equal(t, "the", ReasonableLength("the-and-but-or-yet-for-with-no-nor-not"))
}

func TestReasonableLength_NeverEndsOnStopword(t *testing.T) {
	titles := []string{
		"one-two-three-four-five-six-and-the-with-so",
		"alpha-beta-gamma-delta-epsilon-for-the-zeta-eta-theta",
		"a-b-c-d-e-f-that-h-i-j",
		"first-second-third-fourth-fifth-sixth-seventh-eighth-ninth-tenth",
	}

	for _, title := range titles {
		t.Run(title, func(t *testing.T) {
			got := strings.Split(ReasonableLength(title), "-")
			assert.LessOrEqual(t, len(got), MaxTitleWords)
			if len(got) > 1 {
				assert.False(t, stopwords[got[len(got)-1]], "ends on stopword: %v", got)
			}
		})
	}
}
