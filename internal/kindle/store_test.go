package kindle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeWithTitles(titles ...string) *Store {
	s := NewStore()
	for _, title := range titles {
		s.add(title, Clipping{Kind: KindHighlight, Content: "clip of " + title})
	}
	return s
}

func TestStore_Resolve(t *testing.T) {
	store := storeWithTitles(
		"Influence: The Psychology of Persuasion (Cialdini, Robert B.)",
		"Adapt (Tim Harford)",
		"Adapt",
		"The Lean Startup (Eric Ries)",
		"the lean startup workbook",
	)

	tests := []struct {
		name     string
		query    string
		expected string
	}{
		{
			name:     "exact key wins over substring matches",
			query:    "Adapt",
			expected: "Adapt",
		},
		{
			name:     "subtitle is cut at the colon",
			query:    "Influence: Science and Practice",
			expected: "Influence: The Psychology of Persuasion (Cialdini, Robert B.)",
		},
		{
			name:     "case-sensitive containment",
			query:    "The Lean Startup",
			expected: "The Lean Startup (Eric Ries)",
		},
		{
			name:     "case-insensitive containment",
			query:    "INFLUENCE",
			expected: "Influence: The Psychology of Persuasion (Cialdini, Robert B.)",
		},
		{
			name:     "case-sensitive tier beats case-insensitive tier",
			query:    "lean startup",
			expected: "the lean startup workbook",
		},
		{
			name:     "author part of a key",
			query:    "Harford",
			expected: "Adapt (Tim Harford)",
		},
		{
			name:     "no match returns the query",
			query:    "Thinking, Fast and Slow",
			expected: "Thinking, Fast and Slow",
		},
		{
			name:     "empty query matches nothing",
			query:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, store.Resolve(tt.query))
		})
	}
}

func TestStore_Resolve_SmallestKeyAmongSeveral(t *testing.T) {
	store := storeWithTitles("Zen and Motorcycles", "Motorcycles Explained", "Beyond Motorcycles")
	assert.Equal(t, "Beyond Motorcycles", store.Resolve("Motorcycles"))
}

func TestStore_Book(t *testing.T) {
	store := storeWithTitles("Adapt (Tim Harford)")

	title, clips := store.Book("Adapt: Why Success Always Starts with Failure")
	assert.Equal(t, "Adapt (Tim Harford)", title)
	require.Len(t, clips, 1)
	assert.Equal(t, "clip of Adapt (Tim Harford)", clips[0].Content)

	title, clips = store.Book("Unknown Book")
	assert.Equal(t, "Unknown Book", title)
	assert.Empty(t, clips)
}
