package exporters

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/orgclips/internal/entities"
	"github.com/mrlokans/orgclips/internal/kindle"
)

func intPtr(i int) *int { return &i }

func fixedNow() time.Time {
	return time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
}

func sampleClips() []kindle.Clipping {
	added := time.Date(2013, 1, 29, 21, 57, 15, 0, time.UTC)
	return []kindle.Clipping{
		{
			Kind:     kindle.KindHighlight,
			Content:  "the chief thing to remember is that we learn by trial and error",
			Location: &kindle.Location{Start: 1404, End: 1406},
			Page:     intPtr(73),
			AddedAt:  &added,
			Note:     "variation and selection",
		},
		{
			Kind:     kindle.KindBookmark,
			Content:  "ignored bookmark body",
			Location: &kindle.Location{Start: 2000},
		},
		{
			Kind:    kindle.KindHighlight,
			Content: "Short one",
		},
	}
}

func sampleEntry() OrgEntry {
	return OrgEntry{
		BookTitle: "Adapt: Why Success Always Starts with Failure (Tim Harford)",
		BookFile:  "/books/master/harford-2011---adapt.mobi",
		Bibid:     "harford-2011---adapt",
		DocType:   "book",
		Identity: entities.BookIdentity{
			Title:     "Adapt",
			Authors:   []string{"Harford, Tim"},
			Year:      2011,
			Publisher: "Farrar, Straus and Giroux",
			Extra:     map[string]string{"book producer": "calibre", "rights": "All"},
		},
	}
}

func TestRender(t *testing.T) {
	blocks := Render(sampleClips(), NewIndex())
	require.Len(t, blocks, 2)

	first := blocks[0]
	assert.Equal(t, "The chief thing to remember is that we learn by", first.Heading)
	assert.Equal(t, "The chief thing to remember is that we learn by trial and error", first.Content)
	assert.Equal(t, "variation and selection", first.Note)
	assert.Equal(t, 73, *first.Page)

	assert.Equal(t, "Short one", blocks[1].Heading)
	assert.Nil(t, blocks[1].AddedAt)
}

func TestRender_SkipsKnownQuotes(t *testing.T) {
	index := NewIndex()
	index.Quotes["The chief thing to remember is that we learn by trial and error"] = struct{}{}

	blocks := Render(sampleClips(), index)
	require.Len(t, blocks, 1)
	assert.Equal(t, "Short one", blocks[0].Content)
}

func TestRender_NoteKeptVerbatim(t *testing.T) {
	input := `Adapt (Tim Harford)
- Your Highlight on Location 100-102 | Added on Monday, April 1, 2013, 10:00 PM

success starts with failure
==========
Adapt (Tim Harford)
- Your Note on Location 102 | Added on Monday, April 1, 2013, 10:01 PM

see also ch. 3
==========
`
	store := kindle.NewParser(nil).ParseString(input)
	clips := store.Clippings("Adapt (Tim Harford)")
	require.Len(t, clips, 1)
	require.Equal(t, "see also ch. 3", clips[0].Note)

	blocks := Render(clips, NewIndex())
	require.Len(t, blocks, 1)
	assert.Equal(t, "see also ch. 3", blocks[0].Note)
	assert.Contains(t, blocks[0].String(), ":END:\nsee also ch. 3\n\n")
}

func TestBlockString(t *testing.T) {
	blocks := Render(sampleClips(), NewIndex())

	expected := "\n*** The chief thing to remember is that we learn by\n" +
		":PROPERTIES:\n" +
		":added: [2013-01-29 21:57:15]\n" +
		":loc: 1404-1406\n" +
		":page: 73\n" +
		":END:\n" +
		"variation and selection\n\n" +
		"\n#+begin_quote\n" +
		"The chief thing to remember is that we learn by trial and error\n" +
		"#+end_quote\n"
	assert.Equal(t, expected, blocks[0].String())

	assert.Equal(t, "\n*** Short one\n:PROPERTIES:\n:END:\n\n#+begin_quote\nShort one\n#+end_quote\n", blocks[1].String())
}

func TestLinkBlocks(t *testing.T) {
	blocks := Render(sampleClips(), NewIndex())
	text := "Chapter 1\nthe chief thing to remember is that we learn by trial and error, said he.\n"

	LinkBlocks(blocks, "/books/text/adapt.txt", text)

	assert.Equal(t, "/books/text/adapt.txt::The chief thing to remember is that we learn by trial and error", blocks[0].Link)
	assert.Empty(t, blocks[1].Link)
	assert.Contains(t, blocks[0].String(), "[[file:/books/text/adapt.txt::The chief thing")
}

func TestUpcaseFirst(t *testing.T) {
	assert.Equal(t, "Hello", UpcaseFirst("hello"))
	assert.Equal(t, "Ébène", UpcaseFirst("ébène"))
	assert.Equal(t, "", UpcaseFirst(""))
	assert.Equal(t, "123", UpcaseFirst("123"))
}

func TestOrgEntryString(t *testing.T) {
	entry := sampleEntry()
	entry.Blocks = Render(sampleClips(), NewIndex())[1:]

	got := entry.String(fixedNow())

	expectedHead := "\n** Adapt: Why Success Always Starts with Failure (Tim Harford)\n" +
		":PROPERTIES:\n" +
		":on: [2024-03-09]\n" +
		":Custom_ID: harford-2011---adapt\n" +
		":author: Harford, Tim\n" +
		":publisher: Farrar, Straus and Giroux\n" +
		":rights: All\n" +
		":title: Adapt\n" +
		":year: 2011\n" +
		":END:\n" +
		"\n[[file:/books/master/harford-2011---adapt.mobi][Master]].\n" +
		"[[bib:harford-2011---adapt][Bib entry]].\n"
	assert.True(t, strings.HasPrefix(got, expectedHead), got)
	assert.NotContains(t, got, "book producer")
	assert.True(t, strings.HasSuffix(got, "#+begin_quote\nShort one\n#+end_quote\n"))
}

func TestOrgEntryString_Paper(t *testing.T) {
	entry := sampleEntry()
	entry.DocType = "article"

	got := entry.String(fixedNow())
	assert.Contains(t, got, "[[paper:harford-2011---adapt][Master]].\n")
	assert.NotContains(t, got, "[[file:")
}

func TestOrgWriter_CreatesFileWithInbox(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes", "books.org")
	writer := NewOrgWriter(path)
	writer.Now = fixedNow

	entry := sampleEntry()
	entry.Blocks = Render(sampleClips(), NewIndex())
	require.NoError(t, writer.Append(entry))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), orgPreamble))
	assert.Equal(t, 1, strings.Count(string(data), "* Inbox"))
	assert.Equal(t, 2, strings.Count(string(data), "#+begin_quote"))
}

func TestOrgWriter_EmptyEntryWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.org")
	writer := NewOrgWriter(path)

	require.NoError(t, writer.Append(sampleEntry()))
	assert.NoFileExists(t, path)
}

func TestExport_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.org")
	writer := NewOrgWriter(path)
	writer.Now = fixedNow

	result, err := Export(writer, sampleEntry(), sampleClips(), nil)
	require.NoError(t, err)
	assert.Equal(t, ExportResult{HighlightsRendered: 2}, result)

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	result, err = Export(writer, sampleEntry(), sampleClips(), nil)
	require.NoError(t, err)
	assert.Equal(t, ExportResult{HighlightsSkipped: 2}, result)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestExport_OnlyNewHighlightIsAppended(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.org")
	writer := NewOrgWriter(path)
	writer.Now = fixedNow

	_, err := Export(writer, sampleEntry(), sampleClips(), nil)
	require.NoError(t, err)

	clips := append(sampleClips(), kindle.Clipping{Kind: kindle.KindHighlight, Content: "a brand new insight"})
	result, err := Export(writer, sampleEntry(), clips, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.HighlightsRendered)
	assert.Equal(t, 2, result.HighlightsSkipped)
	assert.True(t, result.DuplicateEntry)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Equal(t, 3, strings.Count(content, "#+begin_quote"))
	assert.Equal(t, 1, strings.Count(content, "A brand new insight\n#+end_quote"))
	assert.Equal(t, 2, strings.Count(content, ":Custom_ID: harford-2011---adapt"))
	assert.NotContains(t, content, "ignored bookmark body")
}

func TestExport_Decorate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.org")
	writer := NewOrgWriter(path)
	writer.Now = fixedNow

	link := func(blocks []Block) {
		LinkBlocks(blocks, "adapt.txt", "Short one, and more text")
	}
	_, err := Export(writer, sampleEntry(), sampleClips(), link)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[[file:adapt.txt::Short one][Read more]].\n")
}
