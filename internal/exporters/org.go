package exporters

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/mrlokans/orgclips/internal/apperr"
	"github.com/mrlokans/orgclips/internal/entities"
	"github.com/mrlokans/orgclips/internal/kindle"
)

const headingWords = 10

// Block is one rendered highlight.
type Block struct {
	Heading  string
	Content  string
	Note     string
	AddedAt  *time.Time
	Location *kindle.Location
	Page     *int
	// Optional org link target into the text rendition of the book.
	Link string
}

func (b Block) String() string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "\n*** %s\n", b.Heading)
	builder.WriteString(":PROPERTIES:\n")
	if b.AddedAt != nil {
		fmt.Fprintf(&builder, ":added: [%s]\n", b.AddedAt.Format("2006-01-02 15:04:05"))
	}
	if b.Location != nil {
		fmt.Fprintf(&builder, ":loc: %s\n", b.Location)
	}
	if b.Page != nil {
		fmt.Fprintf(&builder, ":page: %d\n", *b.Page)
	}
	builder.WriteString(":END:\n")

	if b.Note != "" {
		fmt.Fprintf(&builder, "%s\n\n", b.Note)
	}
	if b.Link != "" {
		fmt.Fprintf(&builder, "[[file:%s][Read more]].\n", b.Link)
	}
	fmt.Fprintf(&builder, "\n#+begin_quote\n%s\n#+end_quote\n", b.Content)

	return builder.String()
}

// Render turns the highlights of a book into blocks, in file order,
// leaving out bookmarks and highlights whose text is already quoted in
// the index.
func Render(clips []kindle.Clipping, index Index) []Block {
	var blocks []Block
	for _, clip := range clips {
		if clip.Kind != kindle.KindHighlight {
			continue
		}
		content := UpcaseFirst(clip.Content)
		if index.HasQuote(content) {
			continue
		}

		words := strings.Fields(clip.Content)
		if len(words) > headingWords {
			words = words[:headingWords]
		}

		blocks = append(blocks, Block{
			Heading:  UpcaseFirst(strings.Join(words, " ")),
			Content:  content,
			Note:     clip.Note,
			AddedAt:  clip.AddedAt,
			Location: clip.Location,
			Page:     clip.Page,
		})
	}
	return blocks
}

// LinkBlocks points every block whose quote appears verbatim in text at its
// first line within the text file at textPath.
func LinkBlocks(blocks []Block, textPath, text string) {
	if text == "" {
		return
	}
	lowered := strings.ToLower(text)
	for i := range blocks {
		first, _, _ := strings.Cut(blocks[i].Content, "\n")
		first = strings.Trim(strings.TrimSpace(first), "[]")
		if first == "" || !strings.Contains(lowered, strings.ToLower(first)) {
			continue
		}
		blocks[i].Link = textPath + "::" + first
	}
}

// UpcaseFirst upper-cases the first letter of s.
func UpcaseFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// OrgEntry is the section written for one book.
type OrgEntry struct {
	// Title as found in the clippings export.
	BookTitle string
	BookFile  string
	Bibid     string
	Identity  entities.BookIdentity
	// "book" links the master file, anything else links a paper.
	DocType string
	Blocks  []Block
}

// Properties that never go into the drawer, besides the ones written
// explicitly.
var skippedProperties = map[string]bool{
	"tags": true, "comments": true, "author": true, "author(s)": true,
	"book producer": true, "bibstr": true, "bibid": true,
}

func (e OrgEntry) String(on time.Time) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "\n** %s\n", e.BookTitle)
	builder.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&builder, ":on: [%s]\n", on.Format("2006-01-02"))
	fmt.Fprintf(&builder, ":Custom_ID: %s\n", e.Bibid)
	fmt.Fprintf(&builder, ":author: %s\n", e.Identity.AuthorList())
	for _, kv := range identityProperties(e.Identity) {
		fmt.Fprintf(&builder, ":%s: %s\n", kv[0], kv[1])
	}
	builder.WriteString(":END:\n")

	if e.DocType == "" || e.DocType == "book" {
		fmt.Fprintf(&builder, "\n[[file:%s][Master]].\n", e.BookFile)
	} else {
		fmt.Fprintf(&builder, "\n[[paper:%s][Master]].\n", e.Bibid)
	}
	fmt.Fprintf(&builder, "[[bib:%s][Bib entry]].\n", e.Bibid)

	for _, block := range e.Blocks {
		builder.WriteString(block.String())
	}
	return builder.String()
}

func identityProperties(b entities.BookIdentity) [][2]string {
	props := map[string]string{}
	for k, v := range b.Extra {
		props[strings.ToLower(k)] = v
	}
	for k, v := range b.Identifiers {
		props[strings.ToLower(k)] = v
	}
	set := func(k, v string) {
		if v != "" {
			props[k] = v
		}
	}
	set("title", b.Title)
	set("isbn", b.ISBN)
	set("publisher", b.Publisher)
	set("language", b.Language)
	set("url", b.URL)
	if b.Year != 0 {
		props["year"] = strconv.Itoa(b.Year)
	}

	var out [][2]string
	for k, v := range props {
		if skippedProperties[k] || strings.ContainsAny(k, " \t") || strings.TrimSpace(v) == "" {
			continue
		}
		out = append(out, [2]string{k, strings.Join(strings.Fields(v), " ")})
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

const orgPreamble = "# -*- coding: utf-8 -*-\n\n* Inbox\n\n"

// OrgWriter appends book sections to an org-mode file.
type OrgWriter struct {
	Path string
	Now  func() time.Time
}

func NewOrgWriter(path string) *OrgWriter {
	return &OrgWriter{Path: path, Now: time.Now}
}

func (w *OrgWriter) Index() (Index, error) {
	return LoadIndex(w.Path)
}

// Append writes the entry at the end of the file, creating the file with an
// Inbox heading first if needed. Entries without blocks are not written.
func (w *OrgWriter) Append(entry OrgEntry) error {
	if len(entry.Blocks) == 0 {
		return nil
	}

	_, statErr := os.Stat(w.Path)
	isNew := os.IsNotExist(statErr)
	if isNew {
		if dir := filepath.Dir(w.Path); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("%w: create directory %s: %v", apperr.ErrIO, dir, err)
			}
		}
	}

	f, err := os.OpenFile(w.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("%w: open org file %s: %v", apperr.ErrIO, w.Path, err)
	}
	defer f.Close()

	now := time.Now
	if w.Now != nil {
		now = w.Now
	}

	var content string
	if isNew {
		content = orgPreamble
	}
	content += entry.String(now())

	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf("%w: write org file %s: %v", apperr.ErrIO, w.Path, err)
	}
	return nil
}

// Export renders the clippings against what w already holds and appends
// the new blocks as one entry. A non-nil decorate sees the blocks before
// they are written.
func Export(w EntryWriter, entry OrgEntry, clips []kindle.Clipping, decorate func([]Block)) (ExportResult, error) {
	index, err := w.Index()
	if err != nil {
		return ExportResult{}, err
	}

	blocks := Render(clips, index)
	if decorate != nil && len(blocks) > 0 {
		decorate(blocks)
	}
	entry.Blocks = append(blocks[:0:0], blocks...)

	highlights := 0
	for _, clip := range clips {
		if clip.Kind == kindle.KindHighlight {
			highlights++
		}
	}

	result := ExportResult{
		HighlightsRendered: len(blocks),
		HighlightsSkipped:  highlights - len(blocks),
		DuplicateEntry:     len(blocks) > 0 && index.HasID(entry.Bibid),
	}
	if len(blocks) == 0 {
		return result, nil
	}
	if err := w.Append(entry); err != nil {
		return ExportResult{}, err
	}
	return result, nil
}
