package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrlokans/orgclips/internal/apperr"
	"github.com/mrlokans/orgclips/internal/bibid"
	"github.com/mrlokans/orgclips/internal/calibre"
	"github.com/mrlokans/orgclips/internal/entities"
	"github.com/mrlokans/orgclips/internal/exporters"
	"github.com/mrlokans/orgclips/internal/kindle"
	"github.com/mrlokans/orgclips/internal/utils"
)

// Clipper exports the clippings of book files to an org file, one book at
// a time.
type Clipper struct {
	Store  *kindle.Store
	Meta   calibre.Provider
	Writer exporters.EntryWriter

	// Optional. Without a converter or a text directory no text rendition
	// is produced and blocks carry no links.
	Converter calibre.Converter
	TextDir   string
	Links     bool

	// Optional ledger; OrgFile is only recorded in it.
	Ledger  Ledger
	OrgFile string

	DocType string
}

// Process looks up the metadata of bookFile and exports its clippings.
func (c *Clipper) Process(ctx context.Context, bookFile string) (*BookResult, error) {
	identity, warnings := Identify(ctx, c.Meta, bookFile)
	result, err := c.ProcessIdentity(ctx, bookFile, identity)
	if result != nil {
		result.Warnings = append(warnings, result.Warnings...)
	}
	return result, err
}

// ProcessIdentity exports the clippings of bookFile with metadata that was
// already looked up.
func (c *Clipper) ProcessIdentity(ctx context.Context, bookFile string, identity entities.BookIdentity) (*BookResult, error) {
	result := &BookResult{BookFile: bookFile, Identity: identity}

	id := bibid.Generate(identity)
	if id == "" {
		return result, fmt.Errorf("%w: no bibid for %s", apperr.ErrCollaborator, bookFile)
	}
	result.Bibid = id

	text := c.textRendition(ctx, result)

	title, clips := c.Store.Book(identity.Title)
	result.ClippingsTitle = title
	for _, clip := range clips {
		if clip.Kind == kindle.KindHighlight {
			result.Highlights++
		}
	}
	if len(clips) == 0 {
		result.warn("no clippings found for %q", identity.Title)
	}

	entry := exporters.OrgEntry{
		BookTitle: title,
		BookFile:  bookFile,
		Bibid:     id,
		Identity:  identity,
		DocType:   c.DocType,
	}

	var decorate func([]exporters.Block)
	if c.Links && text != "" {
		decorate = func(blocks []exporters.Block) {
			exporters.LinkBlocks(blocks, result.TextFile, text)
		}
	}

	exported, err := exporters.Export(c.Writer, entry, clips, decorate)
	if err != nil {
		return result, fmt.Errorf("exporting clippings of %s: %w", bookFile, err)
	}
	result.ExportResult = exported
	if exported.DuplicateEntry {
		result.warn("duplicating entry %s", id)
	}

	log.Printf("Clipper: %s: %d new highlights, %d already present", id, exported.HighlightsRendered, exported.HighlightsSkipped)

	c.record(result)
	return result, nil
}

func (c *Clipper) textRendition(ctx context.Context, result *BookResult) string {
	if c.TextDir == "" || c.Converter == nil {
		return ""
	}

	textFile := filepath.Join(c.TextDir, result.Bibid+".txt")
	if err := c.Converter.Convert(ctx, result.BookFile, textFile); err != nil {
		result.warn("no text rendition, no links will be produced: %v", err)
		return ""
	}
	data, err := os.ReadFile(textFile)
	if err != nil {
		result.warn("no text rendition, no links will be produced: %v", err)
		return ""
	}
	result.TextFile = textFile
	return string(data)
}

func (c *Clipper) record(result *BookResult) {
	if c.Ledger == nil {
		return
	}

	record := &entities.ImportRecord{
		Bibid:           result.Bibid,
		Title:           result.Identity.Title,
		Authors:         result.Identity.AuthorList(),
		Year:            result.Identity.Year,
		BookFile:        result.BookFile,
		OrgFile:         c.OrgFile,
		ClippingsTitle:  result.ClippingsTitle,
		HighlightsAdded: result.HighlightsRendered,
		TotalHighlights: result.Highlights,
		DuplicateEntry:  result.DuplicateEntry,
		Warnings:        strings.Join(result.Warnings, "; "),
	}
	if err := c.Ledger.RecordImport(record); err != nil {
		log.Printf("Clipper: warning - failed to record %s in ledger: %v", result.Bibid, err)
	}
}

// Identify looks up the metadata of a book file. Lookup failures and
// missing fields become warnings; a missing title falls back to the file
// name.
func Identify(ctx context.Context, provider calibre.Provider, bookFile string) (entities.BookIdentity, []string) {
	var warnings []string

	var identity entities.BookIdentity
	if provider != nil {
		found, err := provider.Lookup(ctx, bookFile)
		if err != nil {
			warnings = append(warnings, err.Error())
		} else {
			identity = found
		}
	}

	if err := calibre.RequireFields(identity); err != nil {
		warnings = append(warnings, err.Error())
	}
	if strings.TrimSpace(identity.Title) == "" {
		base := filepath.Base(bookFile)
		identity.Title = strings.TrimSuffix(base, titleExtension(base))
	}
	return identity, warnings
}

func titleExtension(name string) string {
	if ext := utils.BookExtension(name); ext != "" {
		return name[len(name)-len(ext):]
	}
	return filepath.Ext(name)
}
