package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/mrlokans/orgclips/internal/apperr"
	"github.com/mrlokans/orgclips/internal/bibid"
	"github.com/mrlokans/orgclips/internal/calibre"
	"github.com/mrlokans/orgclips/internal/utils"
)

// Extensions the library picks up when scanning its source directory.
var importExtensions = map[string]bool{
	".azw":  true,
	".azw3": true,
	".epub": true,
	".mobi": true,
	".pdf":  true,
}

// Formats filed as they are; anything else is converted to .mobi.
var keptFormats = map[string]bool{
	".mobi": true,
	".pdf":  true,
}

// Library files books under MasterDir with their bibid as file name, keeps
// BibFile current and exports their clippings.
type Library struct {
	SourceDir string
	MasterDir string
	BibFile   string
	// Re-file books whose bibid is already in BibFile.
	AlsoRepeated bool

	Meta      calibre.Provider
	Converter calibre.Converter
	// Optional. Nil files books without exporting clippings.
	Clipper *Clipper
}

// ImportAll imports every book of a known format in SourceDir, in name
// order. A failing book is logged and does not stop the others.
func (l *Library) ImportAll(ctx context.Context) ([]ImportResult, error) {
	entries, err := os.ReadDir(l.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("%w: reading source directory %s: %v", apperr.ErrIO, l.SourceDir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !importExtensions[utils.BookExtension(entry.Name())] {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var results []ImportResult
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result, err := l.Import(ctx, name)
		if err != nil {
			log.Printf("Library import: %s: %v", name, err)
			result.Warnings = append(result.Warnings, err.Error())
		}
		results = append(results, result)
	}
	return results, nil
}

// Import files one book. Relative names that do not exist are looked up in
// SourceDir.
func (l *Library) Import(ctx context.Context, book string) (ImportResult, error) {
	if !utils.FileExists(book) && !filepath.IsAbs(book) && l.SourceDir != "" {
		book = filepath.Join(l.SourceDir, book)
	}
	result := ImportResult{SourceFile: book}
	if !utils.FileExists(book) {
		return result, fmt.Errorf("%w: no such book %s", apperr.ErrIO, book)
	}

	ext := utils.BookExtension(book)
	if ext == ".azw" {
		result.SkipReason = "DRM-protected .azw files are not supported"
		log.Printf("Library import: warning - skipping %s: %s", book, result.SkipReason)
		return result, nil
	}

	identity, warnings := Identify(ctx, l.Meta, book)
	result.Warnings = warnings

	id := bibid.Generate(identity)
	if id == "" {
		return result, fmt.Errorf("%w: no bibid for %s", apperr.ErrCollaborator, book)
	}
	result.Bibid = id

	added, err := bibid.AppendToBib(l.BibFile, bibid.BibString(identity, id, "book"), id)
	if err != nil {
		return result, err
	}
	result.NewInBib = added
	if !added && !l.AlsoRepeated {
		result.SkipReason = "already in " + l.BibFile
		return result, nil
	}

	master, err := l.file(ctx, book, ext, id)
	if err != nil {
		return result, err
	}
	result.MasterFile = master
	log.Printf("Library import: %s -> %s", book, master)

	if l.Clipper != nil {
		clips, err := l.Clipper.ProcessIdentity(ctx, master, identity)
		result.Clips = clips
		if err != nil {
			return result, err
		}
	}
	return result, nil
}

func (l *Library) file(ctx context.Context, book, ext, id string) (string, error) {
	if err := os.MkdirAll(l.MasterDir, 0755); err != nil {
		return "", fmt.Errorf("%w: create master directory %s: %v", apperr.ErrIO, l.MasterDir, err)
	}

	base := filepath.Join(l.MasterDir, id)
	if !keptFormats[ext] {
		master := base + ".mobi"
		if l.Converter == nil {
			return "", fmt.Errorf("%w: no converter for %s", apperr.ErrCollaborator, book)
		}
		if err := l.Converter.Convert(ctx, book, master); err != nil {
			return "", err
		}
		return master, nil
	}

	master := base + ext
	if err := moveFile(book, master); err != nil {
		return "", fmt.Errorf("%w: moving %s: %v", apperr.ErrIO, book, err)
	}
	return master, nil
}

// moveFile renames src, copying across file systems when rename cannot.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := utils.CopyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}
