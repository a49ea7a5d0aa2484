package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/orgclips/internal/calibre"
	"github.com/mrlokans/orgclips/internal/config"
	"github.com/mrlokans/orgclips/internal/exporters"
	"github.com/mrlokans/orgclips/internal/kindle"
	"github.com/mrlokans/orgclips/internal/services"
)

// ImportCommand files books into the master directory under their bibid,
// adds them to the bib file and exports their clippings.
type ImportCommand struct {
	cfg *config.Config

	MasterDir    string
	SourceDir    string
	BibFile      string
	OrgFile      string
	TextDir      string
	AlsoRepeated bool
	DatabasePath string
	Books        []string
}

func NewImportCommand(cfg *config.Config) *ImportCommand {
	return &ImportCommand{cfg: cfg}
}

func (cmd *ImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)

	fs.StringVar(&cmd.MasterDir, "m", cmd.cfg.Library.MasterDir, "Directory the book files are moved to (required)")
	fs.StringVar(&cmd.SourceDir, "s", cmd.cfg.Library.SourceDir, "Directory in which to look for books")
	fs.StringVar(&cmd.BibFile, "bib", cmd.cfg.Library.BibFile, "BibTeX file")
	fs.StringVar(&cmd.OrgFile, "o", cmd.cfg.Org.File, "Org-mode file the clippings are appended to")
	fs.StringVar(&cmd.TextDir, "t", cmd.cfg.Org.TextDir, "Directory for the text version of each book (\"\" disables it)")
	fs.BoolVar(&cmd.AlsoRepeated, "a", cmd.cfg.Watch.AlsoRepeated, "Also process books that are already in the bib file")
	fs.StringVar(&cmd.DatabasePath, "db", cmd.cfg.Database.Path, "Ledger database (\"\" disables it)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import [options] [book_file...]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "For each book: build a bibid from its metadata, add an entry to the bib\n")
		fmt.Fprintf(os.Stderr, "file, move the book to the master directory named after the bibid and\n")
		fmt.Fprintf(os.Stderr, "append its Kindle clippings to the org file.\n\n")
		fmt.Fprintf(os.Stderr, "Without book files every book in the source directory is imported.\n")
		fmt.Fprintf(os.Stderr, "DRM-protected .azw files are skipped.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.MasterDir == "" {
		return fmt.Errorf("required flag -m not provided")
	}
	cmd.Books = fs.Args()
	return nil
}

func (cmd *ImportCommand) Run() error {
	store, err := openClippings(cmd.cfg.Clippings.Path, cmd.cfg.Clippings.BackupPath, false)
	if err != nil {
		return err
	}

	db, ledger, err := openLedger(cmd.DatabasePath)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	library := newLibrary(cmd.cfg, store, ledger, libraryPaths{
		master:       cmd.MasterDir,
		source:       cmd.SourceDir,
		bib:          cmd.BibFile,
		org:          cmd.OrgFile,
		text:         cmd.TextDir,
		alsoRepeated: cmd.AlsoRepeated,
	})

	ctx := context.Background()
	var results []services.ImportResult
	if len(cmd.Books) == 0 {
		results, err = library.ImportAll(ctx)
		if err != nil {
			return err
		}
	} else {
		for _, book := range cmd.Books {
			result, err := library.Import(ctx, book)
			if err != nil {
				result.Warnings = append(result.Warnings, err.Error())
			}
			results = append(results, result)
		}
	}

	imported := 0
	for _, r := range results {
		fmt.Println(r.SourceFile)
		switch {
		case r.SkipReason != "":
			fmt.Printf("  skipped: %s\n", r.SkipReason)
		case r.MasterFile != "":
			imported++
			fmt.Printf("  -> %s\n", r.MasterFile)
		}
		printWarnings(r.Warnings)
		if r.Clips != nil {
			printBookResult(r.Clips)
		}
	}

	fmt.Printf("\nImported %d of %d books\n", imported, len(results))
	return nil
}

type libraryPaths struct {
	master, source, bib, org, text string
	alsoRepeated                   bool
}

func newLibrary(cfg *config.Config, store *kindle.Store, ledger services.Ledger, paths libraryPaths) *services.Library {
	meta := calibre.NewMetaProvider(cfg.Calibre.EbookMetaBin, cfg.Calibre.Timeout)
	converter := calibre.NewConvertTool(cfg.Calibre.EbookConvertBin, cfg.Calibre.Timeout)

	library := &services.Library{
		SourceDir:    paths.source,
		MasterDir:    paths.master,
		BibFile:      paths.bib,
		AlsoRepeated: paths.alsoRepeated,
		Meta:         meta,
		Converter:    converter,
	}
	if paths.org != "" {
		library.Clipper = &services.Clipper{
			Store:     store,
			Meta:      meta,
			Writer:    exporters.NewOrgWriter(paths.org),
			Converter: converter,
			TextDir:   paths.text,
			Links:     paths.text != "",
			Ledger:    ledger,
			OrgFile:   paths.org,
			DocType:   "book",
		}
	}
	return library
}
