package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/orgclips/internal/calibre"
	"github.com/mrlokans/orgclips/internal/config"
	"github.com/mrlokans/orgclips/internal/exporters"
	"github.com/mrlokans/orgclips/internal/services"
)

// BookClipsCommand appends the Kindle clippings of the given books to an
// org file.
type BookClipsCommand struct {
	cfg *config.Config

	OrgFile      string
	TextDir      string
	ClipsPath    string
	BackupPath   string
	NoBackup     bool
	Links        bool
	DocType      string
	DatabasePath string
	Books        []string
}

func NewBookClipsCommand(cfg *config.Config) *BookClipsCommand {
	return &BookClipsCommand{cfg: cfg}
}

func (cmd *BookClipsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("bookclips", flag.ExitOnError)

	fs.StringVar(&cmd.OrgFile, "o", cmd.cfg.Org.File, "Org-mode file the clippings are appended to")
	fs.StringVar(&cmd.TextDir, "t", cmd.cfg.Org.TextDir, "Directory for the text version of each book (\"\" disables it)")
	fs.StringVar(&cmd.ClipsPath, "c", cmd.cfg.Clippings.Path, "Kindle clippings file")
	fs.StringVar(&cmd.BackupPath, "b", cmd.cfg.Clippings.BackupPath, "Backup copy of the clippings, read when the clippings file is missing")
	fs.BoolVar(&cmd.NoBackup, "n", false, "Do not back up the clippings file")
	fs.BoolVar(&cmd.Links, "links", false, "Link each highlight to its place in the text version")
	fs.StringVar(&cmd.DocType, "type", "book", "Document type: book or article")
	fs.StringVar(&cmd.DatabasePath, "db", cmd.cfg.Database.Path, "Ledger database (\"\" disables it)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s bookclips [options] book_file...\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Extracts the Kindle clippings of each book and appends the new ones to an\n")
		fmt.Fprintf(os.Stderr, "org-mode file, under a heading carrying the book's metadata and bibid.\n")
		fmt.Fprintf(os.Stderr, "A new org file gets an * Inbox heading.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd.Books = fs.Args()
	if len(cmd.Books) == 0 {
		return fmt.Errorf("no book files given")
	}
	if cmd.OrgFile == "" {
		return fmt.Errorf("required flag -o not provided")
	}
	return nil
}

func (cmd *BookClipsCommand) Run() error {
	store, err := openClippings(cmd.ClipsPath, cmd.BackupPath, cmd.NoBackup)
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

	clipper := &services.Clipper{
		Store:   store,
		Meta:    calibre.NewMetaProvider(cmd.cfg.Calibre.EbookMetaBin, cmd.cfg.Calibre.Timeout),
		Writer:  exporters.NewOrgWriter(cmd.OrgFile),
		TextDir: cmd.TextDir,
		Links:   cmd.Links,
		Ledger:  ledger,
		OrgFile: cmd.OrgFile,
		DocType: cmd.DocType,
	}
	if cmd.TextDir != "" {
		clipper.Converter = calibre.NewConvertTool(cmd.cfg.Calibre.EbookConvertBin, cmd.cfg.Calibre.Timeout)
	}

	ctx := context.Background()
	failed := 0
	for _, book := range cmd.Books {
		fmt.Println(book)
		result, err := clipper.Process(ctx, book)
		if err != nil {
			failed++
			fmt.Printf("    [ERROR] %v\n", err)
			continue
		}
		printBookResult(result)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d books failed", failed, len(cmd.Books))
	}
	return nil
}
