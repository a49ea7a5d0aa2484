package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/orgclips/internal/bibid"
	"github.com/mrlokans/orgclips/internal/calibre"
	"github.com/mrlokans/orgclips/internal/config"
	"github.com/mrlokans/orgclips/internal/services"
)

// DocBibCommand prints a BibTeX entry for each book.
type DocBibCommand struct {
	cfg *config.Config

	DocType string
	Books   []string
}

func NewDocBibCommand(cfg *config.Config) *DocBibCommand {
	return &DocBibCommand{cfg: cfg}
}

func (cmd *DocBibCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("docbib", flag.ExitOnError)

	fs.StringVar(&cmd.DocType, "type", "book", "BibTeX entry type")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s docbib [options] book_file...\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Prints a BibTeX entry, keyed by bibid, built from the metadata\n")
		fmt.Fprintf(os.Stderr, "ebook-meta reports for each book.\n\n")
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
	return nil
}

func (cmd *DocBibCommand) Run() error {
	provider := calibre.NewMetaProvider(cmd.cfg.Calibre.EbookMetaBin, cmd.cfg.Calibre.Timeout)
	ctx := context.Background()

	for _, book := range cmd.Books {
		identity, warnings := services.Identify(ctx, provider, book)
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "%s: %s\n", book, w)
		}

		id := bibid.Generate(identity)
		if id == "" {
			return fmt.Errorf("no bibid for %s", book)
		}
		fmt.Println(bibid.BibString(identity, id, cmd.DocType))
		fmt.Println()
	}
	return nil
}
