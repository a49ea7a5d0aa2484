package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/orgclips/internal/config"
	"github.com/mrlokans/orgclips/internal/kindle"
)

// TitlesCommand lists the books present in the clippings export.
type TitlesCommand struct {
	ClipsPath  string
	BackupPath string
	NoBackup   bool
	Verbose    bool
}

func NewTitlesCommand(cfg *config.Config) *TitlesCommand {
	return &TitlesCommand{
		ClipsPath:  cfg.Clippings.Path,
		BackupPath: cfg.Clippings.BackupPath,
	}
}

func (cmd *TitlesCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("titles", flag.ExitOnError)

	fs.StringVar(&cmd.ClipsPath, "c", cmd.ClipsPath, "Kindle clippings file")
	fs.StringVar(&cmd.BackupPath, "b", cmd.BackupPath, "Backup copy of the clippings")
	fs.BoolVar(&cmd.NoBackup, "n", false, "Do not back up the clippings file")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Show highlight, note and bookmark counts")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s titles [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Lists the book titles found in the Kindle clippings file.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *TitlesCommand) Run() error {
	store, err := openClippings(cmd.ClipsPath, cmd.BackupPath, cmd.NoBackup)
	if err != nil {
		return err
	}

	for _, title := range store.Titles() {
		if !cmd.Verbose {
			fmt.Println(title)
			continue
		}

		var highlights, notes, bookmarks int
		for _, clip := range store.Clippings(title) {
			switch clip.Kind {
			case kindle.KindHighlight:
				highlights++
				if clip.Note != "" {
					notes++
				}
			case kindle.KindBookmark:
				bookmarks++
			}
		}
		fmt.Printf("%s (%d highlights, %d notes, %d bookmarks)\n", title, highlights, notes, bookmarks)
	}
	return nil
}
