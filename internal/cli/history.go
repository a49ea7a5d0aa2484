package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"gorm.io/gorm"

	"github.com/mrlokans/orgclips/internal/config"
	"github.com/mrlokans/orgclips/internal/database"
	"github.com/mrlokans/orgclips/internal/entities"
)

// HistoryCommand prints the ledger of exported books and the state of the
// last watch sync.
type HistoryCommand struct {
	DatabasePath string
	Limit        int
	Bibid        string

	out io.Writer
}

func NewHistoryCommand(cfg *config.Config) *HistoryCommand {
	return &HistoryCommand{DatabasePath: cfg.Database.Path, out: os.Stdout}
}

func (cmd *HistoryCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", cmd.DatabasePath, "Ledger database")
	fs.IntVar(&cmd.Limit, "limit", 20, "Number of books to show (0 for all)")
	fs.StringVar(&cmd.Bibid, "bibid", "", "Show the full record of one book")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s history [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Shows the most recently exported books.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.DatabasePath == "" {
		return fmt.Errorf("required flag -db not provided")
	}
	return nil
}

func (cmd *HistoryCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if cmd.out == nil {
		cmd.out = os.Stdout
	}

	if cmd.Bibid != "" {
		record, err := db.GetImportByBibid(cmd.Bibid)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("no export recorded for %s", cmd.Bibid)
		}
		if err != nil {
			return fmt.Errorf("failed to get import: %w", err)
		}
		printRecord(cmd.out, record)
		return nil
	}

	records, err := db.ListImports(cmd.Limit)
	if err != nil {
		return fmt.Errorf("failed to list imports: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.out, "No books exported yet")
	} else {
		w := tabwriter.NewWriter(cmd.out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "UPDATED\tBIBID\tADDED\tTOTAL\tRUNS\tWARNINGS")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n",
				r.UpdatedAt.Local().Format("2006-01-02 15:04"), r.Bibid,
				r.HighlightsAdded, r.TotalHighlights, r.Runs, r.Warnings)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if status := db.GetSettingValue(entities.SettingKeyWatchLastStatus); status != "" {
		fmt.Fprintf(cmd.out, "\nLast watch sync: %s at %s: %s\n",
			status,
			db.GetSettingValue(entities.SettingKeyWatchLastAt),
			db.GetSettingValue(entities.SettingKeyWatchLastMessage))
	}
	return nil
}

func printRecord(out io.Writer, r *entities.ImportRecord) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Bibid:\t%s\n", r.Bibid)
	fmt.Fprintf(w, "Title:\t%s\n", r.Title)
	fmt.Fprintf(w, "Authors:\t%s\n", r.Authors)
	if r.Year != 0 {
		fmt.Fprintf(w, "Year:\t%d\n", r.Year)
	}
	fmt.Fprintf(w, "Book file:\t%s\n", r.BookFile)
	fmt.Fprintf(w, "Org file:\t%s\n", r.OrgFile)
	fmt.Fprintf(w, "Clippings title:\t%s\n", r.ClippingsTitle)
	fmt.Fprintf(w, "Highlights:\t%d added, %d in clippings\n", r.HighlightsAdded, r.TotalHighlights)
	fmt.Fprintf(w, "Runs:\t%d\n", r.Runs)
	fmt.Fprintf(w, "First export:\t%s\n", r.CreatedAt.Local().Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "Last export:\t%s\n", r.UpdatedAt.Local().Format("2006-01-02 15:04"))
	if r.Warnings != "" {
		fmt.Fprintf(w, "Warnings:\t%s\n", strings.ReplaceAll(r.Warnings, "; ", "\n\t"))
	}
	w.Flush()
}
