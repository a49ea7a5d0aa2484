package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mrlokans/orgclips/internal/config"
	"github.com/mrlokans/orgclips/internal/database"
	"github.com/mrlokans/orgclips/internal/entities"
	"github.com/mrlokans/orgclips/internal/kindle"
	"github.com/mrlokans/orgclips/internal/scheduler"
)

// WatchCommand imports the source directory whenever the Kindle clippings
// change, on the configured cron schedule.
type WatchCommand struct {
	cfg   *config.Config
	Once  bool
	Reset bool
}

func NewWatchCommand(cfg *config.Config) *WatchCommand {
	return &WatchCommand{cfg: cfg}
}

func (cmd *WatchCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)

	fs.BoolVar(&cmd.Once, "once", false, "Run a single sync and exit")
	fs.BoolVar(&cmd.Reset, "reset", false, "Forget the last processed clippings so the next sync always runs")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s watch [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Checks the clippings file on WATCH_SCHEDULE and, when it changed, imports\n")
		fmt.Fprintf(os.Stderr, "SOURCE_DIR into MASTER_DIR and appends new clippings to ORG_FILE.\n")
		fmt.Fprintf(os.Stderr, "Requires WATCH_ENABLED=true unless -once is given.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	return cmd.cfg.ValidateWatch()
}

func (cmd *WatchCommand) Run() error {
	db, err := database.NewDatabase(cmd.cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if cmd.Reset {
		if err := resetWatch(db); err != nil {
			return err
		}
		fmt.Println("Watch state cleared")
	}

	sync := func(ctx context.Context) (string, error) {
		store, _, err := openStore(cmd.cfg)
		if err != nil {
			return "", err
		}
		library := newLibrary(cmd.cfg, store, db, libraryPaths{
			master:       cmd.cfg.Library.MasterDir,
			source:       cmd.cfg.Library.SourceDir,
			bib:          cmd.cfg.Library.BibFile,
			org:          cmd.cfg.Org.File,
			text:         cmd.cfg.Org.TextDir,
			alsoRepeated: cmd.cfg.Watch.AlsoRepeated,
		})
		results, err := library.ImportAll(ctx)
		if err != nil {
			return "", err
		}

		imported, highlights := 0, 0
		for _, r := range results {
			if r.MasterFile != "" {
				imported++
			}
			if r.Clips != nil {
				highlights += r.Clips.HighlightsRendered
			}
		}
		return fmt.Sprintf("Imported %d of %d books, %d new highlights", imported, len(results), highlights), nil
	}

	watch := scheduler.NewWatchScheduler(cmd.cfg.Watch, db, sync, cmd.cfg.Clippings.Path, cmd.cfg.Clippings.BackupPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cmd.Once {
		status := watch.RunNow(ctx)
		fmt.Printf("Watch sync: %s\n", status)
		if status == scheduler.StatusFailed {
			return fmt.Errorf("watch sync failed: %s", db.GetSettingValue(entities.SettingKeyWatchLastMessage))
		}
		return nil
	}

	if err := watch.Start(ctx); err != nil {
		return err
	}
	if !watch.IsRunning() {
		return fmt.Errorf("watch is disabled, set WATCH_ENABLED=true")
	}
	if next := watch.GetNextRunTime(); next != nil {
		fmt.Printf("Watching %s, next check at %s\n", cmd.cfg.Clippings.Path, next.Local().Format("2006-01-02 15:04"))
	}

	<-ctx.Done()
	watch.Stop()
	return nil
}

// resetWatch drops the digest of the last processed clippings file.
func resetWatch(db *database.Database) error {
	if err := db.DeleteSetting(entities.SettingKeyWatchClippingsDigest); err != nil {
		return fmt.Errorf("failed to reset watch state: %w", err)
	}
	return nil
}

func openStore(cfg *config.Config) (*kindle.Store, string, error) {
	return kindle.NewParser(nil).Open(cfg.Clippings.Path, cfg.Clippings.BackupPath)
}
