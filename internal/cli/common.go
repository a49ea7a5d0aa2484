package cli

import (
	"fmt"
	"path/filepath"

	"github.com/mrlokans/orgclips/internal/database"
	"github.com/mrlokans/orgclips/internal/kindle"
	"github.com/mrlokans/orgclips/internal/services"
)

// openClippings parses the clippings export, falling back to the backup
// copy. With noBackup the backup is neither refreshed nor read.
func openClippings(path, backup string, noBackup bool) (*kindle.Store, error) {
	if noBackup {
		backup = ""
	}

	store, source, err := kindle.NewParser(nil).Open(path, backup)
	if err != nil {
		return nil, fmt.Errorf("failed to read clippings: %w", err)
	}
	if source == "" {
		fmt.Println("No clippings file found")
	} else {
		fmt.Printf("Clippings: %s (%d books)\n", source, store.Len())
	}
	return store, nil
}

// openLedger opens the database at path; "" disables the ledger.
func openLedger(path string) (*database.Database, services.Ledger, error) {
	if path == "" {
		return nil, nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get absolute path for database: %w", err)
	}
	db, err := database.NewDatabase(absPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return db, db, nil
}

func printWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Printf("    [WARN] %s\n", w)
	}
}

func printBookResult(r *services.BookResult) {
	fmt.Printf("  -> %s: %d new highlights, %d already present\n", r.Bibid, r.HighlightsRendered, r.HighlightsSkipped)
	if r.TextFile != "" {
		fmt.Printf("     text: %s\n", r.TextFile)
	}
	printWarnings(r.Warnings)
}
