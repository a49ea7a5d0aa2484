package config

import "github.com/mrlokans/orgclips/internal/kindle"

const (
	// DefaultDatabasePath is the default path for the import ledger
	DefaultDatabasePath = "./orgclips.db"

	// DefaultClippingsPath is where a mounted Kindle exposes its clippings
	DefaultClippingsPath = kindle.DefaultClippingsPath

	// DefaultBackupPath keeps a copy of the last clippings file seen
	DefaultBackupPath = "kindle-clippings.txt"

	// DefaultWatchSchedule runs the watch sync every 15 minutes
	DefaultWatchSchedule = "*/15 * * * *"
)
