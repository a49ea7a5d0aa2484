// Package database provides the local SQLite ledger of processed books.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── imports/         # One row per exported book, keyed by bibid
//	└── settings/        # Key/value state of the watch sync
//
// # Usage
//
//	db, err := database.NewDatabase("./orgclips.db")
//	ledger := imports.NewRepository(db.DB)
//	record, err := ledger.GetByBibid("cialdini-2011---influence")
//
// The Database struct also exposes the ledger and settings operations
// directly, delegating to the sub-packages.
package database
