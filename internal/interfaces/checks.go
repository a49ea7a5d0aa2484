package interfaces

// Compile-time checks that concrete types satisfy the interfaces the
// pipeline is wired through.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/orgclips/internal/calibre"
	"github.com/mrlokans/orgclips/internal/database"
	"github.com/mrlokans/orgclips/internal/exporters"
	"github.com/mrlokans/orgclips/internal/kindle"
	"github.com/mrlokans/orgclips/internal/scheduler"
	"github.com/mrlokans/orgclips/internal/services"
)

// Parsing
var _ kindle.DateParser = (*kindle.LayoutDateParser)(nil)
var _ kindle.DateParser = kindle.DateParserFunc(nil)

// External tools
var _ calibre.Provider = (*calibre.MetaProvider)(nil)
var _ calibre.Converter = (*calibre.ConvertTool)(nil)
var _ calibre.Runner = calibre.ExecRunner

// Output
var _ exporters.EntryWriter = (*exporters.OrgWriter)(nil)

// Storage
var _ services.Ledger = (*database.Database)(nil)
var _ scheduler.StateStore = (*database.Database)(nil)
