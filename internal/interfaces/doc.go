// Package interfaces lists the extension points of the clippings pipeline
// and checks at compile time that the shipped implementations satisfy them.
//
//   - kindle.DateParser: turns "Added on" text into a timestamp
//     (internal/kindle/dates.go)
//   - calibre.Provider: book metadata lookup (internal/calibre/meta.go)
//   - calibre.Converter: e-book format conversion (internal/calibre/convert.go)
//   - exporters.EntryWriter: where rendered book entries go and what they
//     already contain (internal/exporters/generic.go)
//   - services.Ledger: record of exported books (internal/services/interfaces.go)
//   - scheduler.StateStore: watch sync state (internal/scheduler/watch.go)
//
// Tests substitute fakes for each of these; see services_test.go and
// watch_test.go.
package interfaces
