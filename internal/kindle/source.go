package kindle

import (
	"fmt"
	"log"
	"os"

	"github.com/mrlokans/orgclips/internal/apperr"
	"github.com/mrlokans/orgclips/internal/utils"
)

// DefaultClippingsPath is where a mounted Kindle keeps its clippings.
const DefaultClippingsPath = "/Volumes/Kindle/documents/My Clippings.txt"

// Open parses the clippings file at primary, usually on the device, and
// refreshes the backup copy from it. When primary is missing the backup is
// parsed instead; when both are missing the store is empty. It returns the
// path that was actually parsed ("" for none).
func (p *Parser) Open(primary, backup string) (*Store, string, error) {
	source := ""
	switch {
	case primary != "" && utils.FileExists(primary):
		source = primary
		if backup != "" && backup != primary {
			if err := utils.CopyFile(primary, backup); err != nil {
				log.Printf("Kindle parser: warning - failed to back up clippings to %s: %v", backup, err)
			}
		}
	case backup != "" && utils.FileExists(backup):
		source = backup
	default:
		log.Printf("Kindle parser: warning - no clippings file found")
		return NewStore(), "", nil
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, "", fmt.Errorf("%w: open clippings %s: %v", apperr.ErrIO, source, err)
	}
	defer f.Close()

	store, err := p.Parse(f)
	if err != nil {
		return nil, "", err
	}
	return store, source, nil
}
