package exporters

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/mrlokans/orgclips/internal/apperr"
)

var (
	quoteBlockPattern = regexp.MustCompile(`(?is)#\+begin_quote\n(.+?)\n#\+end_quote`)
	customIDPattern   = regexp.MustCompile(`(?im):custom_id:[ \t]+(\S.*?)[ \t]*$`)
)

// Index holds what an org file already contains: the text of every quote
// block and every :Custom_ID: value.
type Index struct {
	Quotes map[string]struct{}
	IDs    map[string]struct{}
}

func NewIndex() Index {
	return Index{
		Quotes: make(map[string]struct{}),
		IDs:    make(map[string]struct{}),
	}
}

func (i Index) HasQuote(text string) bool {
	_, ok := i.Quotes[text]
	return ok
}

func (i Index) HasID(id string) bool {
	_, ok := i.IDs[id]
	return ok
}

// ScanIndex reads an org document and collects its quotes and ids.
func ScanIndex(r io.Reader) (Index, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Index{}, fmt.Errorf("%w: reading org file: %v", apperr.ErrIO, err)
	}
	content := strings.ReplaceAll(string(data), "\r\n", "\n")

	index := NewIndex()
	for _, m := range quoteBlockPattern.FindAllStringSubmatch(content, -1) {
		index.Quotes[m[1]] = struct{}{}
	}
	for _, m := range customIDPattern.FindAllStringSubmatch(content, -1) {
		index.IDs[m[1]] = struct{}{}
	}
	return index, nil
}

// LoadIndex scans the org file at path. A missing file has an empty index.
func LoadIndex(path string) (Index, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return NewIndex(), nil
	}
	if err != nil {
		return Index{}, fmt.Errorf("%w: open org file %s: %v", apperr.ErrIO, path, err)
	}
	defer f.Close()

	return ScanIndex(f)
}
