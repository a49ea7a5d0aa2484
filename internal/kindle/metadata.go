package kindle

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind of a clipping entry
type Kind string

const (
	KindHighlight Kind = "highlight"
	KindNote      Kind = "note"
	KindBookmark  Kind = "bookmark"
)

// Metadata is what the second line of a clipping tells about it.
type Metadata struct {
	Kind     Kind
	Page     *int
	Location *Location
	AddedAt  *time.Time
}

const addedOnMarker = "Added on "

var (
	// "- Highlight Loc. 631-32  | Added on Tuesday, June 05, 2012, 11:43 PM"
	// "- Your Highlight on page 122 | Location 2184-2188 | Added on ..."
	kindPattern = regexp.MustCompile(`- (?:Your )?(Highlight|Note|Bookmark)`)

	metaPagePattern     = regexp.MustCompile(`[Pp]age (\d+)`)
	metaLocationPattern = regexp.MustCompile(`(?:Loc\.|Location) (\d+(?:-\d+)?)`)
)

// ParseMetadata classifies a clipping header line. It returns nil without
// an error when the line names no known kind, and an apperr.ErrFormat error
// when a location token is malformed. A date the parser cannot read leaves
// AddedAt empty.
func ParseMetadata(line string, dates DateParser) (*Metadata, error) {
	kind, ok := detectKind(line)
	if !ok {
		return nil, nil
	}

	meta := &Metadata{Kind: kind}
	segments := strings.Split(line, "|")

	if m := metaPagePattern.FindStringSubmatch(segments[0]); m != nil {
		if page, err := strconv.Atoi(m[1]); err == nil {
			meta.Page = &page
		}
	}

	if len(segments) >= 2 {
		if m := metaLocationPattern.FindStringSubmatch(segments[len(segments)-2]); m != nil {
			loc, err := DecodeLocation(m[1])
			if err != nil {
				return nil, fmt.Errorf("metadata line %q: %w", line, err)
			}
			meta.Location = &loc
		}
	}

	last := segments[len(segments)-1]
	if idx := strings.Index(last, addedOnMarker); idx >= 0 && dates != nil {
		if t, ok := dates.ParseDate(last[idx+len(addedOnMarker):]); ok {
			meta.AddedAt = &t
		}
	}

	return meta, nil
}

func detectKind(line string) (Kind, bool) {
	found := map[string]bool{}
	for _, m := range kindPattern.FindAllStringSubmatch(line, -1) {
		found[m[1]] = true
	}
	switch {
	case found["Highlight"]:
		return KindHighlight, true
	case found["Note"]:
		return KindNote, true
	case found["Bookmark"]:
		return KindBookmark, true
	}
	return "", false
}
