package kindle

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mrlokans/orgclips/internal/apperr"
)

// Location is a position in Kindle location units (not page numbers).
// End is zero for a single point; otherwise Start < End.
type Location struct {
	Start int
	End   int
}

// IsRange reports whether the location spans more than one position.
func (l Location) IsRange() bool {
	return l.End != 0
}

func (l Location) String() string {
	if l.IsRange() {
		return fmt.Sprintf("%d-%d", l.Start, l.End)
	}
	return strconv.Itoa(l.Start)
}

// DecodeLocation parses a Kindle location such as "1411" or "631-32".
// The part after the dash only carries the low-order digits of the end
// position: "631-32" is 631..632 and "1420-21" is 1420..1421.
func DecodeLocation(text string) (Location, error) {
	text = strings.TrimSpace(text)

	head, tail, isRange := strings.Cut(text, "-")
	if !isDigits(head) {
		return Location{}, fmt.Errorf("%w: location %q", apperr.ErrFormat, text)
	}
	start, err := strconv.Atoi(head)
	if err != nil {
		return Location{}, fmt.Errorf("%w: location %q: %v", apperr.ErrFormat, text, err)
	}
	if !isRange {
		return Location{Start: start}, nil
	}

	if !isDigits(tail) || len(tail) > len(head) {
		return Location{}, fmt.Errorf("%w: location range %q", apperr.ErrFormat, text)
	}
	end, err := strconv.Atoi(head[:len(head)-len(tail)] + tail)
	if err != nil {
		return Location{}, fmt.Errorf("%w: location range %q: %v", apperr.ErrFormat, text, err)
	}

	switch {
	case end < start:
		return Location{}, fmt.Errorf("%w: location range %q ends before it starts", apperr.ErrFormat, text)
	case end == start:
		return Location{Start: start}, nil
	}
	return Location{Start: start, End: end}, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
