package kindle

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DateParser turns the free-form "Added on" text into a timestamp.
type DateParser interface {
	ParseDate(text string) (time.Time, bool)
}

// DateParserFunc adapts a plain function to DateParser.
type DateParserFunc func(text string) (time.Time, bool)

func (f DateParserFunc) ParseDate(text string) (time.Time, bool) {
	return f(text)
}

// Layouts observed in clippings exports from different firmware versions
// and locales:
// "Tuesday, June 05, 2012, 11:43 PM"
// "Saturday, August 2, 2014 8:16:19 PM"
// "Saturday, 26 March 2016 18:37:26"
var defaultDateLayouts = []string{
	"Monday, January 2, 2006, 3:04 PM",
	"Monday, January 2, 2006, 3:04:05 PM",
	"Monday, January 2, 2006 3:04:05 PM",
	"Monday, January 2, 2006 3:04 PM",
	"Monday, January 2, 2006 15:04:05",
	"Monday, 2 January 2006 3:04:05 PM",
	"Monday, 2 January 2006 15:04:05",
	"Monday, 2 January 2006 15:04",
	"January 2, 2006 3:04:05 PM",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006",
}

// LayoutDateParser tries a list of time layouts in order and hands
// anything they miss to dateparse.
type LayoutDateParser struct {
	Layouts  []string
	Location *time.Location
}

// NewDateParser returns a parser for the layouts Kindle devices emit.
// Timestamps carry no zone, so they are interpreted as UTC.
func NewDateParser() *LayoutDateParser {
	return &LayoutDateParser{
		Layouts:  defaultDateLayouts,
		Location: time.UTC,
	}
}

var (
	meridiemReplacer = strings.NewReplacer("a.m.", "AM", "p.m.", "PM", "A.M.", "AM", "P.M.", "PM")
	weekdayPattern   = regexp.MustCompile(`^(?i:mon|tues|wednes|thurs|fri|satur|sun)day,?\s*`)
)

func (p *LayoutDateParser) ParseDate(text string) (time.Time, bool) {
	text = meridiemReplacer.Replace(strings.Join(strings.Fields(text), " "))
	if text == "" {
		return time.Time{}, false
	}

	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range p.Layouts {
		if t, err := time.ParseInLocation(layout, text, loc); err == nil {
			return t, true
		}
	}

	if t, err := dateparse.ParseIn(weekdayPattern.ReplaceAllString(text, ""), loc); err == nil {
		return t, true
	}
	return time.Time{}, false
}
