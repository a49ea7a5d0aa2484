package calibre

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mrlokans/orgclips/internal/apperr"
	"github.com/mrlokans/orgclips/internal/utils"
)

// Converter produces another rendition of a book file.
type Converter interface {
	Convert(ctx context.Context, src, dst string) error
}

// ConvertTool shells out to ebook-convert; the target format follows from
// the extension of dst.
type ConvertTool struct {
	Bin     string
	Timeout time.Duration
	Run     Runner
}

func NewConvertTool(bin string, timeout time.Duration) *ConvertTool {
	if bin == "" {
		bin = "ebook-convert"
	}
	return &ConvertTool{Bin: bin, Timeout: timeout, Run: ExecRunner}
}

// Convert leaves an existing dst alone. PDF sources cannot be converted to
// text reliably and are refused.
func (c *ConvertTool) Convert(ctx context.Context, src, dst string) error {
	if strings.EqualFold(filepath.Ext(src), ".pdf") && strings.EqualFold(filepath.Ext(dst), ".txt") {
		return fmt.Errorf("%w: no text rendition for pdf %s", apperr.ErrCollaborator, src)
	}
	if utils.FileExists(dst) {
		return nil
	}
	if dir := filepath.Dir(dst); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w: create directory %s: %v", apperr.ErrIO, dir, err)
		}
	}

	ctx, cancel := withTimeout(ctx, c.Timeout)
	defer cancel()

	run := c.Run
	if run == nil {
		run = ExecRunner
	}
	log.Printf("ebook-convert: %s -> %s", src, dst)
	if _, err := run(ctx, c.Bin, src, dst); err != nil {
		return fmt.Errorf("converting %s (maybe DRMed book?): %w", src, err)
	}
	return nil
}
