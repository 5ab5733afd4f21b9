// Package batch scans every matching image of a directory and summarizes
// the run.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/MeKo-Tech/dmscan/internal/scan"
)

// Scanner is the per-file capability a batch run needs.
type Scanner interface {
	ScanFile(ctx context.Context, path string) (scan.Result, error)
}

// Config selects the files of a batch run.
type Config struct {
	Dir     string
	Ext     string
	Exclude []string
}

// Run processes the discovered files one after another, writing a header
// and the outcome line of each file to w as soon as it is known. Files that
// cannot be loaded are reported and skipped; they never abort the run.
func Run(ctx context.Context, cfg Config, s Scanner, w io.Writer) (*Summary, error) {
	files, err := Discover(cfg.Dir, cfg.Ext, cfg.Exclude)
	if err != nil {
		return nil, err
	}
	slog.Info("Starting batch", "dir", cfg.Dir, "ext", cfg.Ext, "files", len(files))

	sum := &Summary{}
	start := time.Now()
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		name := filepath.Base(path)
		sum.Total++

		res, err := s.ScanFile(ctx, path)
		if err != nil {
			var le *scan.LoadError
			if !errors.As(err, &le) {
				return sum, err
			}
			slog.Warn("Skipping unreadable image", "file", path, "error", err)
			sum.Failed = append(sum.Failed, name)
			if _, werr := fmt.Fprintf(w, "%s: cannot load image\n", name); werr != nil {
				return sum, werr
			}
			continue
		}

		if _, err := fmt.Fprintf(w, "==== %s ====\n%s\n", name, scan.FormatLine(res)); err != nil {
			return sum, err
		}
		sum.add(name, res)
	}
	sum.Duration = time.Since(start)
	slog.Info("Batch finished", "total", sum.Total, "found", sum.Found, "failed", len(sum.Failed), "duration", sum.Duration)
	return sum, nil
}
