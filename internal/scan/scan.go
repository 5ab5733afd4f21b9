// Package scan runs one image through preprocessing and the rotation
// search and renders the outcome line.
package scan

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/MeKo-Tech/dmscan/internal/metrics"
	"github.com/MeKo-Tech/dmscan/internal/pipeline"
	"github.com/MeKo-Tech/dmscan/internal/search"
	"github.com/MeKo-Tech/dmscan/internal/utils"
)

// OriginalTag is the first label of every outcome tag.
const OriginalTag = "[ORIGINAL]"

// Observer receives the loaded and the preprocessed buffer of every scanned
// image before the search starts.
type Observer func(name string, original, processed image.Image)

// Options configure a Scanner.
type Options struct {
	Pipeline pipeline.Config
	Rotate   bool
	Search   search.Config
	Decoder  search.Decoder
	Observer Observer
	Metrics  *metrics.Recorder

	// Normalize selects a Unicode normalization form applied to decoded
	// text: "", "nfc", "nfd", "nfkc" or "nfkd".
	Normalize string
}

// LoadError reports an input that could not be opened or decoded. Nothing
// else is attempted for such an input.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string { return fmt.Sprintf("cannot load %s: %v", e.Path, e.Err) }

func (e *LoadError) Unwrap() error { return e.Err }

// Result is the outcome of scanning one image.
type Result struct {
	Path     string        `json:"path"`
	Tag      pipeline.Tag  `json:"tag"`
	Rotated  bool          `json:"rotated"`
	Found    bool          `json:"found"`
	Angle    int           `json:"angle,omitempty"`
	Text     string        `json:"text,omitempty"`
	Attempts int           `json:"attempts"`
	Duration time.Duration `json:"duration_ns"`
}

// Scanner processes images with a fixed configuration.
type Scanner struct {
	opts Options
	form *norm.Form
}

// New validates opts and returns a Scanner.
func New(opts Options) (*Scanner, error) {
	if opts.Decoder == nil {
		return nil, errors.New("scan: decoder is required")
	}
	form, err := parseForm(opts.Normalize)
	if err != nil {
		return nil, err
	}
	if opts.Rotate {
		if err := opts.Search.Validate(); err != nil {
			slog.Warn("Rotation search will make no attempts", "error", err)
		}
	}
	return &Scanner{opts: opts, form: form}, nil
}

func parseForm(s string) (*norm.Form, error) {
	var f norm.Form
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return nil, nil
	case "nfc":
		f = norm.NFC
	case "nfd":
		f = norm.NFD
	case "nfkc":
		f = norm.NFKC
	case "nfkd":
		f = norm.NFKD
	default:
		return nil, fmt.Errorf("scan: unknown normalization form %q", s)
	}
	return &f, nil
}

// ScanFile loads path and scans it. A load failure is returned as a
// *LoadError and is also recorded in the metrics.
func (s *Scanner) ScanFile(ctx context.Context, path string) (Result, error) {
	img, meta, err := utils.LoadImage(path)
	if err != nil {
		s.opts.Metrics.ObserveLoadFailure()
		return Result{Path: path}, &LoadError{Path: path, Err: err}
	}
	slog.Debug("Loaded image", "path", path, "width", meta.Width, "height", meta.Height, "channels", meta.Channels)
	return s.ScanImage(ctx, path, img)
}

// ScanImage preprocesses img and decodes it, either through the rotation
// search or with a single direct attempt. Only context cancellation is
// reported as an error; not finding a symbol is a regular Result.
func (s *Scanner) ScanImage(ctx context.Context, name string, img image.Image) (Result, error) {
	start := time.Now()

	processed, tag := pipeline.Compose(img, s.opts.Pipeline)
	if s.opts.Observer != nil {
		s.opts.Observer(name, img, processed)
	}

	var (
		out search.Outcome
		err error
	)
	if s.opts.Rotate {
		out, err = search.Search(ctx, processed, s.opts.Search, s.opts.Decoder)
	} else {
		out, err = search.Direct(ctx, processed, s.opts.Decoder)
	}
	if err != nil {
		return Result{Path: name, Tag: tag, Rotated: s.opts.Rotate}, err
	}

	text := out.Text
	if s.form != nil {
		text = s.form.String(text)
	}
	res := Result{
		Path:     name,
		Tag:      tag,
		Rotated:  s.opts.Rotate,
		Found:    out.Found,
		Angle:    out.Angle,
		Text:     text,
		Attempts: out.Attempts,
		Duration: time.Since(start),
	}

	s.opts.Metrics.ObserveScan(outcomeLabel(res), res.Attempts, res.Angle, res.Duration)
	slog.Debug("Scanned image", "path", name, "tag", tag.String(), "found", res.Found,
		"angle", res.Angle, "attempts", res.Attempts, "duration", res.Duration)
	return res, nil
}

func outcomeLabel(r Result) string {
	switch {
	case !r.Found:
		return metrics.OutcomeNotFound
	case r.Rotated:
		return metrics.OutcomeRotated
	default:
		return metrics.OutcomeDirect
	}
}

// FormatLine renders the single outcome line of r.
func FormatLine(r Result) string {
	tag := OriginalTag + r.Tag.String()
	switch {
	case r.Rotated && r.Found:
		return fmt.Sprintf("%s[ROTATE %d]: %s", tag, r.Angle, r.Text)
	case r.Rotated:
		return tag + "[ROTATE]: not found"
	case r.Found:
		return tag + ": " + r.Text
	default:
		return tag + ": not found"
	}
}

// PreviewWriter returns an Observer that stores both buffers as PNG files
// named <base>_original.png and <base>_processed.png inside dir.
func PreviewWriter(dir string) Observer {
	return func(name string, original, processed image.Image) {
		base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
		if base == "" {
			base = "image"
		}
		for suffix, img := range map[string]image.Image{"original": original, "processed": processed} {
			path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", base, suffix))
			if err := utils.SavePNG(path, img); err != nil {
				slog.Warn("Failed to write preview", "path", path, "error", err)
			}
		}
	}
}
