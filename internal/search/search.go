// Package search implements the rotation search: a candidate image is
// rotated through increasing angles and handed to a decoder until one of
// them yields text.
package search

import (
	"context"
	"errors"
	"fmt"
	"image"
	"iter"
	"log/slog"

	"github.com/MeKo-Tech/dmscan/internal/transform"
)

// Default rotation settings.
const (
	DefaultStep  = 10
	DefaultBound = 360
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid rotation configuration")

// Decoder is the capability consumed by the search. An empty string means
// nothing was decoded.
type Decoder interface {
	Decode(ctx context.Context, img image.Image) string
}

// DecoderFunc adapts a plain function to Decoder.
type DecoderFunc func(ctx context.Context, img image.Image) string

// Decode calls f.
func (f DecoderFunc) Decode(ctx context.Context, img image.Image) string { return f(ctx, img) }

// Config holds the angular step and the exclusive upper bound in degrees.
type Config struct {
	Step  int
	Bound int
}

// DefaultConfig returns step 10, bound 360.
func DefaultConfig() Config {
	return Config{Step: DefaultStep, Bound: DefaultBound}
}

// Validate requires 0 < Step < Bound.
func (c Config) Validate() error {
	if c.Step <= 0 {
		return fmt.Errorf("%w: step must be positive, got %d", ErrInvalidConfig, c.Step)
	}
	if c.Bound <= c.Step {
		return fmt.Errorf("%w: bound %d must exceed step %d", ErrInvalidConfig, c.Bound, c.Step)
	}
	return nil
}

// Outcome reports the result of a search. Angle is meaningful only when
// Found is true.
type Outcome struct {
	Found    bool
	Angle    int
	Text     string
	Attempts int
}

// Angles yields step, 2*step, ... strictly below bound. A non-positive step
// yields nothing.
func Angles(step, bound int) iter.Seq[int] {
	return func(yield func(int) bool) {
		if step <= 0 {
			return
		}
		for a := step; a < bound; a += step {
			if !yield(a) {
				return
			}
		}
	}
}

// Candidates yields (angle, rotated image) pairs. Each rotation is computed
// only when the consumer pulls it.
func Candidates(img image.Image, step, bound int) iter.Seq2[int, image.Image] {
	return func(yield func(int, image.Image) bool) {
		for a := range Angles(step, bound) {
			if !yield(a, transform.Rotate(img, float64(a))) {
				return
			}
		}
	}
}

// Search tries every candidate in ascending angle order and stops at the
// first non-empty decode. Running out of angles is not an error; the only
// error returned is a cancelled context.
func Search(ctx context.Context, img image.Image, cfg Config, dec Decoder) (Outcome, error) {
	var out Outcome
	for angle, candidate := range Candidates(img, cfg.Step, cfg.Bound) {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		out.Attempts++
		if text := dec.Decode(ctx, candidate); text != "" {
			out.Found = true
			out.Angle = angle
			out.Text = text
			slog.Debug("Rotation search hit", "angle", angle, "attempts", out.Attempts)
			return out, nil
		}
	}
	slog.Debug("Rotation search exhausted", "step", cfg.Step, "bound", cfg.Bound, "attempts", out.Attempts)
	return out, nil
}

// Direct performs the single unrotated attempt used when rotation is off.
func Direct(ctx context.Context, img image.Image, dec Decoder) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	text := dec.Decode(ctx, img)
	return Outcome{Found: text != "", Text: text, Attempts: 1}, nil
}
