package pipeline

import (
	"fmt"
	"image"
	"strings"

	"github.com/MeKo-Tech/dmscan/internal/transform"
)

// Kind identifies one preprocessing operation.
type Kind int

// Kinds in canonical execution order.
const (
	KindResize Kind = iota
	KindGrayscale
	KindMedian
	KindGaussian
	KindHistEq
	KindThreshold
	KindCLAHE
	KindSharpen
	KindDilate
	KindErode
	KindAdaptiveThreshold
	KindContrast

	numKinds
)

// stepDef is one row of the canonical step table.
type stepDef struct {
	kind  Kind
	key   string // configuration key
	label string // tag label
	build func(Params) transform.Transform
}

// canonical is the single source of truth for step order. Compose walks it
// top to bottom no matter how the configuration was assembled.
var canonical = [numKinds]stepDef{
	{KindResize, "resize", "RESIZE", func(p Params) transform.Transform {
		return func(img image.Image) image.Image { return transform.Resize(img, p.ResizeScale) }
	}},
	{KindGrayscale, "grayscale", "GRAY", func(Params) transform.Transform {
		return transform.Grayscale
	}},
	{KindMedian, "median", "MEDIAN", func(p Params) transform.Transform {
		return func(img image.Image) image.Image { return transform.MedianBlur(img, p.MedianKernel) }
	}},
	{KindGaussian, "gaussian", "GAUSSIAN", func(p Params) transform.Transform {
		return func(img image.Image) image.Image { return transform.GaussianBlur(img, p.GaussianKernel, p.GaussianSigma) }
	}},
	{KindHistEq, "hist_eq", "HIST-EQ", func(Params) transform.Transform {
		return transform.EqualizeHist
	}},
	{KindThreshold, "threshold", "SIMPLE-THRESH", func(p Params) transform.Transform {
		return func(img image.Image) image.Image { return transform.Threshold(img, p.Threshold) }
	}},
	{KindCLAHE, "clahe", "CLAHE", func(p Params) transform.Transform {
		return func(img image.Image) image.Image { return transform.CLAHE(img, p.CLAHEClipLimit, p.CLAHETiles) }
	}},
	{KindSharpen, "sharpen", "SHARPEN", func(Params) transform.Transform {
		return transform.Sharpen
	}},
	{KindDilate, "dilate", "DILATE", func(p Params) transform.Transform {
		return func(img image.Image) image.Image { return transform.Dilate(img, p.DilateKernel) }
	}},
	{KindErode, "erode", "ERODE", func(p Params) transform.Transform {
		return func(img image.Image) image.Image { return transform.Erode(img, p.ErodeKernel) }
	}},
	{KindAdaptiveThreshold, "adaptive_threshold", "ADAPT-THRESH", func(p Params) transform.Transform {
		return func(img image.Image) image.Image {
			return transform.AdaptiveThreshold(img, p.AdaptiveBlockSize, p.AdaptiveC)
		}
	}},
	{KindContrast, "contrast", "CONTRAST", func(p Params) transform.Transform {
		return func(img image.Image) image.Image { return transform.Contrast(img, p.ContrastAlpha, p.ContrastBeta) }
	}},
}

// Kinds returns every kind in canonical order.
func Kinds() []Kind {
	out := make([]Kind, 0, numKinds)
	for _, d := range canonical {
		out = append(out, d.kind)
	}
	return out
}

// String returns the configuration key of the kind.
func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return canonical[k].key
}

// Label returns the tag label recorded when the step runs.
func (k Kind) Label() string {
	if k < 0 || k >= numKinds {
		return "UNKNOWN"
	}
	return canonical[k].label
}

// ParseKind resolves a configuration key (case-insensitive, dashes allowed).
func ParseKind(s string) (Kind, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for _, d := range canonical {
		if d.key == key {
			return d.kind, nil
		}
	}
	return 0, fmt.Errorf("unknown preprocessing step %q", s)
}

// Step is one entry of a configured pipeline.
type Step struct {
	Kind    Kind
	Enabled bool
	Apply   transform.Transform
}
