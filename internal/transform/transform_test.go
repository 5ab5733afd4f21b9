package transform

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/dmscan/internal/utils"
)

func uniformGray(w, h int, v uint8) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	for i := range g.Pix {
		g.Pix[i] = v
	}
	return g
}

func uniformColor(w, h int, c color.NRGBA) *image.NRGBA {
	n := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			n.SetNRGBA(x, y, c)
		}
	}
	return n
}

func allTransforms() map[string]Transform {
	return map[string]Transform{
		"resize":   func(i image.Image) image.Image { return Resize(i, 2) },
		"gray":     Grayscale,
		"median":   func(i image.Image) image.Image { return MedianBlur(i, 7) },
		"gaussian": func(i image.Image) image.Image { return GaussianBlur(i, 7, 1.5) },
		"histeq":   EqualizeHist,
		"thresh":   func(i image.Image) image.Image { return Threshold(i, 127) },
		"clahe":    func(i image.Image) image.Image { return CLAHE(i, 2, 8) },
		"sharpen":  Sharpen,
		"dilate":   func(i image.Image) image.Image { return Dilate(i, 3) },
		"erode":    func(i image.Image) image.Image { return Erode(i, 3) },
		"adaptive": func(i image.Image) image.Image { return AdaptiveThreshold(i, 33, 11) },
		"contrast": func(i image.Image) image.Image { return Contrast(i, 2, 0) },
		"rotate":   func(i image.Image) image.Image { return Rotate(i, 30) },
	}
}

func gradientColor(w, h int) *image.NRGBA {
	n := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			n.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 5), B: uint8(x + y), A: 255})
		}
	}
	return n
}

func TestTransformsNeverMutateInput(t *testing.T) {
	for name, fn := range allTransforms() {
		t.Run(name, func(t *testing.T) {
			src := gradientColor(24, 16)
			before := bytes.Clone(src.Pix)
			out := fn(src)
			require.NotNil(t, out)
			assert.Equal(t, before, src.Pix)
			if o, ok := out.(*image.NRGBA); ok {
				assert.NotSame(t, &src.Pix[0], &o.Pix[0])
			}
		})
	}
}

func TestChannelContract(t *testing.T) {
	singleChannel := map[string]bool{"gray": true, "histeq": true, "thresh": true, "clahe": true, "adaptive": true}
	for name, fn := range allTransforms() {
		t.Run(name, func(t *testing.T) {
			colorOut := fn(gradientColor(20, 20))
			grayOut := fn(uniformGray(20, 20, 90))
			assert.Equal(t, 1, utils.Channels(grayOut), "gray input must stay gray")
			if singleChannel[name] {
				assert.Equal(t, 1, utils.Channels(colorOut))
			} else {
				assert.Equal(t, 3, utils.Channels(colorOut))
			}
		})
	}
}

func TestResizeScalesBothAxes(t *testing.T) {
	out := Resize(uniformGray(10, 7, 50), 2)
	assert.Equal(t, image.Rect(0, 0, 20, 14), out.Bounds())

	out = Resize(gradientColor(10, 10), 0.5)
	assert.Equal(t, image.Rect(0, 0, 5, 5), out.Bounds())
}

func TestUniformImagesAreFixedPoints(t *testing.T) {
	src := uniformGray(16, 16, 120)
	for _, fn := range []Transform{
		func(i image.Image) image.Image { return MedianBlur(i, 7) },
		func(i image.Image) image.Image { return GaussianBlur(i, 7, 1.5) },
		Sharpen,
		func(i image.Image) image.Image { return Dilate(i, 3) },
		func(i image.Image) image.Image { return Erode(i, 3) },
		func(i image.Image) image.Image { return Rotate(i, 45) },
	} {
		out := fn(src).(*image.Gray)
		for _, v := range out.Pix {
			require.InDelta(t, 120, int(v), 1)
		}
	}
}

func TestRotateReplicatesBorders(t *testing.T) {
	src := uniformColor(30, 20, color.NRGBA{R: 200, G: 10, B: 60, A: 255})
	out := Rotate(src, 37).(*image.NRGBA)
	assert.Equal(t, src.Bounds(), out.Bounds())
	for y := range 20 {
		for x := range 30 {
			assert.Equal(t, color.NRGBA{R: 200, G: 10, B: 60, A: 255}, out.NRGBAAt(x, y))
		}
	}
}

func TestRotateZeroIsIdentity(t *testing.T) {
	src := gradientColor(9, 5)
	out := Rotate(src, 0).(*image.NRGBA)
	assert.Equal(t, src.Pix, out.Pix)
}

func TestRotateQuarterTurnMovesRightToTop(t *testing.T) {
	src := uniformGray(21, 21, 0)
	src.SetGray(18, 10, color.Gray{Y: 255}) // right of center
	out := Rotate(src, 90).(*image.Gray)
	assert.Greater(t, out.GrayAt(10, 3).Y, uint8(128))
	assert.Less(t, out.GrayAt(18, 10).Y, uint8(128))
}

func TestThreshold(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 3, 1))
	src.Pix = []uint8{127, 128, 10}
	out := Threshold(src, 127).(*image.Gray)
	assert.Equal(t, []uint8{0, 255, 0}, out.Pix)
}

func TestEqualizeHistStretchesTwoLevels(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 2))
	src.Pix = []uint8{100, 100, 110, 110}
	out := EqualizeHist(src).(*image.Gray)
	assert.Equal(t, []uint8{0, 0, 255, 255}, out.Pix)

	flat := EqualizeHist(uniformGray(3, 3, 42)).(*image.Gray)
	for _, v := range flat.Pix {
		assert.Equal(t, uint8(42), v)
	}
}

func TestCLAHEKeepsUniformImageUniform(t *testing.T) {
	out := CLAHE(uniformGray(40, 40, 80), 2, 8).(*image.Gray)
	first := out.Pix[0]
	for _, v := range out.Pix {
		assert.Equal(t, first, v)
	}
}

func TestMedianRemovesSaltNoise(t *testing.T) {
	src := uniformGray(9, 9, 0)
	src.SetGray(4, 4, color.Gray{Y: 255})
	out := MedianBlur(src, 3).(*image.Gray)
	assert.Equal(t, uint8(0), out.GrayAt(4, 4).Y)
}

func TestDilateAndErode(t *testing.T) {
	src := uniformGray(7, 7, 0)
	src.SetGray(3, 3, color.Gray{Y: 255})

	d := Dilate(src, 3).(*image.Gray)
	for y := 2; y <= 4; y++ {
		for x := 2; x <= 4; x++ {
			assert.Equal(t, uint8(255), d.GrayAt(x, y).Y)
		}
	}
	assert.Equal(t, uint8(0), d.GrayAt(1, 1).Y)

	e := Erode(src, 3).(*image.Gray)
	assert.Equal(t, uint8(0), e.GrayAt(3, 3).Y)
}

func TestAdaptiveThresholdUniformIsWhite(t *testing.T) {
	out := AdaptiveThreshold(uniformGray(10, 10, 60), 33, 11).(*image.Gray)
	for _, v := range out.Pix {
		assert.Equal(t, uint8(255), v)
	}
}

func TestContrastSaturates(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 1))
	src.Pix = []uint8{100, 200}
	out := Contrast(src, 2, 0).(*image.Gray)
	assert.Equal(t, []uint8{200, 255}, out.Pix)

	c := Contrast(uniformColor(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 255}), 1.5, 5).(*image.NRGBA)
	assert.Equal(t, color.NRGBA{R: 20, G: 35, B: 50, A: 255}, c.NRGBAAt(0, 0))
}

func TestSigmaForKernel(t *testing.T) {
	assert.InDelta(t, 1.4, SigmaForKernel(7), 1e-9)
	assert.Zero(t, SigmaForKernel(0))
}
