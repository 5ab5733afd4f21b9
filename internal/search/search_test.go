package search

import (
	"context"
	"image"
	"image/color"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, 9, 7))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 3)
	}
	return img
}

// countingDecoder succeeds on the hitAt-th call (1-based); 0 never succeeds.
type countingDecoder struct {
	calls int
	hitAt int
	sizes []image.Point
}

func (d *countingDecoder) Decode(_ context.Context, img image.Image) string {
	d.calls++
	d.sizes = append(d.sizes, img.Bounds().Size())
	if d.hitAt > 0 && d.calls == d.hitAt {
		return "HIT"
	}
	return ""
}

func TestAngles(t *testing.T) {
	tests := []struct {
		step, bound int
		want        []int
	}{
		{10, 50, []int{10, 20, 30, 40}},
		{10, 41, []int{10, 20, 30, 40}},
		{90, 360, []int{90, 180, 270}},
		{7, 7, nil},
		{10, 5, nil},
		{0, 360, nil},
		{-5, 360, nil},
	}
	for _, tt := range tests {
		got := slices.Collect(Angles(tt.step, tt.bound))
		assert.Equal(t, tt.want, got, "step=%d bound=%d", tt.step, tt.bound)
	}
}

func TestAnglesCount(t *testing.T) {
	for _, tt := range []struct{ step, bound int }{{10, 360}, {1, 360}, {7, 100}, {45, 361}} {
		n := len(slices.Collect(Angles(tt.step, tt.bound)))
		assert.Equal(t, (tt.bound-1)/tt.step, n)
	}
}

func TestCandidatesAreLazyAndSameSize(t *testing.T) {
	img := testImage()
	var angles []int
	for a, c := range Candidates(img, 30, 360) {
		assert.Equal(t, img.Bounds().Size(), c.Bounds().Size())
		angles = append(angles, a)
		if a == 60 {
			break
		}
	}
	assert.Equal(t, []int{30, 60}, angles)
}

func TestSearchExhausts(t *testing.T) {
	dec := &countingDecoder{}
	out, err := Search(context.Background(), testImage(), DefaultConfig(), dec)

	require.NoError(t, err)
	assert.False(t, out.Found)
	assert.Equal(t, 35, out.Attempts)
	assert.Equal(t, 35, dec.calls)
	assert.Empty(t, out.Text)
}

func TestSearchStopsAtFirstHit(t *testing.T) {
	dec := &countingDecoder{hitAt: 13}
	out, err := Search(context.Background(), testImage(), DefaultConfig(), dec)

	require.NoError(t, err)
	assert.True(t, out.Found)
	assert.Equal(t, 130, out.Angle)
	assert.Equal(t, "HIT", out.Text)
	assert.Equal(t, 13, out.Attempts)
	assert.Equal(t, 13, dec.calls)
}

func TestSearchDegenerateConfigMakesNoAttempts(t *testing.T) {
	dec := &countingDecoder{hitAt: 1}
	out, err := Search(context.Background(), testImage(), Config{Step: 10, Bound: 10}, dec)

	require.NoError(t, err)
	assert.False(t, out.Found)
	assert.Zero(t, out.Attempts)
	assert.Zero(t, dec.calls)
}

func TestSearchHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	dec := DecoderFunc(func(context.Context, image.Image) string {
		cancel()
		return ""
	})

	out, err := Search(ctx, testImage(), DefaultConfig(), dec)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, out.Attempts)
}

func TestSearchNeverTriesUnrotatedImage(t *testing.T) {
	// An asymmetric image whose first decode sees the original pixels would
	// mean angle 0 was tried.
	img := image.NewGray(image.Rect(0, 0, 21, 21))
	img.SetGray(18, 10, color.Gray{Y: 255})

	var first image.Image
	dec := DecoderFunc(func(_ context.Context, c image.Image) string {
		if first == nil {
			first = c
		}
		return ""
	})
	_, err := Search(context.Background(), img, Config{Step: 90, Bound: 360}, dec)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.NotEqual(t, img.Pix, first.(*image.Gray).Pix)
}

func TestDirect(t *testing.T) {
	dec := &countingDecoder{hitAt: 1}
	out, err := Direct(context.Background(), testImage(), dec)

	require.NoError(t, err)
	assert.True(t, out.Found)
	assert.Zero(t, out.Angle)
	assert.Equal(t, 1, out.Attempts)

	out, err = Direct(context.Background(), testImage(), &countingDecoder{})
	require.NoError(t, err)
	assert.False(t, out.Found)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.ErrorIs(t, Config{Step: 0, Bound: 360}.Validate(), ErrInvalidConfig)
	assert.ErrorIs(t, Config{Step: 10, Bound: 10}.Validate(), ErrInvalidConfig)
}

func BenchmarkSearchExhausted(b *testing.B) {
	img := image.NewGray(image.Rect(0, 0, 128, 128))
	dec := DecoderFunc(func(context.Context, image.Image) string { return "" })
	ctx := context.Background()

	b.ResetTimer()
	for range b.N {
		_, _ = Search(ctx, img, DefaultConfig(), dec)
	}
}
