package vision

import (
	"image"
	"image/color"
	"testing"
)

// fillImage creates a test image filled with a single color.
func fillImage(width, height int, c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// stripedImage creates a test image with alternating vertical bands so
// the gradient filter has edges to find.
func stripedImage(width, height, band int, a, b color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if (x/band)%2 == 0 {
				img.Set(x, y, a)
			} else {
				img.Set(x, y, b)
			}
		}
	}
	return img
}

func TestComputeStatsDimensions(t *testing.T) {
	stats := ComputeStats(fillImage(400, 300, color.RGBA{128, 128, 128, 255}))

	if stats.Width != 400 {
		t.Errorf("Expected width 400, got %d", stats.Width)
	}
	if stats.Height != 300 {
		t.Errorf("Expected height 300, got %d", stats.Height)
	}

	expectedRatio := float64(400) / float64(300)
	if stats.AspectRatio != expectedRatio {
		t.Errorf("Expected aspect ratio %f, got %f", expectedRatio, stats.AspectRatio)
	}
}

func TestComputeStatsBrightness(t *testing.T) {
	// Uniform gray: luma equals the channel value.
	stats := ComputeStats(fillImage(200, 200, color.RGBA{140, 140, 140, 255}))
	if stats.AvgBrightness < 139 || stats.AvgBrightness > 141 {
		t.Errorf("Expected brightness near 140, got %f", stats.AvgBrightness)
	}

	black := ComputeStats(fillImage(100, 100, color.RGBA{0, 0, 0, 255}))
	if black.AvgBrightness != 0 {
		t.Errorf("Expected brightness 0 for all-black image, got %f", black.AvgBrightness)
	}

	white := ComputeStats(fillImage(100, 100, color.RGBA{255, 255, 255, 255}))
	if white.AvgBrightness < 254 {
		t.Errorf("Expected brightness near 255 for all-white image, got %f", white.AvgBrightness)
	}
}

func TestComputeStatsDominance(t *testing.T) {
	green := ComputeStats(fillImage(100, 100, color.RGBA{60, 180, 60, 255}))
	if !green.GreenDominant() {
		t.Error("Expected green-dominant stats for green image")
	}
	if green.GrayDominant() {
		t.Error("Green image should not be gray-dominant")
	}

	blue := ComputeStats(fillImage(100, 100, color.RGBA{100, 120, 220, 255}))
	if !blue.BlueDominant() {
		t.Error("Expected blue-dominant stats for blue image")
	}

	gray := ComputeStats(fillImage(100, 100, color.RGBA{130, 135, 140, 255}))
	if !gray.GrayDominant() {
		t.Error("Expected gray-dominant stats for near-neutral image")
	}
}

func TestComputeStatsEdgeDensity(t *testing.T) {
	flat := ComputeStats(fillImage(200, 200, color.RGBA{128, 128, 128, 255}))
	if flat.EdgeDensity != 0 {
		t.Errorf("Uniform image should have edge density 0, got %f", flat.EdgeDensity)
	}

	striped := ComputeStats(stripedImage(200, 200, 10,
		color.RGBA{20, 20, 20, 255}, color.RGBA{230, 230, 230, 255}))
	if striped.EdgeDensity <= 0 {
		t.Errorf("Striped image should have positive edge density, got %f", striped.EdgeDensity)
	}
	if striped.EdgeDensity > 0.5 {
		t.Errorf("Edge density looks implausibly high: %f", striped.EdgeDensity)
	}
}

func TestComputeStatsSkinRatio(t *testing.T) {
	skin := ComputeStats(fillImage(100, 100, color.RGBA{150, 100, 80, 255}))
	if skin.SkinRatio < 0.99 {
		t.Errorf("Expected skin ratio near 1 for skin-tone image, got %f", skin.SkinRatio)
	}

	sky := ComputeStats(fillImage(100, 100, color.RGBA{100, 150, 240, 255}))
	if sky.SkinRatio != 0 {
		t.Errorf("Expected skin ratio 0 for blue image, got %f", sky.SkinRatio)
	}
}

func TestComputeStatsSampledLargeImage(t *testing.T) {
	// Sampling must not change what the thresholds see on big uploads.
	stats := ComputeStats(fillImage(1920, 1080, color.RGBA{140, 140, 140, 255}))

	if stats.Width != 1920 || stats.Height != 1080 {
		t.Errorf("Unexpected dimensions: %dx%d", stats.Width, stats.Height)
	}
	if stats.AvgBrightness < 139 || stats.AvgBrightness > 141 {
		t.Errorf("Expected brightness near 140, got %f", stats.AvgBrightness)
	}
	if !stats.GrayDominant() {
		t.Error("Expected gray-dominant stats")
	}
}

func BenchmarkComputeStats(b *testing.B) {
	img := stripedImage(1920, 1080, 16,
		color.RGBA{40, 40, 40, 255}, color.RGBA{200, 200, 200, 255})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ComputeStats(img)
	}
}
