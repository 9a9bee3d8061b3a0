package vision

import (
	"image"
)

// Stats holds the coarse per-image statistics the classifier works from.
// Everything is computed in a single pass over (a sampled grid of) the
// pixels plus one neighbor lookup per sample for the gradient.
type Stats struct {
	Width       int
	Height      int
	AspectRatio float64

	// Mean grayscale intensity on a 0-255 scale.
	AvgBrightness float64

	// Per-channel means, 0-255.
	RAvg float64
	GAvg float64
	BAvg float64

	// Fraction of sampled pixels whose local intensity gradient exceeds
	// the edge threshold.
	EdgeDensity float64

	// Fraction of sampled pixels inside the skin-tone color ranges.
	SkinRatio float64
}

// GreenDominant reports whether green is the strongest channel.
func (s Stats) GreenDominant() bool {
	return s.GAvg > s.RAvg && s.GAvg > s.BAvg
}

// BlueDominant reports whether blue is the strongest channel.
func (s Stats) BlueDominant() bool {
	return s.BAvg > s.RAvg && s.BAvg > s.GAvg
}

// GrayDominant reports whether the channel means are close enough to each
// other that the image reads as desaturated (asphalt, concrete, overcast).
func (s Stats) GrayDominant() bool {
	return abs(s.RAvg-s.GAvg) < 20 && abs(s.GAvg-s.BAvg) < 20
}

// edgeThreshold is the fixed gradient cutoff above which a pixel counts
// as an edge, on the 0-255 intensity scale.
const edgeThreshold = 50

// maxStatsSide caps the sampling grid so statistics stay cheap on large
// uploads without changing the thresholds they feed.
const maxStatsSide = 256

// ComputeStats derives the summary statistics for an image. The image
// must have a positive area; degenerate buffers are rejected by the
// decoding layer before they reach this point.
func ComputeStats(img image.Image) Stats {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	stepX, stepY := 1, 1
	if width > maxStatsSide {
		stepX = width / maxStatsSide
	}
	if height > maxStatsSide {
		stepY = height / maxStatsSide
	}

	gray := make([][]float64, 0, height/stepY+1)
	var rSum, gSum, bSum float64
	var skinCount, sampleCount int

	for y := bounds.Min.Y; y < bounds.Max.Y; y += stepY {
		row := make([]float64, 0, width/stepX+1)
		for x := bounds.Min.X; x < bounds.Max.X; x += stepX {
			r16, g16, b16, _ := img.At(x, y).RGBA()
			r := float64(r16 >> 8)
			g := float64(g16 >> 8)
			b := float64(b16 >> 8)

			rSum += r
			gSum += g
			bSum += b
			if r > 80 && r < 200 && g > 60 && g < 150 && b > 40 && b < 120 {
				skinCount++
			}
			sampleCount++

			// ITU-R BT.601 luma, same scale PIL uses for mode "L".
			row = append(row, 0.299*r+0.587*g+0.114*b)
		}
		gray = append(gray, row)
	}

	stats := Stats{
		Width:       width,
		Height:      height,
		AspectRatio: float64(width) / float64(height),
	}
	if sampleCount == 0 {
		return stats
	}

	n := float64(sampleCount)
	stats.RAvg = rSum / n
	stats.GAvg = gSum / n
	stats.BAvg = bSum / n
	stats.AvgBrightness = (0.299*rSum + 0.587*gSum + 0.114*bSum) / n
	stats.SkinRatio = float64(skinCount) / n
	stats.EdgeDensity = edgeDensity(gray)

	return stats
}

// edgeDensity counts grid cells whose horizontal or vertical intensity
// difference against the previous cell exceeds the fixed threshold.
func edgeDensity(gray [][]float64) float64 {
	rows := len(gray)
	if rows < 2 {
		return 0
	}
	cols := len(gray[0])
	if cols < 2 {
		return 0
	}

	edges := 0
	for y := 1; y < rows; y++ {
		for x := 1; x < cols && x < len(gray[y]); x++ {
			dx := abs(gray[y][x] - gray[y][x-1])
			dy := abs(gray[y][x] - gray[y-1][x])
			if dx > edgeThreshold || dy > edgeThreshold {
				edges++
			}
		}
	}
	return float64(edges) / float64(rows*cols)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
