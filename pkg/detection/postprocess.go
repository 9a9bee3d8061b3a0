// Package detection post-processes raw backend output into the canonical
// detection list: confidence filtering, label normalization, rounding and
// the hard cap on result size.
package detection

import (
	"math"
	"strings"

	"github.com/Prathmesh2931/vision-processing-microservice/pkg/types"
)

// MinConfidence is the fixed threshold below which real-backend results
// are discarded.
const MinConfidence = 0.3

// MaxResults is the hard cap on detections returned to the client.
const MaxResults = 6

// Normalize runs the standard pipeline over raw backend output: drop
// low-confidence entries, clean labels, round confidences, dedupe and
// truncate.
func Normalize(dets []types.Detection) []types.Detection {
	out := FilterByConfidence(dets, MinConfidence)
	for i := range out {
		out[i].Label = NormalizeLabel(out[i].Label)
		out[i].Confidence = Round3(clamp01(out[i].Confidence))
	}
	return Truncate(DedupeByLabel(out), MaxResults)
}

// FilterByConfidence returns the detections at or above min confidence,
// preserving order.
func FilterByConfidence(dets []types.Detection, min float64) []types.Detection {
	out := make([]types.Detection, 0, len(dets))
	for _, d := range dets {
		if d.Confidence >= min {
			out = append(out, d)
		}
	}
	return out
}

// DedupeByLabel removes later detections whose label already appeared,
// keeping the first occurrence.
func DedupeByLabel(dets []types.Detection) []types.Detection {
	seen := make(map[string]struct{}, len(dets))
	out := make([]types.Detection, 0, len(dets))
	for _, d := range dets {
		if _, ok := seen[d.Label]; ok {
			continue
		}
		seen[d.Label] = struct{}{}
		out = append(out, d)
	}
	return out
}

// Truncate caps the list at n entries.
func Truncate(dets []types.Detection, n int) []types.Detection {
	if len(dets) > n {
		return dets[:n]
	}
	return dets
}

// NormalizeLabel lowercases and trims a backend-reported class name.
func NormalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// Round3 rounds a confidence to three decimal places.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
