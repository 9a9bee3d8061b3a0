package visionprocessing

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"testing"

	"github.com/Prathmesh2931/vision-processing-microservice/pkg/vision"
)

// createTestImage creates a flat-color test image
func createTestImage(width, height int, c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestNew(t *testing.T) {
	a := New()
	if a == nil {
		t.Fatal("New() returned nil")
	}
	if a.classifier == nil {
		t.Error("classifier component is nil")
	}
	if a.processor == nil {
		t.Error("processor component is nil")
	}
}

func TestAnalyze(t *testing.T) {
	img := createTestImage(1920, 1080, color.RGBA{140, 140, 140, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}

	result, err := New().Analyze(buf.Bytes())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if result.Stats.Width != 1920 || result.Stats.Height != 1080 {
		t.Errorf("Unexpected dimensions %dx%d", result.Stats.Width, result.Stats.Height)
	}
	if len(result.Detections) == 0 {
		t.Error("Expected detections for a highway-like scene")
	}
	if len(result.Detections) > 6 {
		t.Errorf("Expected at most 6 detections, got %d", len(result.Detections))
	}
}

func TestAnalyzeRejectsGarbage(t *testing.T) {
	if _, err := New().Analyze([]byte("not an image")); err == nil {
		t.Error("Expected an error for non-image bytes")
	}
}

func TestAnalyzeReader(t *testing.T) {
	img := createTestImage(400, 600, color.RGBA{150, 100, 80, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}

	result, err := New().AnalyzeReader(&buf)
	if err != nil {
		t.Fatalf("AnalyzeReader failed: %v", err)
	}

	found := false
	for _, d := range result.Detections {
		if d.Label == "person" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a person in a portrait-shaped scene, got %v", result.Detections)
	}
}

func TestNewWithClassifierIsDeterministic(t *testing.T) {
	img := createTestImage(640, 480, color.RGBA{120, 90, 60, 255})

	first := NewWithClassifier(vision.NewWithRand(
		vision.DefaultClassifierConfig(), rand.New(rand.NewSource(7)))).AnalyzeImage(img)
	second := NewWithClassifier(vision.NewWithRand(
		vision.DefaultClassifierConfig(), rand.New(rand.NewSource(7)))).AnalyzeImage(img)

	if len(first.Detections) != len(second.Detections) {
		t.Fatalf("Same seed produced different counts: %d vs %d",
			len(first.Detections), len(second.Detections))
	}
	for i := range first.Detections {
		if first.Detections[i] != second.Detections[i] {
			t.Errorf("Detection %d differs: %+v vs %+v",
				i, first.Detections[i], second.Detections[i])
		}
	}
}
