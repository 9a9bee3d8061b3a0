// Package visionprocessing provides heuristic scene analysis for images.
//
// The HTTP service in cmd/vision-server is the main consumer, but the
// analysis pipeline is usable on its own:
//
//	package main
//
//	import (
//		"fmt"
//		"log"
//		"os"
//
//		vp "github.com/Prathmesh2931/vision-processing-microservice"
//	)
//
//	func main() {
//		data, err := os.ReadFile("photo.jpg")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		result, err := vp.New().Analyze(data)
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		fmt.Printf("Image: %dx%d (brightness %.0f)\n",
//			result.Stats.Width, result.Stats.Height, result.Stats.AvgBrightness)
//		for _, d := range result.Detections {
//			fmt.Printf("  %s %.3f\n", d.Label, d.Confidence)
//		}
//	}
//
// The pipeline consists of three components:
//
// 1. Processing (pkg/processing): decoding, validation, re-encoding
// 2. Vision (pkg/vision): image statistics and the scene classifier
// 3. Detection (pkg/detection): confidence filtering and dedupe rules
package visionprocessing

import (
	"fmt"
	"image"
	"io"

	"github.com/Prathmesh2931/vision-processing-microservice/pkg/processing"
	"github.com/Prathmesh2931/vision-processing-microservice/pkg/types"
	"github.com/Prathmesh2931/vision-processing-microservice/pkg/vision"
)

// Version of the vision processing library
const Version = "2.0"

// Analyzer provides a high-level interface over the analysis pipeline.
type Analyzer struct {
	classifier *vision.Classifier
	processor  *processing.Processor
}

// New creates an Analyzer with default configuration
func New() *Analyzer {
	return &Analyzer{
		classifier: vision.New(),
		processor:  processing.NewProcessor(),
	}
}

// NewWithClassifier creates an Analyzer around a preconfigured
// classifier, typically one with a pinned random source.
func NewWithClassifier(classifier *vision.Classifier) *Analyzer {
	return &Analyzer{
		classifier: classifier,
		processor:  processing.NewProcessor(),
	}
}

// Result contains the analysis output for one image.
type Result struct {
	Stats      vision.Stats      `json:"stats"`
	Detections []types.Detection `json:"detections"`
}

// Analyze decodes raw image bytes and classifies the scene.
func (a *Analyzer) Analyze(data []byte) (Result, error) {
	img, err := a.processor.Decode(data)
	if err != nil {
		return Result{}, fmt.Errorf("failed to decode image: %w", err)
	}
	return a.AnalyzeImage(img), nil
}

// AnalyzeReader reads and analyzes an image from an io.Reader.
func (a *Analyzer) AnalyzeReader(r io.Reader) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read image: %w", err)
	}
	return a.Analyze(data)
}

// AnalyzeImage classifies an already-decoded image.
func (a *Analyzer) AnalyzeImage(img image.Image) Result {
	stats := vision.ComputeStats(img)
	return Result{
		Stats:      stats,
		Detections: a.classifier.ClassifyStats(stats),
	}
}

// EncodePNGBase64 re-encodes an image the way the service echoes
// uploads back to clients.
func (a *Analyzer) EncodePNGBase64(img image.Image) (string, error) {
	return a.processor.EncodePNGBase64(img)
}
