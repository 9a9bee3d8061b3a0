// Package backend holds the pluggable detection engines and the
// startup-time selection between them. A backend is either a real
// inference engine (local ONNX model, Ollama vision model, remote
// detection API) or absent, in which case the caller uses the heuristic
// scene classifier.
package backend

import (
	"context"
	"errors"
	"image"

	"github.com/Prathmesh2931/vision-processing-microservice/pkg/types"
)

// ErrUnavailable is returned by constructors and probes when a candidate
// engine cannot be used in this environment. Selection treats it as a
// normal miss and moves to the next candidate.
var ErrUnavailable = errors.New("backend unavailable")

// Backend is a detection engine usable in the request path.
type Backend interface {
	// Name identifies the engine in responses and logs.
	Name() string
	// Detect runs inference on a decoded image and returns raw
	// detections. Implementations honor ctx cancellation.
	Detect(ctx context.Context, img image.Image) ([]types.Detection, error)
}

// Selection is the explicit result of the startup fallback chain. It is
// passed to request handlers instead of being read from process globals.
// Backend is nil exactly when Real is false: the heuristic classifier
// takes over.
type Selection struct {
	Backend Backend
	Engine  string
	Real    bool
}

// EngineMock is the engine name reported when no real backend loaded.
const EngineMock = "smart-mock"

// HeuristicSelection is the unconditional last resort.
func HeuristicSelection() Selection {
	return Selection{Backend: nil, Engine: EngineMock, Real: false}
}
