//go:build !gocv
// +build !gocv

package backend

import (
	"fmt"
)

// EngineLocal is the engine name of the packaged ONNX model backend.
const EngineLocal = "local-onnx"

// NewLocal reports the packaged-model engine as unavailable in builds
// without the gocv tag; the selector falls through to the next candidate.
func NewLocal(modelPath, namesPath string) (Backend, error) {
	_ = modelPath
	_ = namesPath
	return nil, fmt.Errorf("%w: built without gocv support", ErrUnavailable)
}
