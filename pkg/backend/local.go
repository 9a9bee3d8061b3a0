//go:build gocv
// +build gocv

package backend

import (
	"context"
	"fmt"
	"image"
	"os"
	"strings"

	"gocv.io/x/gocv"

	"github.com/Prathmesh2931/vision-processing-microservice/pkg/detection"
	"github.com/Prathmesh2931/vision-processing-microservice/pkg/types"
)

// EngineLocal is the engine name of the packaged ONNX model backend.
const EngineLocal = "local-onnx"

const (
	localInputSize   = 640
	localIouThreshold = 0.45
)

// LocalBackend runs a packaged YOLO-family ONNX model through the OpenCV
// DNN module. It is only available in builds with the gocv tag.
type LocalBackend struct {
	net   gocv.Net
	names []string
}

// NewLocal loads the packaged model. Missing configuration, a missing
// file or a model OpenCV cannot read all yield ErrUnavailable so the
// selector moves on.
func NewLocal(modelPath, namesPath string) (*LocalBackend, error) {
	if modelPath == "" {
		return nil, fmt.Errorf("%w: no packaged model configured", ErrUnavailable)
	}
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("%w: model file missing: %v", ErrUnavailable, err)
	}

	net := gocv.ReadNetFromONNX(modelPath)
	if net.Empty() {
		return nil, fmt.Errorf("%w: failed to load ONNX model %s", ErrUnavailable, modelPath)
	}

	names := cocoNames
	if namesPath != "" {
		loaded, err := readNames(namesPath)
		if err != nil {
			_ = net.Close()
			return nil, fmt.Errorf("failed to read class names: %w", err)
		}
		names = loaded
	}

	return &LocalBackend{net: net, names: names}, nil
}

// Name implements Backend.
func (l *LocalBackend) Name() string { return EngineLocal }

// Close releases the underlying network.
func (l *LocalBackend) Close() error { return l.net.Close() }

// Detect implements Backend.
func (l *LocalBackend) Detect(ctx context.Context, img image.Image) ([]types.Detection, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer mat.Close()

	blob := gocv.BlobFromImage(mat, 1.0/255.0,
		image.Pt(localInputSize, localInputSize),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	l.net.SetInput(blob, "")
	output := l.net.Forward("")
	defer output.Close()

	bounds := img.Bounds()
	dets := l.decode(output, bounds.Dx(), bounds.Dy())
	return detection.Normalize(dets), nil
}

// decode parses a YOLOv8-style output tensor [1, 4+classes, candidates]:
// best class score per candidate, threshold, then NMS.
func (l *LocalBackend) decode(output gocv.Mat, imgW, imgH int) []types.Detection {
	dims := output.Size()
	if len(dims) != 3 {
		return nil
	}
	rows, cols := dims[1], dims[2]
	if rows <= 4 {
		return nil
	}

	m := output.Reshape(1, rows)
	defer m.Close()

	scaleX := float64(imgW) / localInputSize
	scaleY := float64(imgH) / localInputSize

	var boxes []image.Rectangle
	var scores []float32
	var classIDs []int

	for c := 0; c < cols; c++ {
		best := float32(0)
		bestClass := -1
		for k := 4; k < rows; k++ {
			if s := m.GetFloatAt(k, c); s > best {
				best = s
				bestClass = k - 4
			}
		}
		if bestClass < 0 || float64(best) < detection.MinConfidence {
			continue
		}

		cx := float64(m.GetFloatAt(0, c))
		cy := float64(m.GetFloatAt(1, c))
		w := float64(m.GetFloatAt(2, c))
		h := float64(m.GetFloatAt(3, c))

		x0 := int((cx - w/2) * scaleX)
		y0 := int((cy - h/2) * scaleY)
		x1 := int((cx + w/2) * scaleX)
		y1 := int((cy + h/2) * scaleY)

		boxes = append(boxes, image.Rect(x0, y0, x1, y1))
		scores = append(scores, best)
		classIDs = append(classIDs, bestClass)
	}

	keep := gocv.NMSBoxes(boxes, scores, float32(detection.MinConfidence), localIouThreshold)

	dets := make([]types.Detection, 0, len(keep))
	for _, idx := range keep {
		label := "object"
		if classIDs[idx] < len(l.names) {
			label = l.names[classIDs[idx]]
		}
		r := boxes[idx]
		dets = append(dets, types.Detection{
			Label:      label,
			Confidence: float64(scores[idx]),
			BBox: &types.BBox{
				X:      r.Min.X,
				Y:      r.Min.Y,
				Width:  r.Dx(),
				Height: r.Dy(),
			},
		})
	}
	return dets
}

// readNames loads one class name per line, tolerating CRLF endings.
func readNames(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, line := range strings.Split(string(b), "\n") {
		line = strings.TrimRight(line, "\r")
		if line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

// cocoNames are the 80 COCO class names YOLO checkpoints ship with.
var cocoNames = []string{
	"person", "bicycle", "car", "motorcycle", "airplane", "bus", "train",
	"truck", "boat", "traffic light", "fire hydrant", "stop sign",
	"parking meter", "bench", "bird", "cat", "dog", "horse", "sheep",
	"cow", "elephant", "bear", "zebra", "giraffe", "backpack", "umbrella",
	"handbag", "tie", "suitcase", "frisbee", "skis", "snowboard",
	"sports ball", "kite", "baseball bat", "baseball glove", "skateboard",
	"surfboard", "tennis racket", "bottle", "wine glass", "cup", "fork",
	"knife", "spoon", "bowl", "banana", "apple", "sandwich", "orange",
	"broccoli", "carrot", "hot dog", "pizza", "donut", "cake", "chair",
	"couch", "potted plant", "bed", "dining table", "toilet", "tv",
	"laptop", "mouse", "remote", "keyboard", "cell phone", "microwave",
	"oven", "toaster", "sink", "refrigerator", "book", "clock", "vase",
	"scissors", "teddy bear", "hair drier", "toothbrush",
}
