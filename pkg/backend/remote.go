package backend

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Prathmesh2931/vision-processing-microservice/pkg/detection"
	"github.com/Prathmesh2931/vision-processing-microservice/pkg/processing"
	"github.com/Prathmesh2931/vision-processing-microservice/pkg/types"
)

// EngineRemote is the engine name of the external HTTP detection API.
const EngineRemote = "remote-api"

const remoteTimeout = 30 * time.Second

// RemoteBackend forwards inference to an external detection service.
// The startup probe only proves reachability; unlike its ancestor this
// backend is then actually used in the request path.
type RemoteBackend struct {
	client    *resty.Client
	processor *processing.Processor
}

// NewRemote probes the remote detection API and returns a backend bound
// to it. A missing URL or failing health check yields ErrUnavailable.
func NewRemote(ctx context.Context, baseURL string) (*RemoteBackend, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: remote inference not configured", ErrUnavailable)
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(remoteTimeout)

	resp, err := client.R().
		SetContext(ctx).
		Get("/health")
	if err != nil {
		return nil, fmt.Errorf("%w: remote API unreachable: %v", ErrUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: remote API unhealthy: %s", ErrUnavailable, resp.Status())
	}

	return &RemoteBackend{
		client:    client,
		processor: processing.NewProcessor(),
	}, nil
}

// Name implements Backend.
func (r *RemoteBackend) Name() string { return EngineRemote }

// remoteDetection mirrors one entry of the remote service's reply.
type remoteDetection struct {
	Label      string  `json:"label"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	BBox       *[4]int `json:"bbox"`
}

// remoteResponse is the reply envelope of the remote /detect endpoint.
type remoteResponse struct {
	Detections []remoteDetection `json:"detections"`
}

// Detect implements Backend by POSTing the image as multipart form data
// and mapping the reply into the canonical detection list.
func (r *RemoteBackend) Detect(ctx context.Context, img image.Image) ([]types.Detection, error) {
	payload, err := r.processor.EncodeJPEG(img)
	if err != nil {
		return nil, err
	}

	var result remoteResponse
	resp, err := r.client.R().
		SetContext(ctx).
		SetFileReader("image", "image.jpg", bytes.NewReader(payload)).
		SetResult(&result).
		Post("/detect")
	if err != nil {
		return nil, fmt.Errorf("remote inference request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("remote inference failed with status %s", resp.Status())
	}

	dets := make([]types.Detection, 0, len(result.Detections))
	for _, rd := range result.Detections {
		label := rd.Label
		if label == "" {
			label = rd.Name
		}
		d := types.Detection{Label: label, Confidence: rd.Confidence}
		if rd.BBox != nil {
			d.BBox = &types.BBox{
				X:      rd.BBox[0],
				Y:      rd.BBox[1],
				Width:  rd.BBox[2],
				Height: rd.BBox[3],
			}
		}
		dets = append(dets, d)
	}
	return detection.Normalize(dets), nil
}
