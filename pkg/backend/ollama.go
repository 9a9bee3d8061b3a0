package backend

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/Prathmesh2931/vision-processing-microservice/pkg/detection"
	"github.com/Prathmesh2931/vision-processing-microservice/pkg/processing"
	"github.com/Prathmesh2931/vision-processing-microservice/pkg/types"
)

// EngineOllama is the engine name of the hub-model backend.
const EngineOllama = "ollama"

// detectPrompt asks the vision model for machine-readable detections.
const detectPrompt = `You are an object detector.

Return JSON only: an array of detected objects,
[{"label": "string", "confidence": 0.0, "box": {"x": 0.0, "y": 0.0, "w": 0.0, "h": 0.0}}]

HARD RULES
- All coordinates are normalized to [0,1] (NOT pixels).
- confidence is in [0,1].
- Labels: lowercase common nouns, no punctuation.
- At most 10 objects, most confident first.
- If nothing is detected, return [].
- JSON only. No markdown, no code fences, no comments, no trailing commas.`

// OllamaBackend runs detection through a vision model served by a local
// Ollama instance.
type OllamaBackend struct {
	client    *api.Client
	model     string
	processor *processing.Processor
}

// NewOllama probes an Ollama instance for the configured vision model
// and returns a backend bound to it. A missing host, unreachable server
// or absent model all yield ErrUnavailable.
func NewOllama(ctx context.Context, host, model string) (*OllamaBackend, error) {
	if host == "" || model == "" {
		return nil, fmt.Errorf("%w: ollama not configured", ErrUnavailable)
	}

	parsed, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama URL: %w", err)
	}
	base := &url.URL{Scheme: parsed.Scheme, Host: parsed.Host}
	client := api.NewClient(base, http.DefaultClient)

	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	list, err := client.List(probeCtx)
	if err != nil {
		return nil, fmt.Errorf("%w: ollama unreachable: %v", ErrUnavailable, err)
	}

	found := false
	for _, m := range list.Models {
		if m.Name == model || strings.HasPrefix(m.Name, model+":") {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: model %q not present on ollama host", ErrUnavailable, model)
	}

	return &OllamaBackend{
		client:    client,
		model:     model,
		processor: processing.NewProcessor(),
	}, nil
}

// Name implements Backend.
func (o *OllamaBackend) Name() string { return EngineOllama }

// Detect implements Backend. The image is downsized for the model, sent
// through a single chat turn and the JSON reply parsed into detections.
func (o *OllamaBackend) Detect(ctx context.Context, img image.Image) ([]types.Detection, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 120*time.Second)
		defer cancel()
	}

	imgB64, err := o.processor.PrepareForModel(img)
	if err != nil {
		return nil, err
	}
	imgBytes, err := base64.StdEncoding.DecodeString(imgB64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode prepared image: %w", err)
	}

	streamFalse := false
	req := &api.ChatRequest{
		Model: o.model,
		Messages: []api.Message{
			{
				Role:    "user",
				Content: detectPrompt,
				Images:  []api.ImageData{api.ImageData(imgBytes)},
			},
		},
		Stream: &streamFalse,
	}

	var responseContent string
	err = o.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		responseContent = resp.Message.Content
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ollama chat error: %w", err)
	}
	if responseContent == "" {
		return nil, fmt.Errorf("empty response from ollama")
	}

	bounds := img.Bounds()
	dets, err := parseModelDetections(responseContent, bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}
	return detection.Normalize(dets), nil
}

// modelDetection is the wire shape the prompt asks for.
type modelDetection struct {
	Label      string   `json:"label"`
	Confidence float64  `json:"confidence"`
	Box        *normBox `json:"box"`
}

// normBox is a [0,1]-normalized box.
type normBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// parseModelDetections turns the model reply into pixel-space detections.
// Unlike a chat assistant, a detect backend must not guess: anything that
// is not valid JSON is an inference failure surfaced to the caller.
func parseModelDetections(raw string, imgW, imgH int) ([]types.Detection, error) {
	raw = sanitizeModelJSON(raw)
	if !strings.HasPrefix(raw, "[") {
		return nil, fmt.Errorf("model returned non-JSON detection output")
	}

	var parsed []modelDetection
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse model detections: %w", err)
	}

	dets := make([]types.Detection, 0, len(parsed))
	for _, m := range parsed {
		d := types.Detection{Label: m.Label, Confidence: m.Confidence}
		if m.Box != nil {
			d.BBox = &types.BBox{
				X:      int(clamp01(m.Box.X) * float64(imgW)),
				Y:      int(clamp01(m.Box.Y) * float64(imgH)),
				Width:  int(clamp01(m.Box.W) * float64(imgW)),
				Height: int(clamp01(m.Box.H) * float64(imgH)),
			}
		}
		dets = append(dets, d)
	}
	return dets, nil
}

// sanitizeModelJSON removes code fences, comments and trailing commas
// from a model reply before parsing.
func sanitizeModelJSON(raw string) string {
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "```") {
		if i := strings.Index(raw, "\n"); i >= 0 {
			raw = raw[i+1:]
		}
		if j := strings.LastIndex(raw, "```"); j >= 0 {
			raw = raw[:j]
		}
	}
	raw = strings.TrimSpace(raw)
	raw = strings.Trim(raw, "`")

	reBlock := regexp.MustCompile(`(?s)/\*.*?\*/`)
	raw = reBlock.ReplaceAllString(raw, "")
	reLine := regexp.MustCompile(`(?m)^\s*//.*$`)
	raw = reLine.ReplaceAllString(raw, "")
	reTrailing := regexp.MustCompile(`,(\s*[}\]])`)
	raw = reTrailing.ReplaceAllString(raw, "$1")

	// Keep only the outermost [...] so prose around the array is dropped.
	if start := strings.Index(raw, "["); start >= 0 {
		if end := strings.LastIndex(raw, "]"); end > start {
			raw = raw[start : end+1]
		}
	}
	return strings.TrimSpace(raw)
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
