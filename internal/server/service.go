package server

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Prathmesh2931/vision-processing-microservice/internal/metrics"
	"github.com/Prathmesh2931/vision-processing-microservice/pkg/backend"
	"github.com/Prathmesh2931/vision-processing-microservice/pkg/processing"
	"github.com/Prathmesh2931/vision-processing-microservice/pkg/types"
	"github.com/Prathmesh2931/vision-processing-microservice/pkg/vision"
)

// Path messages mirror the engine that actually produced the result.
const (
	msgRealPrefix = "Real AI Detection - "
	msgFallback   = "Smart Detection (AI Fallback)"
	msgHeuristic  = "Smart Analysis - Demo Mode"
)

// Service turns an uploaded image into a detection response. It owns
// the per-request fallback decision: when the selected real backend
// fails on a request, the heuristic classifier answers that request and
// the response says so.
type Service struct {
	sel        backend.Selection
	classifier *vision.Classifier
	processor  *processing.Processor
	metrics    *metrics.Metrics
	log        *zap.Logger
}

// NewService wires a detection service around the startup selection.
func NewService(sel backend.Selection, m *metrics.Metrics, log *zap.Logger) *Service {
	return &Service{
		sel:        sel,
		classifier: vision.New(),
		processor:  processing.NewProcessor(),
		metrics:    m,
		log:        log,
	}
}

// Detect decodes the upload, runs the selected engine and assembles the
// canonical response. A decode failure is returned to the caller; a
// backend failure is not, it downgrades to the heuristic path.
func (s *Service) Detect(ctx context.Context, data []byte) (*types.DetectResponse, error) {
	start := time.Now()
	requestID := uuid.NewString()

	img, err := s.processor.Decode(data)
	if err != nil {
		s.metrics.ObserveRequest(s.sel.Engine, "error", 0, time.Since(start))
		return nil, err
	}

	var (
		dets    []types.Detection
		engine  string
		real    bool
		message string
	)

	if s.sel.Real {
		dets, err = s.sel.Backend.Detect(ctx, img)
		if err == nil {
			engine = s.sel.Engine
			real = true
			message = msgRealPrefix + s.sel.Engine
		} else {
			s.log.Warn("backend inference failed, falling back to heuristic",
				zap.String("request_id", requestID),
				zap.String("engine", s.sel.Engine),
				zap.Error(err))
			s.metrics.ObserveFallback()
			dets = s.classifier.Classify(img)
			engine = backend.EngineMock
			message = msgFallback
		}
	} else {
		dets = s.classifier.Classify(img)
		engine = backend.EngineMock
		message = msgHeuristic
	}

	if dets == nil {
		dets = []types.Detection{}
	}

	display := img
	if annotated, aerr := s.processor.Annotate(img, dets); aerr == nil {
		display = annotated
	}

	imgB64, err := s.processor.EncodePNGBase64(display)
	if err != nil {
		s.metrics.ObserveRequest(engine, "error", 0, time.Since(start))
		return nil, err
	}

	elapsed := time.Since(start)
	s.metrics.ObserveRequest(engine, "ok", len(dets), elapsed)

	return &types.DetectResponse{
		Success:      true,
		Detections:   dets,
		Image:        imgB64,
		Count:        len(dets),
		Message:      message,
		Engine:       engine,
		RealAI:       real,
		RequestID:    requestID,
		ProcessingMS: elapsed.Milliseconds(),
	}, nil
}
