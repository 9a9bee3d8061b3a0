package backend

import (
	"context"

	"go.uber.org/zap"
)

// Config names the candidate engines the selector may try. Empty fields
// disable the corresponding candidate.
type Config struct {
	// Path to a packaged ONNX model for the local engine.
	ModelPath string
	// Optional class-name file for the local engine; COCO names are the
	// default.
	NamesPath string
	// Base URL of an Ollama instance serving a vision model.
	OllamaHost string
	// Vision model name expected on the Ollama instance.
	OllamaModel string
	// Base URL of a remote detection API exposing /health and /detect.
	InferenceURL string
}

// candidate is one entry of the priority-ordered fallback chain.
type candidate struct {
	name  string
	build func(ctx context.Context) (Backend, error)
}

// Select walks the candidates in priority order and returns the first
// engine that loads: packaged local model, then Ollama-served model,
// then remote detection API. Every failure is logged and swallowed; no
// candidate is retried after startup. When nothing loads, the heuristic
// selection is returned so the process always ends in a usable state.
func Select(ctx context.Context, cfg Config, log *zap.Logger) Selection {
	candidates := []candidate{
		{
			name: EngineLocal,
			build: func(ctx context.Context) (Backend, error) {
				return NewLocal(cfg.ModelPath, cfg.NamesPath)
			},
		},
		{
			name: EngineOllama,
			build: func(ctx context.Context) (Backend, error) {
				return NewOllama(ctx, cfg.OllamaHost, cfg.OllamaModel)
			},
		},
		{
			name: EngineRemote,
			build: func(ctx context.Context) (Backend, error) {
				return NewRemote(ctx, cfg.InferenceURL)
			},
		},
	}

	for _, c := range candidates {
		b, err := c.build(ctx)
		if err != nil {
			log.Info("detection backend not available",
				zap.String("engine", c.name),
				zap.Error(err))
			continue
		}
		log.Info("detection backend loaded", zap.String("engine", c.name))
		return Selection{Backend: b, Engine: b.Name(), Real: true}
	}

	log.Warn("no real detection backend available, using heuristic classifier")
	return HeuristicSelection()
}
