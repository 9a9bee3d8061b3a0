package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Prathmesh2931/vision-processing-microservice/internal/config"
	"github.com/Prathmesh2931/vision-processing-microservice/internal/metrics"
	"github.com/Prathmesh2931/vision-processing-microservice/internal/server"
	"github.com/Prathmesh2931/vision-processing-microservice/pkg/backend"
)

func main() {
	var port string
	var debug bool

	flag.StringVar(&port, "port", "", "listen port (overrides PORT env)")
	flag.BoolVar(&debug, "debug", false, "development logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if port != "" {
		cfg.Server.Port = port
	}
	if debug {
		cfg.Log.Debug = true
	}

	log, err := newLogger(cfg.Log.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sel := backend.Select(ctx, backend.Config{
		ModelPath:    cfg.Backend.ModelPath,
		NamesPath:    cfg.Backend.NamesPath,
		OllamaHost:   cfg.Backend.OllamaHost,
		OllamaModel:  cfg.Backend.OllamaModel,
		InferenceURL: cfg.Backend.InferenceURL,
	}, log)
	log.Info("detection engine selected",
		zap.String("engine", sel.Engine),
		zap.Bool("real_ai", sel.Real))

	m := metrics.New()
	m.StartSampling(ctx)

	srv := server.New(cfg, sel, m, log)
	if err := srv.Run(ctx); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
	log.Info("server stopped")
}

// newLogger builds a production logger, or a development one when debug
// logging is requested.
func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}
