package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/bryanwahyu/satyacheck/internal/app"
	"github.com/bryanwahyu/satyacheck/internal/config"
	"github.com/bryanwahyu/satyacheck/internal/logger"
)

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return cfg, nil
}

// newApp loads config and builds the pipeline. Callers must Close it.
func newApp(ctx context.Context) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("logger init: %w", err)
	}
	return app.New(ctx, cfg, log)
}

// closeApp waits for background work using a context detached from the
// (possibly cancelled) command context.
func closeApp(ctx context.Context, a *app.App) {
	if err := a.Close(context.WithoutCancel(ctx)); err != nil {
		fmt.Fprintln(os.Stderr, "close:", err)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
