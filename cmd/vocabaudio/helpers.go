package main

import (
	"context"
	"fmt"

	"github.com/wuta/vocabaudio/internal/bootstrap"
	"github.com/wuta/vocabaudio/internal/config"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

// withComponents builds the pipeline for the duration of fn.
func withComponents(ctx context.Context, fn func(c *bootstrap.Components) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}
	components, err := bootstrap.Build(ctx, cfg, nil)
	if err != nil {
		return fmt.Errorf("bootstrap.Build() > %w", err)
	}
	defer func() {
		_ = components.Close()
	}()
	return fn(components)
}
