package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/htcdag/dagger/internal/config"
	"github.com/htcdag/dagger/internal/ctxlog"
	"github.com/htcdag/dagger/internal/profile"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	config  *Config
	model   *config.Model
	profile map[string]string
}

// NewApp constructs the application: it configures the logger, loads the
// workflow definition into the unified model, and reads the submit profile.
// A failure to load configuration is a fatal startup error and panics; main
// recovers it into a clean exit message.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, appConfig.DefinitionPath)
	if err != nil {
		panic(fmt.Errorf("failed to load workflow definition: %w", err))
	}
	logger.Debug("Workflow definition loaded into unified model.", "workflow", model.Workflow.Name)

	var profileAttrs map[string]string
	if appConfig.ProfilePath != "" {
		profileAttrs, err = profile.Load(appConfig.ProfilePath)
		if err != nil {
			panic(fmt.Errorf("failed to load submit profile: %w", err))
		}
		logger.Debug("Submit profile loaded.", "path", appConfig.ProfilePath, "attributes", len(profileAttrs))
	}

	return &App{
		outW:    outW,
		logger:  logger,
		config:  appConfig,
		model:   model,
		profile: profileAttrs,
	}
}

// Model returns the loaded workflow model. This is primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}
