package main

import (
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/csheth/mailtriage/internal/classify"
	"github.com/csheth/mailtriage/internal/clipboard"
	"github.com/csheth/mailtriage/internal/config"
	"github.com/csheth/mailtriage/internal/extract"
	"github.com/csheth/mailtriage/internal/intake"
	"github.com/csheth/mailtriage/internal/logging"
	"github.com/csheth/mailtriage/internal/tui"
)

// buildContainer registers every component the program needs.
func buildContainer(cfg *config.Config) (*dig.Container, error) {
	container := dig.New()

	if err := container.Provide(func() *config.Config { return cfg }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(cfg *config.Config) (*zap.Logger, error) {
		return logging.InitLogger(cfg.Logging)
	}); err != nil {
		return nil, err
	}

	if err := container.Provide(newExtractor); err != nil {
		return nil, err
	}
	if err := container.Provide(newBuilder); err != nil {
		return nil, err
	}
	if err := container.Provide(newClassifier); err != nil {
		return nil, err
	}
	if err := container.Provide(func() *clipboard.Copier {
		return clipboard.New(nil)
	}); err != nil {
		return nil, err
	}

	// Register the UI
	if err := container.Provide(newModel); err != nil {
		return nil, err
	}

	return container, nil
}

func newExtractor(cfg *config.Config) (*extract.Extractor, error) {
	return extract.New(cfg.Intake.Charset, extract.WithMaxFileSize(cfg.Intake.MaxFileSize))
}

func newBuilder(cfg *config.Config, extractor *extract.Extractor) *intake.Builder {
	return intake.NewBuilder(intake.BuilderConfig{
		Extensions:  cfg.Intake.Extensions,
		Policy:      cfg.Intake.Policy,
		Extractor:   extractor,
		MaxFileSize: cfg.Intake.MaxFileSize,
	})
}

func newClassifier(cfg *config.Config, logger *zap.Logger) (*classify.Client, error) {
	httpClient := &http.Client{}
	if cfg.Service.Timeout > 0 {
		httpClient.Timeout = cfg.Service.Timeout
	}
	return classify.New(classify.Config{
		Endpoint:   cfg.Service.Endpoint,
		HealthURL:  cfg.Service.HealthURL,
		HTTPClient: httpClient,
		Logger:     logger,
	})
}

func newModel(cfg *config.Config, logger *zap.Logger, client *classify.Client, builder *intake.Builder, copier *clipboard.Copier) tea.Model {
	startDir, err := os.Getwd()
	if err != nil {
		startDir = "."
	}
	if cfg.Intake.InitialFile != "" {
		startDir = ""
	}
	return tui.New(tui.Config{
		Classifier:  client,
		Builder:     builder,
		Copier:      copier,
		Logger:      logger,
		StartDir:    startDir,
		InitialFile: cfg.Intake.InitialFile,
		Probe:       cfg.UI.Probe,
	})
}
