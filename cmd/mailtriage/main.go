package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/csheth/mailtriage/internal/config"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "mailtriage:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("mailtriage", pflag.ContinueOnError)
	config.RegisterFlags(flags)
	if err := flags.Parse(args); err != nil {
		return err
	}

	configFile, _ := flags.GetString("config")
	v := config.NewViper(configFile)
	if err := config.BindFlags(v, flags); err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	container, err := buildContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}

	return container.Invoke(func(model tea.Model, logger *zap.Logger) error {
		defer func() { _ = logger.Sync() }()
		logger.Info("starting",
			zap.String("endpoint", cfg.Service.Endpoint),
			zap.String("file_policy", string(cfg.Intake.Policy)),
			zap.Stringer("extensions", cfg.Intake.Extensions),
			zap.String("config_file", cfg.File),
		)

		opts := []tea.ProgramOption{}
		if cfg.UI.AltScreen {
			opts = append(opts, tea.WithAltScreen())
		}
		program := tea.NewProgram(model, opts...)
		if _, err := program.Run(); err != nil {
			logger.Error("program error", zap.Error(err))
			return fmt.Errorf("program error: %w", err)
		}
		logger.Info("exiting")
		return nil
	})
}
