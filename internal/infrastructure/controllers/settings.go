package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/gitlabstats/config"
	"github.com/rios0rios0/gitlabstats/internal/domain/entities"
)

// loadSettings resolves the run settings from the command flags and raises the log level
// when verbose output was asked for.
func loadSettings(cmd *cobra.Command) (*entities.Settings, error) {
	settings, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}
	if settings.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}
	return settings, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
