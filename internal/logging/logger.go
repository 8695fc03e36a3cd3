package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New builds the sugared logger shared by middleware, handlers and jobs.
// The local environment gets the human readable development encoder.
func New(env string) (*zap.SugaredLogger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if env == "local" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger.Sugar().With("service", "club-console"), nil
}
