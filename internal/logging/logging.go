package logging

import (
	"log"

	"go.uber.org/zap"
)

// New builds the production zap logger used by both binaries.
func New(service string) *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize zap logger: %v", err)
	}
	return logger.With(zap.String("service", service))
}
