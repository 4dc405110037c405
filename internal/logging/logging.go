// Package logging constructs the structured logger used throughout the
// coordinator and worker: a zap.SugaredLogger configured for
// human-readable console output in local/dev mode and JSON in cloud
// mode, matching the deployment-mode switch the rest of the system
// already makes.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a *zap.SugaredLogger for the given process name ("worker"
// or "coordinator") and deployment mode ("localhost" or "aws").
func New(process, mode string) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	if mode == "aws" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar().With("process", process), nil
}

// Nop returns a no-op logger, used by tests that don't care about log
// output.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
