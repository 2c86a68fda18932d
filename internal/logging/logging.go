// Package logging builds the zap logger used across the CLI. The logger is
// handed to components explicitly; nothing in this repo logs through a
// package-level singleton.
package logging

import (
	"go.uber.org/zap"
)

// New returns a console-encoded logger. Debug mode enables development
// defaults; otherwise only warnings and above are emitted so report output
// stays clean.
func New(debug bool) (*zap.Logger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	cfg.Encoding = "console"
	return cfg.Build()
}
