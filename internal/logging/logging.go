// Package logging builds the zap logger used for diagnostics. Diagnostic
// logging is separate from result reporting: the report goes to stdout, the
// log goes to stderr or a file.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a logger. With debug false the logger only surfaces warnings,
// keeping stderr clean for report consumers. A non-empty file path redirects
// the log there.
func New(debug bool, file string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		cfg.Development = true
		cfg.Encoding = "console"
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	cfg.OutputPaths = []string{"stderr"}
	if file != "" {
		cfg.OutputPaths = []string{file}
	}
	cfg.ErrorOutputPaths = cfg.OutputPaths
	return cfg.Build()
}
