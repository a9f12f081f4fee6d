// Package glsltlog configures the zap logger threaded through the driver,
// the way other engine/processing types in this ecosystem take a
// *zap.Logger field rather than reaching for a global. Level selection
// mirrors the original CLI's env_logger setup: -q/-v flag counts pick a
// default, GLSLT_LOG overrides it, and GLSLT_LOG_STYLE controls ANSI
// coloring.
package glsltlog

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logger at the level implied by quiet/verbosity, unless
// GLSLT_LOG names a recognized zap level, in which case that wins.
func New(quiet bool, verbosity int) *zap.Logger {
	level := levelFromFlags(quiet, verbosity)
	if env := strings.ToLower(os.Getenv("GLSLT_LOG")); env != "" {
		if parsed, err := zapcore.ParseLevel(env); err == nil {
			level = parsed
		}
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.TimeKey = ""
	cfg.EncoderConfig.CallerKey = ""

	if styleDisabled() {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	} else {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// levelFromFlags mirrors the original CLI's verbosity table: 0 quiet ->
// error, 0 normal -> warn, 1 -> info, 2 -> debug, 3+ -> debug (zap has no
// trace level below debug).
func levelFromFlags(quiet bool, verbosity int) zapcore.Level {
	switch {
	case verbosity >= 2:
		return zapcore.DebugLevel
	case verbosity == 1:
		return zapcore.InfoLevel
	case quiet:
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

func styleDisabled() bool {
	return strings.EqualFold(os.Getenv("GLSLT_LOG_STYLE"), "never")
}
