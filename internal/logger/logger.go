package logger

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gobinath946/project-weaver-sub001/internal/constants"
)

var log *zap.Logger = zap.NewNop()

// Init builds the global logger. Production gets JSON output with ISO8601
// timestamps, everything else gets the colored development encoder.
func Init(env, level, serviceName string) error {
	zapLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		zapLevel = zapcore.InfoLevel
	}

	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	log, err = cfg.Build(zap.Fields(
		zap.String("service", serviceName),
		zap.String("environment", env),
	))
	if err != nil {
		return err
	}

	zap.ReplaceGlobals(log)
	return nil
}

// Get returns the global logger instance.
func Get() *zap.Logger {
	return log
}

// SetForTesting swaps the global logger, returning a restore function.
func SetForTesting(l *zap.Logger) func() {
	prev := log
	log = l
	return func() { log = prev }
}

// FromGin retrieves the request-scoped logger set by the request ID
// middleware, falling back to the global one.
func FromGin(c *gin.Context) *zap.Logger {
	if l, ok := c.Get(constants.ContextKeyLogger); ok {
		if zl, ok := l.(*zap.Logger); ok {
			return zl
		}
	}
	return log
}
