// Package log wraps a process-wide zap.Logger behind package-level
// functions, so callers write log.Info("msg", zap.String(...)) without
// threading a logger through every constructor.
package log

import (
	"os"

	"go.uber.org/zap"
)

var logger *zap.Logger

func init() {
	var err error
	logger, err = zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}
	if os.Getenv("STRINGPHONE_DEBUG") != "" {
		logger, err = zap.NewDevelopment()
		if err != nil {
			logger = zap.NewNop()
		}
	}
}

func Debug(msg string, fields ...zap.Field) { logger.Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { logger.Info(msg, fields...) }
func Error(msg string, fields ...zap.Field) { logger.Error(msg, fields...) }
func Fatal(msg string, fields ...zap.Field) { logger.Fatal(msg, fields...) }

// Sync flushes any buffered log entries. Call it before process exit.
func Sync() {
	_ = logger.Sync()
}
