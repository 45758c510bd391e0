// Package logging builds the shared zap logger.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"smacross/config"
)

// New builds a logger writing to the console and, when a log file is
// configured, to a size-rotated file.
func New(cfg *config.Config) *zap.Logger {
	level := zapcore.InfoLevel
	if cfg != nil {
		if err := level.Set(cfg.Log.Level); err != nil {
			level = zapcore.InfoLevel
		}
	}

	consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stderr), level),
	}

	if cfg != nil && cfg.Log.File != "" {
		fileEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		rotating := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
		})
		cores = append(cores, zapcore.NewCore(fileEncoder, rotating, level))
	}

	return zap.New(zapcore.NewTee(cores...))
}
