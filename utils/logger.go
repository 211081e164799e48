package utils

import (
	"os"

	"go.uber.org/zap"
)

var logger *zap.SugaredLogger

func InitLogger() {
	var l *zap.Logger
	var err error
	if os.Getenv("APP_ENV") == "development" {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		l = zap.NewNop()
	}
	logger = l.Sugar()
}

// Logger returns the process-wide sugared logger, initializing it on first use.
func Logger() *zap.SugaredLogger {
	if logger == nil {
		InitLogger()
	}
	return logger
}
