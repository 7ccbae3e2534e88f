package main

import (
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/medialab/tesselle/config"
)

// newLogger builds the logger described by the configuration, writing to a
// rotated file when one is set.
func newLogger(c config.LogConfig) (*logrus.Logger, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(level)

	if c.File != "" {
		logger.SetOutput(&lumberjack.Logger{
			Filename:   c.File,
			MaxSize:    c.MaxSize,
			MaxBackups: c.MaxBackups,
			MaxAge:     c.MaxAge,
		})
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger, nil
}
