// Package logging configures the application logger.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds a logrus logger. With a file path it writes through a rotating
// lumberjack writer; otherwise it logs to stderr. Unknown levels fall back
// to warn so a typo in config never silences errors.
func New(logPath, level string) *logrus.Logger {
	log := logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.WarnLevel
	}
	log.SetLevel(lvl)

	var out io.Writer = os.Stderr
	if logPath != "" {
		out = &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     7, // days
			Compress:   true,
		}
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	log.SetOutput(out)

	return log
}
