package helpers

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger. Development gets colored text with
// full timestamps at debug level, everything else JSON at info. A parsable
// level overrides either default.
func NewLogger(appName, env, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	lvl := logrus.InfoLevel
	var formatter logrus.Formatter = &logrus.JSONFormatter{}
	if env == "development" {
		lvl = logrus.DebugLevel
		formatter = &logrus.TextFormatter{FullTimestamp: true}
	}
	if parsed, err := logrus.ParseLevel(level); level != "" && err == nil {
		lvl = parsed
	}
	logger.SetLevel(lvl)
	logger.SetFormatter(formatter)

	logger.WithFields(logrus.Fields{"app": appName, "env": env, "level": lvl.String()}).Info("logger initialized")
	return logger
}

// LogError logs msg at error level with err attached.
func LogError(logger *logrus.Logger, msg string, err error, fields logrus.Fields) {
	entry := logger.WithFields(fields)
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Error(msg)
}

func LogInfo(logger *logrus.Logger, msg string, fields logrus.Fields) {
	logger.WithFields(fields).Info(msg)
}
