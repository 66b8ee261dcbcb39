package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// InitLogger configures logrus. When LOG_FILE is set the output goes there,
// otherwise to stdout.
func InitLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	if path := os.Getenv("LOG_FILE"); path != "" {
		logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			logrus.Warnf("Failed to open log file (%s), using stdout: %v", path, err)
			logrus.SetOutput(os.Stdout)
		} else {
			logrus.SetOutput(logFile)
		}
	} else {
		logrus.SetOutput(os.Stdout)
	}

	logrus.Info("Logger initialized")
}
