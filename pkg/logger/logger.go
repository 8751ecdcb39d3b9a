package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. It works with logrus defaults until Init
// applies the environment settings.
var Log = logrus.New()

// Init configures Log from the environment.
//
//	LOG_LEVEL  - logrus level name, "info" when unset or invalid.
//	LOG_FORMAT - "json" for machine-readable output, anything else for coloured text.
func Init() {
	InitWithOutput(os.Stdout)
}

// InitWithOutput is Init with an explicit sink. Tests pass io.Discard.
func InitWithOutput(out io.Writer) {
	Log = logrus.New()

	logLevel, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		logLevel = "info"
	}
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	Log.SetOutput(out)
}

// Component returns an entry tagged with the subsystem name.
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}
