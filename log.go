package adaptivequiz

import "github.com/sirupsen/logrus"

// Package-level logger, swappable by callers that carry their own.
var logger logrus.FieldLogger = logrus.StandardLogger()

// SetLogger replaces the logger used by the pipeline.
func SetLogger(l logrus.FieldLogger) {
	if l != nil {
		logger = l
	}
}

// SetVerbose raises the standard logger to debug level so raw model output
// and per-question validation decisions are logged.
func SetVerbose(verbose bool) {
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}
