package workq

import (
	"github.com/sirupsen/logrus"
)

// Logger is a minimal logging interface so callers can plug in their own
// implementation without this package depending on it.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// defaultLogger implements Logger using logrus
type defaultLogger struct {
	log *logrus.Logger
}

// NewDefaultLogger creates the logger used when no WithLogger option is given.
// Logs go to stderr at warn level so an idle queue stays quiet.
func NewDefaultLogger() Logger {
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	return &defaultLogger{log: log}
}

func (l *defaultLogger) Debugf(format string, args ...interface{}) {
	l.log.Debugf(format, args...)
}

func (l *defaultLogger) Infof(format string, args ...interface{}) {
	l.log.Infof(format, args...)
}

func (l *defaultLogger) Warnf(format string, args ...interface{}) {
	l.log.Warnf(format, args...)
}

func (l *defaultLogger) Errorf(format string, args ...interface{}) {
	l.log.Errorf(format, args...)
}
