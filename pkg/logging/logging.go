// Package logging configures the process-wide zap logger.
package logging

import (
	"go.uber.org/zap"
)

var log = zap.NewNop()

// Init builds the global logger. Debug selects development output with
// debug level; otherwise production JSON at info level.
func Init(debug bool) error {
	var (
		l   *zap.Logger
		err error
	)
	if debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	log = l
	return nil
}

// L returns the global logger. Safe before Init: a no-op logger.
func L() *zap.Logger {
	return log
}

// S returns the sugared global logger.
func S() *zap.SugaredLogger {
	return log.Sugar()
}

// Sync flushes buffered entries; call on shutdown.
func Sync() {
	_ = log.Sync()
}
