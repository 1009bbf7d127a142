package badger

import (
	"fmt"
	"strings"

	"tokensale/engine/library"
)

// logger routes Badger's log lines into LogCLI.
type logger struct{}

func (logger) format(format string, args ...interface{}) string {
	return "badger: " + strings.TrimSpace(fmt.Sprintf(format, args...))
}

func (l logger) Errorf(format string, args ...interface{}) {
	library.LogCLI(l.format(format, args...), 1)
}

func (l logger) Warningf(format string, args ...interface{}) {
	library.LogCLI(l.format(format, args...), 2)
}

func (l logger) Infof(format string, args ...interface{}) {
	library.LogCLI(l.format(format, args...), 3)
}

// Debugf is dropped, Badger is too chatty at that level.
func (logger) Debugf(string, ...interface{}) {}
