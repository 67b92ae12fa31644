// Package logging provides component-scoped loggers for the ziptool CLI.
//
// All diagnostic output goes to stderr so that stdout stays clean for
// summaries and anything the user may want to pipe. Loggers are cached per
// component and pick up level changes made after they were handed out:
//
//	logger := logging.Get("archive")
//	logger.Info("ignoring directory", "path", rel)
package logging

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Logger is the logger type handed out by Get.
type Logger = log.Logger

var (
	mu      sync.Mutex
	level   = log.InfoLevel
	loggers = make(map[string]*Logger)
)

// Init sets the level applied to every component logger, including loggers
// created before Init was called. Level is one of debug, info, warn, error.
func Init(levelName string) error {
	parsed, err := parseLevel(levelName)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	level = parsed
	for _, l := range loggers {
		l.SetLevel(parsed)
	}
	return nil
}

// Get returns the logger for the given component, creating it on first use.
func Get(component string) *Logger {
	mu.Lock()
	defer mu.Unlock()

	if l, ok := loggers[component]; ok {
		return l
	}

	l := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		Prefix:          component,
		ReportTimestamp: false,
	})
	loggers[component] = l
	return l
}

// parseLevel maps a level name onto a charmbracelet/log level, accepting
// "warning" as an alias the upstream parser does not know.
func parseLevel(name string) (log.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "warning" {
		name = "warn"
	}
	parsed, err := log.ParseLevel(name)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("parsing log level: %w", err)
	}
	return parsed, nil
}
