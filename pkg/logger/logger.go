// Package logger is the process-wide structured logger.
//
// Call sites pass a message followed by alternating key/value pairs:
//
//	logger.Info("Server starting", "address", addr)
//	logger.Error("Failed to load catalog", "error", err)
//
// Output is human-readable in development and JSON everywhere else.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu  sync.RWMutex
	log = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// Init configures the global logger for the given app environment
// ("development", "staging", "production", ...).
func Init(environment string) {
	InitWithOutput(environment, os.Stderr)
}

// InitWithOutput is Init with an explicit writer. Tests use it to capture output.
func InitWithOutput(environment string, w io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.TimestampFieldName = "time"
	zerolog.MessageFieldName = "message"

	out := w
	level := zerolog.InfoLevel
	if isDevelopment(environment) {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
		level = zerolog.DebugLevel
	}
	if lvl, err := zerolog.ParseLevel(strings.ToLower(os.Getenv("LOG_LEVEL"))); err == nil && lvl != zerolog.NoLevel {
		level = lvl
	}

	mu.Lock()
	defer mu.Unlock()
	log = zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func isDevelopment(environment string) bool {
	switch strings.ToLower(environment) {
	case "", "dev", "development", "local":
		return true
	}
	return false
}

func Debug(msg string, kv ...any) { emit(current().Debug(), msg, kv) }

func Info(msg string, kv ...any) { emit(current().Info(), msg, kv) }

func Warn(msg string, kv ...any) { emit(current().Warn(), msg, kv) }

func Error(msg string, kv ...any) { emit(current().Error(), msg, kv) }

// Fatal logs at fatal level and exits the process.
func Fatal(msg string, kv ...any) { emit(current().Fatal(), msg, kv) }

func current() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := log
	return &l
}

// emit attaches kv pairs to the event. A value without a string key
// (logger.Error("msg", err)) is logged under "error" or "arg<i>".
func emit(ev *zerolog.Event, msg string, kv []any) {
	if ev == nil {
		return
	}
	for i := 0; i < len(kv); i++ {
		key, ok := kv[i].(string)
		if !ok || i+1 >= len(kv) {
			if err, isErr := kv[i].(error); isErr {
				ev = ev.AnErr("error", err)
			} else {
				ev = ev.Interface(fmt.Sprintf("arg%d", i), kv[i])
			}
			continue
		}
		val := kv[i+1]
		i++
		if err, isErr := val.(error); isErr {
			ev = ev.AnErr(key, err)
			continue
		}
		ev = ev.Interface(key, val)
	}
	ev.Msg(msg)
}
