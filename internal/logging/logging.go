// Package logging configures zerolog for ordergraph.
//
// Logs always go to stderr so command output on stdout stays parseable.
package logging

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ParseLevel maps a level name to a zerolog level. The empty string means
// warn.
func ParseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "", "warn":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "disabled":
		return zerolog.Disabled, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("incorrect log level %q", level)
	}
}

// New builds a logger writing to w. Format "json" emits JSON lines; any
// other format uses the human readable console writer.
func New(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}

	if format != "json" {
		w = zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    true,
			TimeFormat: "15:04:05.000",
			FormatLevel: func(i any) string {
				return strings.ToUpper(fmt.Sprintf("%-6s", i))
			},
		}
	}

	ctx := zerolog.New(w).Level(lvl).With().Timestamp()
	if lvl == zerolog.DebugLevel {
		ctx = ctx.Caller()
	}
	return ctx.Logger(), nil
}

var (
	callerOnce sync.Once
	globalMu   sync.Mutex
)

// shortCaller reports callers as file:line without the directory.
func shortCaller(_ uintptr, file string, line int) string {
	if i := strings.LastIndexByte(file, '/'); i >= 0 {
		file = file[i+1:]
	}
	return file + ":" + strconv.Itoa(line)
}

// Setup builds a logger on w, normally stderr, and installs it as the
// global logger. It is safe to call from several goroutines.
func Setup(w io.Writer, level, format string) (zerolog.Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	logger, err := New(w, level, format)
	if err != nil {
		return logger, err
	}

	callerOnce.Do(func() { zerolog.CallerMarshalFunc = shortCaller })

	globalMu.Lock()
	log.Logger = logger
	globalMu.Unlock()
	return logger, nil
}
