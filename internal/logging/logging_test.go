package logging

import (
	"bytes"
	"encoding/json"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"disabled", zerolog.Disabled},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseLevel("chatty")
	assert.EqualError(t, err, `incorrect log level "chatty"`)
}

func TestNew_JSONFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn", "json")
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	logger.Warn().Str("order_id", "1").Msg("rejected")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "rejected", entry["message"])
	assert.Equal(t, "1", entry["order_id"])
	assert.Contains(t, entry, "time")
}

func TestNew_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "info", "text")
	require.NoError(t, err)

	logger.Info().Str("kind", "order").Msg("accepted")

	out := buf.String()
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "accepted")
	assert.Contains(t, out, "kind=order")
}

func TestNew_Disabled(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "disabled", "json")
	require.NoError(t, err)

	logger.Error().Msg("nothing")
	assert.Empty(t, buf.String())
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "loud", "json")
	assert.Error(t, err)
}

func TestSetup_InstallsGlobalLogger(t *testing.T) {
	saved := log.Logger
	t.Cleanup(func() { log.Logger = saved })

	var buf bytes.Buffer
	_, err := Setup(&buf, "debug", "json")
	require.NoError(t, err)

	log.Debug().Msg("from global")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "from global", entry["message"])
	assert.Regexp(t, `^logging_test\.go:\d+$`, entry["caller"])
}

func TestSetup_Concurrent(t *testing.T) {
	saved := log.Logger
	t.Cleanup(func() { log.Logger = saved })

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := Setup(&bytes.Buffer{}, "debug", "json")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, "x.go:7", zerolog.CallerMarshalFunc(0, "/src/pkg/x.go", 7))
}
