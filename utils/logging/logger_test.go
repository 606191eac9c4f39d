package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureUpdatesComponents(t *testing.T) {
	early := For("early")
	assert.False(t, early.Enabled(zerolog.ErrorLevel))

	var buf bytes.Buffer
	require.NoError(t, Configure("debug", &buf))
	defer Configure("disabled")

	assert.Same(t, early, For("early"))
	assert.True(t, early.Enabled(zerolog.DebugLevel))
	assert.False(t, early.Enabled(zerolog.TraceLevel))

	early.Debug("hello", map[string]any{"depth": 3})
	early.Trace("hidden", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	event := map[string]any{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &event))
	assert.Equal(t, "early", event["module"])
	assert.Equal(t, "hello", event["message"])
	assert.Equal(t, "debug", event["level"])
	assert.EqualValues(t, 3, event["depth"])
}

func TestErrorStack(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Configure("debug", &buf))
	defer Configure("disabled")

	For("stack").Error("failed", errors.New("boom"), nil)
	assert.Contains(t, buf.String(), `"error":"boom"`)
	assert.Contains(t, buf.String(), `"stack"`)
}

func TestConfigureRejectsUnknownLevel(t *testing.T) {
	assert.Error(t, Configure("chatty"))
}
