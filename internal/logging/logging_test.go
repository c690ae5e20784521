package logging_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tayloree/storefront-catalog/internal/logging"
	"go.uber.org/zap"
)

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := logging.New("warn", &buf)
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("excluding item", zap.String("stage", "search"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "excluding item")
	assert.Contains(t, out, `"stage": "search"`)
}

func TestNew_DefaultsToWarn(t *testing.T) {
	var buf bytes.Buffer
	log, err := logging.New("", &buf)
	require.NoError(t, err)

	log.Info("hidden")
	assert.Empty(t, buf.String())
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := logging.New("chatty", &bytes.Buffer{})
	assert.ErrorContains(t, err, "invalid log level")
}
