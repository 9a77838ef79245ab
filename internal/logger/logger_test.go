package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSetup_Levels(t *testing.T) {
	var buf bytes.Buffer

	logger := setup(&buf, false)
	require.Equal(t, zerolog.InfoLevel, logger.GetLevel())

	logger.Debug().Msg("hidden")
	require.Zero(t, buf.Len())

	logger.Info().Str("build_id", "abc").Msg("visible")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "visible", line["message"])
	require.Equal(t, "abc", line["build_id"])

	dev := setup(&buf, true)
	require.Equal(t, zerolog.DebugLevel, dev.GetLevel())
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	logger := setup(&buf, false)

	ctx := WithContext(context.Background(), logger)
	zerolog.Ctx(ctx).Info().Msg("from context")

	require.Contains(t, buf.String(), "from context")
}
