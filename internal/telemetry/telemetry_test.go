package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestNewResource(t *testing.T) {
	res, err := newResource(context.Background(), "assetbuild", "1.2.3",
		attribute.String("assetbuild.command", "build"),
		attribute.String("assetbuild.config", "assetbuild.yaml"),
	)
	require.NoError(t, err)

	set := res.Set()
	for key, want := range map[string]string{
		"service.name":       "assetbuild",
		"service.version":    "1.2.3",
		"assetbuild.command": "build",
		"assetbuild.config":  "assetbuild.yaml",
	} {
		value, ok := set.Value(attribute.Key(key))
		require.True(t, ok, key)
		require.Equal(t, want, value.AsString(), key)
	}
}
