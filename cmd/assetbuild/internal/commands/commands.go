package commands

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/assetbuild/internal/buildspec"
	"github.com/wolfeidau/assetbuild/internal/logger"
	"github.com/wolfeidau/assetbuild/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

type Globals struct {
	Debug   bool
	Tracing bool
	Version string
}

// envFiles are checked in order, the first one found is loaded
var envFiles = []string{".env", ".env.local"}

// LoadEnvFile loads ASSETBUILD_* defaults from a local .env file. Variables
// already set in the environment win.
func LoadEnvFile() {
	for _, location := range envFiles {
		if _, err := os.Stat(location); err != nil {
			continue
		}
		if err := godotenv.Load(location); err != nil {
			log.Warn().Err(err).Str("file", location).Msg("Failed to load .env file")
		}
		return
	}
}

// setup configures logging and, when enabled, telemetry for the named
// command. The returned function flushes telemetry and must be called before
// exiting.
func (g *Globals) setup(ctx context.Context, command, config string) (context.Context, func()) {
	log := logger.Setup(g.Debug)
	ctx = logger.WithContext(ctx, log)

	log.Debug().Str("version", g.Version).Str("command", command).Msg("Starting assetbuild")

	if !g.Tracing {
		return ctx, func() {}
	}

	shutdown, err := telemetry.InitTelemetry(ctx, "assetbuild", g.Version, invocationAttributes(command, config)...)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize telemetry, continuing without metrics")
		return ctx, func() {}
	}

	return ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Failed to shutdown telemetry")
		}
	}
}

// invocationAttributes describe a CLI run on the telemetry resource.
func invocationAttributes(command, config string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String("assetbuild.command", command)}
	if config != "" {
		attrs = append(attrs, attribute.String("assetbuild.config", config))
	}
	return attrs
}

// loadSpec loads and resolves a build definition, optionally overriding its mode.
func loadSpec(ctx context.Context, path, mode string) (*buildspec.BuildSpec, error) {
	metrics := telemetry.GetMetrics()

	raw, err := buildspec.Load(path)
	if err != nil {
		metrics.ResolveErrorsTotal.Add(ctx, 1)
		return nil, err
	}
	if mode != "" {
		raw.Mode = strings.ToLower(mode)
	}

	spec, err := buildspec.Resolve(raw)
	if err != nil {
		metrics.ResolveErrorsTotal.Add(ctx, 1)
		zerolog.Ctx(ctx).Error().Err(err).Str("config", path).Msg("Invalid build definition")
		return nil, err
	}
	metrics.ResolveTotal.Add(ctx, 1)

	return spec, nil
}
