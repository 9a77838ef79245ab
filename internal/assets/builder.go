package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/wolfeidau/assetbuild/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Result summarises a completed build
type Result struct {
	BuildID  string
	Outputs  []string
	Manifest *Manifest
	Duration time.Duration
}

// Build runs esbuild with the configured settings and loads metadata. The
// build is cancelled when ctx is done.
func (p *Pipeline) Build(ctx context.Context) (*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	started := time.Now()
	buildID := uuid.NewString()
	metrics := telemetry.GetMetrics()

	fingerprint, err := p.spec.Fingerprint()
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.Tracer().Start(ctx, "assets.Build")
	defer span.End()
	span.SetAttributes(
		attribute.String("build.id", buildID),
		attribute.String("build.fingerprint", fingerprint),
		attribute.String("build.mode", string(p.spec.Mode())),
	)

	logger := zerolog.Ctx(ctx).With().Str("build_id", buildID).Logger()

	opts, err := p.BuildOptions()
	if err != nil {
		return nil, err
	}

	entryNames := make([]string, 0, len(opts.EntryPointsAdvanced))
	for _, entry := range opts.EntryPointsAdvanced {
		entryNames = append(entryNames, entry.OutputPath)
	}
	logger.Info().
		Strs("entrypoints", entryNames).
		Str("outdir", p.outDir).
		Str("fingerprint", fingerprint).
		Msg("Building assets")

	buildCtx, ctxErr := api.Context(opts)
	if ctxErr != nil {
		return nil, p.failed(ctx, span, logger, ctxErr.Errors)
	}
	defer buildCtx.Dispose()

	stop := context.AfterFunc(ctx, buildCtx.Cancel)
	defer stop()

	result := buildCtx.Rebuild()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build cancelled: %w", err)
	}

	if len(result.Errors) > 0 {
		return nil, p.failed(ctx, span, logger, result.Errors)
	}

	for _, msg := range result.Warnings {
		logger.Warn().Str("warning", msg.Text).Msg("Build warning")
	}

	var outputs []string
	var outputBytes int64
	for _, file := range result.OutputFiles {
		logger.Info().Str("file", file.Path).Int("bytes", len(file.Contents)).Msg("Built file")
		outputs = append(outputs, file.Path)
		outputBytes += int64(len(file.Contents))
	}

	// Write metafile
	if err := os.MkdirAll(p.outDir, 0o750); err != nil {
		return nil, err
	}
	metafilePath := filepath.Join(p.outDir, p.config.MetafileName)
	if err := os.WriteFile(metafilePath, []byte(result.Metafile), 0600); err != nil {
		return nil, err
	}

	// Parse and cache metadata
	var metadata BuildMetadata
	if err := json.Unmarshal([]byte(result.Metafile), &metadata); err != nil {
		return nil, err
	}
	p.metadata = &metadata

	manifest, err := p.buildManifest(buildID, fingerprint, &metadata, result.OutputFiles)
	if err != nil {
		return nil, err
	}
	if err := p.writeManifest(manifest); err != nil {
		return nil, err
	}

	compressed, err := precompress(result.OutputFiles, p.spec.Output().Precompress)
	if err != nil {
		return nil, err
	}

	duration := time.Since(started)
	attrs := metric.WithAttributes(attribute.String("mode", string(p.spec.Mode())))
	metrics.BuildsTotal.Add(ctx, 1, attrs)
	metrics.BuildDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	metrics.OutputFilesTotal.Add(ctx, int64(len(outputs)), attrs)
	metrics.OutputBytesTotal.Add(ctx, outputBytes, attrs)
	metrics.CompressedBytes.Add(ctx, compressed, attrs)

	logger.Info().
		Dur("duration", duration).
		Int("files", len(outputs)).
		Int64("bytes", outputBytes).
		Int64("compressed_bytes", compressed).
		Msg("Build complete")

	return &Result{
		BuildID:  buildID,
		Outputs:  outputs,
		Manifest: manifest,
		Duration: duration,
	}, nil
}

func (p *Pipeline) failed(ctx context.Context, span trace.Span, logger zerolog.Logger, msgs []api.Message) error {
	for _, msg := range msgs {
		ev := logger.Error().Str("error", msg.Text)
		if msg.Location != nil {
			ev = ev.Str("file", msg.Location.File).Int("line", msg.Location.Line)
		}
		ev.Msg("Build error")
	}

	err := ErrBuildFailed
	if len(msgs) > 0 {
		err = fmt.Errorf("%w: %s", ErrBuildFailed, msgs[0].Text)
	}

	telemetry.GetMetrics().BuildErrorsTotal.Add(ctx, 1)
	span.RecordError(err)
	span.SetStatus(codes.Error, "build failed")
	return err
}

// LoadScripts returns the ordered list of script paths needed for the named
// entry point and the entry point's own script. Paths are relative to the
// output directory.
func (p *Pipeline) LoadScripts(entryName string) ([]string, string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.metadata == nil {
		return nil, "", ErrNotBuilt
	}

	for _, entry := range p.spec.EntryPoints() {
		if entry.Name != entryName {
			continue
		}
		outputPath, info, ok := p.entryOutput(p.metadata, entry.Path)
		if !ok {
			break
		}

		entrypoint := p.publicPath(outputPath)
		scripts := []string{entrypoint}
		visited := map[string]bool{outputPath: true}

		var deps []string
		addDependencies(p.metadata, info, &deps, visited)
		for _, dep := range deps {
			scripts = append(scripts, p.publicPath(dep))
		}
		return scripts, entrypoint, nil
	}

	return nil, "", fmt.Errorf("%w: %s", ErrEntryNotFound, entryName)
}

// addDependencies walks static chunk imports depth first.
func addDependencies(meta *BuildMetadata, output OutputInfo, scripts *[]string, visited map[string]bool) {
	for _, imp := range output.Imports {
		if imp.External || imp.Kind == "dynamic-import" || visited[imp.Path] {
			continue
		}
		visited[imp.Path] = true
		*scripts = append(*scripts, imp.Path)

		if chunkInfo, exists := meta.Outputs[imp.Path]; exists {
			addDependencies(meta, chunkInfo, scripts, visited)
		}
	}
}
