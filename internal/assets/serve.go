package assets

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/rs/zerolog"
	"github.com/wolfeidau/assetbuild/internal/telemetry"
)

// Serve runs the configured dev server. esbuild rebuilds on file changes and
// serves the content base. It blocks until ctx is done.
func (p *Pipeline) Serve(ctx context.Context) error {
	ds := p.spec.DevServer()
	if ds == nil {
		return ErrNoDevServer
	}

	logger := zerolog.Ctx(ctx)

	opts, err := p.buildOptions(ds.HotReload)
	if err != nil {
		return err
	}
	opts.Plugins = append(opts.Plugins, rebuildLogger(ctx))

	servedir := absPath(p.workDir, ds.ContentBase)
	if servedir != p.outDir && !isParent(servedir, p.outDir) {
		logger.Warn().
			Str("servedir", servedir).
			Str("outdir", p.outDir).
			Msg("Output directory is outside the content base, bundles will not be served")
	}

	buildCtx, ctxErr := api.Context(opts)
	if ctxErr != nil {
		if len(ctxErr.Errors) > 0 {
			return fmt.Errorf("%w: %s", ErrBuildFailed, ctxErr.Errors[0].Text)
		}
		return ErrBuildFailed
	}
	defer buildCtx.Dispose()

	if err := buildCtx.Watch(api.WatchOptions{}); err != nil {
		return fmt.Errorf("failed to watch: %w", err)
	}

	serveOpts := api.ServeOptions{
		Servedir: servedir,
		Host:     ds.Host,
	}
	setPort(&serveOpts.Port, ds.Port)

	result, err := buildCtx.Serve(serveOpts)
	if err != nil {
		return fmt.Errorf("failed to start dev server: %w", err)
	}

	for _, host := range result.Hosts {
		logger.Info().
			Str("url", "http://"+net.JoinHostPort(host, strconv.Itoa(int(result.Port)))).
			Bool("hot_reload", ds.HotReload).
			Msg("Dev server listening")
	}

	<-ctx.Done()
	logger.Info().Msg("Stopping dev server")
	return nil
}

// setPort assigns the port regardless of the integer width esbuild declares.
func setPort[T ~int | ~uint16](dst *T, port int) {
	*dst = T(port)
}

// rebuildLogger logs the outcome of every watch rebuild.
func rebuildLogger(ctx context.Context) api.Plugin {
	logger := zerolog.Ctx(ctx)
	return api.Plugin{
		Name: "rebuild-logger",
		Setup: func(build api.PluginBuild) {
			build.OnEnd(func(result *api.BuildResult) (api.OnEndResult, error) {
				telemetry.GetMetrics().DevServerRebuilds.Add(ctx, 1)
				if len(result.Errors) > 0 {
					for _, msg := range result.Errors {
						logger.Error().Str("error", msg.Text).Msg("Rebuild error")
					}
					return api.OnEndResult{}, nil
				}
				logger.Info().Int("files", len(result.OutputFiles)).Msg("Rebuilt")
				return api.OnEndResult{}, nil
			})
		},
	}
}
