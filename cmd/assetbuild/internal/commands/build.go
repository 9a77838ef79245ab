package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/wolfeidau/assetbuild/internal/assets"
)

type BuildCmd struct {
	Config  string `help:"build definition (.yaml, .yml, .json or .hcl)" default:"assetbuild.yaml" env:"ASSETBUILD_CONFIG" type:"path"`
	WorkDir string `help:"directory entry points are resolved against" default:"" env:"ASSETBUILD_WORKDIR"`
	Mode    string `help:"override the definition's mode (development or production)" default:"" env:"ASSETBUILD_MODE"`
}

func (b *BuildCmd) Run(ctx context.Context, globals *Globals) error {
	ctx, shutdown := globals.setup(ctx, "build", b.Config)
	defer shutdown()

	spec, err := loadSpec(ctx, b.Config, b.Mode)
	if err != nil {
		return err
	}

	pipeline, err := assets.New(spec, assets.Config{WorkingDir: b.WorkDir})
	if err != nil {
		return fmt.Errorf("failed to create asset pipeline: %w", err)
	}

	result, err := pipeline.Build(ctx)
	if err != nil {
		return fmt.Errorf("failed to build assets: %w", err)
	}

	zerolog.Ctx(ctx).Info().
		Str("build_id", result.BuildID).
		Str("outdir", pipeline.OutputDir()).
		Int("entries", len(result.Manifest.Entries)).
		Msg("Assets built")
	return nil
}
