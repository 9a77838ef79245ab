package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/wolfeidau/assetbuild/internal/assets"
)

type ServeCmd struct {
	Config  string `help:"build definition (.yaml, .yml, .json or .hcl)" default:"assetbuild.yaml" env:"ASSETBUILD_CONFIG" type:"path"`
	WorkDir string `help:"directory entry points are resolved against" default:"" env:"ASSETBUILD_WORKDIR"`
}

func (s *ServeCmd) Run(ctx context.Context, globals *Globals) error {
	ctx, shutdown := globals.setup(ctx, "serve", s.Config)
	defer shutdown()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	spec, err := loadSpec(ctx, s.Config, "")
	if err != nil {
		return err
	}

	pipeline, err := assets.New(spec, assets.Config{WorkingDir: s.WorkDir})
	if err != nil {
		return fmt.Errorf("failed to create asset pipeline: %w", err)
	}

	return pipeline.Serve(ctx)
}
