package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/wolfeidau/assetbuild/internal/buildspec"
)

type InitCmd struct {
	Output string `help:"file to write, format chosen by extension (.yaml, .yml or .hcl)" default:"assetbuild.yaml" type:"path"`
	Force  bool   `help:"overwrite an existing file" default:"false"`
}

func (i *InitCmd) Run(ctx context.Context, globals *Globals) error {
	ctx, shutdown := globals.setup(ctx, "init", i.Output)
	defer shutdown()

	if !i.Force {
		if _, err := os.Stat(i.Output); err == nil {
			return fmt.Errorf("%s already exists, use --force to overwrite", i.Output)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to check %s: %w", i.Output, err)
		}
	}

	data, err := buildspec.Encode(i.Output, buildspec.Sample())
	if err != nil {
		return err
	}

	if dir := filepath.Dir(i.Output); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(i.Output, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", i.Output, err)
	}

	zerolog.Ctx(ctx).Info().Str("file", i.Output).Msg("Wrote sample build definition")
	return nil
}
