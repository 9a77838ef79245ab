package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type ValidateCmd struct {
	Config string `help:"build definition (.yaml, .yml, .json or .hcl)" default:"assetbuild.yaml" env:"ASSETBUILD_CONFIG" type:"path"`

	out io.Writer
}

func (v *ValidateCmd) Run(ctx context.Context, globals *Globals) error {
	ctx, shutdown := globals.setup(ctx, "validate", v.Config)
	defer shutdown()

	spec, err := loadSpec(ctx, v.Config, "")
	if err != nil {
		return err
	}

	fingerprint, err := spec.Fingerprint()
	if err != nil {
		return err
	}

	out := v.out
	if out == nil {
		out = os.Stdout
	}

	fmt.Fprintf(out, "# fingerprint: %s\n", fingerprint)
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(spec); err != nil {
		return fmt.Errorf("failed to encode build spec: %w", err)
	}
	return enc.Close()
}
