package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/wolfeidau/assetbuild/cmd/assetbuild/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Build    commands.BuildCmd    `cmd:"" help:"Build assets from a build definition"`
		Validate commands.ValidateCmd `cmd:"" help:"Validate a build definition and print its canonical form"`
		Serve    commands.ServeCmd    `cmd:"" help:"Run the development server with rebuild on change"`
		Init     commands.InitCmd     `cmd:"" help:"Write a sample build definition"`
		Debug    bool                 `help:"Enable debug mode."`
		Tracing  bool                 `help:"Export traces and metrics over OTLP." env:"ASSETBUILD_TRACING"`
		Version  kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	commands.LoadEnvFile()
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Tracing: cli.Tracing, Version: version})
	cmd.FatalIfErrorf(err)
}
