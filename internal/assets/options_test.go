package assets

import (
	"path/filepath"
	"testing"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/assetbuild/internal/buildspec"
)

func sampleSpec(t *testing.T, mutate ...func(raw *buildspec.RawConfig)) *buildspec.BuildSpec {
	t.Helper()
	raw := buildspec.Sample()
	for _, fn := range mutate {
		fn(&raw)
	}
	spec, err := buildspec.Resolve(raw)
	require.NoError(t, err)
	return spec
}

func TestEntryNames(t *testing.T) {
	tests := []struct {
		pattern  string
		expected string
	}{
		{pattern: "[name].[contentHash].bundle.js", expected: "[name].[hash].bundle"},
		{pattern: "[name].[contenthash:8].js", expected: "[name].[hash]"},
		{pattern: "js/[name]-[chunkhash]", expected: "js/[name]-[hash]"},
		{pattern: "[hash].min.js", expected: "[hash].min"},
		{pattern: "[name].[hash].mjs", expected: "[name].[hash]"},
		{pattern: "[name].[chunkhash].cjs", expected: "[name].[hash]"},
		{pattern: "[name].[hash].bundle", expected: "[name].[hash].bundle"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			require.Equal(t, tt.expected, EntryNames(tt.pattern))
		})
	}
}

func TestOutputExtension(t *testing.T) {
	require.Equal(t, ".js", OutputExtension("[name].[contentHash].bundle.js"))
	require.Equal(t, ".mjs", OutputExtension("[name].[hash].mjs"))
	require.Equal(t, ".cjs", OutputExtension("[name].[hash].cjs"))
	require.Equal(t, ".js", OutputExtension("js/[name]-[chunkhash]"))
}

func TestBuildOptions_ModuleExtension(t *testing.T) {
	spec := sampleSpec(t, func(raw *buildspec.RawConfig) {
		raw.Output.Filename = "[name].[contenthash].mjs"
	})
	p, err := New(spec, Config{WorkingDir: t.TempDir()})
	require.NoError(t, err)

	opts, err := p.BuildOptions()
	require.NoError(t, err)
	assert.Equal(t, "[name].[hash]", opts.EntryNames)
	assert.Equal(t, map[string]string{".js": ".mjs"}, opts.OutExtension)

	p, err = New(sampleSpec(t), Config{WorkingDir: t.TempDir()})
	require.NoError(t, err)
	opts, err = p.BuildOptions()
	require.NoError(t, err)
	assert.Empty(t, opts.OutExtension)
}

func TestLoaders(t *testing.T) {
	spec := sampleSpec(t)

	loaders, err := Loaders(spec.Rules())
	require.NoError(t, err)

	assert.Equal(t, api.LoaderCSS, loaders[".css"])
	for _, ext := range []string{".svg", ".png", ".jpg", ".gif", ".woff", ".woff2", ".eot", ".ttf", ".otf"} {
		assert.Equal(t, api.LoaderFile, loaders[ext], ext)
	}
	assert.Len(t, loaders, 10)
}

func TestLoaders_LastHandlerWins(t *testing.T) {
	spec := sampleSpec(t, func(raw *buildspec.RawConfig) {
		raw.Rules = []buildspec.RawRule{{Test: `\.txt$`, Use: buildspec.StringList{"file-loader", "raw-loader"}}}
	})

	loaders, err := Loaders(spec.Rules())
	require.NoError(t, err)
	require.Equal(t, api.LoaderText, loaders[".txt"])
}

func TestLoaders_UnknownHandler(t *testing.T) {
	spec := sampleSpec(t, func(raw *buildspec.RawConfig) {
		raw.Rules[0].Use = buildspec.StringList{"sass-loader"}
	})

	_, err := Loaders(spec.Rules())
	require.ErrorIs(t, err, ErrUnknownHandler)

	p, err := New(spec, Config{WorkingDir: t.TempDir()})
	require.NoError(t, err)
	_, err = p.BuildOptions()
	require.ErrorIs(t, err, ErrUnknownHandler)
}

func TestBuildOptions(t *testing.T) {
	workDir := t.TempDir()
	p, err := New(sampleSpec(t), Config{WorkingDir: workDir})
	require.NoError(t, err)

	opts, err := p.BuildOptions()
	require.NoError(t, err)

	require.Equal(t, []api.EntryPoint{
		{InputPath: "./src/sayHello.js", OutputPath: "hello"},
		{InputPath: "./src/index.js", OutputPath: "main"},
	}, opts.EntryPointsAdvanced)
	assert.Equal(t, filepath.Join(workDir, "dist"), opts.Outdir)
	assert.Equal(t, "[name].[hash].bundle", opts.EntryNames)
	assert.Equal(t, api.SourceMapInline, opts.Sourcemap)
	assert.False(t, opts.MinifyWhitespace)
	assert.True(t, opts.Metafile)
	assert.True(t, opts.Bundle)
	assert.Equal(t, `"development"`, opts.Define["process.env.NODE_ENV"])

	require.Len(t, opts.Plugins, 2)
	assert.Equal(t, "clean-output", opts.Plugins[0].Name)
	assert.Equal(t, "generate-html", opts.Plugins[1].Name)
}

func TestBuildOptions_Production(t *testing.T) {
	spec := sampleSpec(t, func(raw *buildspec.RawConfig) {
		raw.Mode = "production"
		raw.SourceMap = ""
		raw.Plugins = nil
	})
	p, err := New(spec, Config{WorkingDir: t.TempDir()})
	require.NoError(t, err)

	opts, err := p.BuildOptions()
	require.NoError(t, err)
	assert.True(t, opts.MinifyWhitespace)
	assert.True(t, opts.MinifyIdentifiers)
	assert.True(t, opts.MinifySyntax)
	assert.Equal(t, api.SourceMapNone, opts.Sourcemap)
	assert.Empty(t, opts.Plugins)
}

func TestBuildOptions_InvalidHTMLFilename(t *testing.T) {
	spec := sampleSpec(t, func(raw *buildspec.RawConfig) {
		raw.Plugins[1].Options[buildspec.OptionFilename] = "../escape.html"
	})
	p, err := New(spec, Config{WorkingDir: t.TempDir()})
	require.NoError(t, err)

	_, err = p.BuildOptions()
	require.ErrorIs(t, err, ErrInvalidPluginOption)
}

func TestBuildOptions_MissingTemplate(t *testing.T) {
	spec := sampleSpec(t, func(raw *buildspec.RawConfig) {
		raw.Plugins[1].Options[buildspec.OptionTemplate] = "missing.html"
	})
	p, err := New(spec, Config{WorkingDir: t.TempDir()})
	require.NoError(t, err)

	_, err = p.BuildOptions()
	require.ErrorIs(t, err, ErrInvalidPluginOption)
}
