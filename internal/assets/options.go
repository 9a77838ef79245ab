package assets

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/wolfeidau/assetbuild/internal/buildspec"
)

// handlerLoaders maps rule handler identifiers onto esbuild loaders. The
// esbuild loader names are accepted directly as well.
var handlerLoaders = map[string]api.Loader{
	"style-loader":   api.LoaderCSS,
	"css-loader":     api.LoaderCSS,
	"postcss-loader": api.LoaderCSS,
	"file-loader":    api.LoaderFile,
	"url-loader":     api.LoaderDataURL,
	"raw-loader":     api.LoaderText,
	"json-loader":    api.LoaderJSON,
	"babel-loader":   api.LoaderJSX,
	"ts-loader":      api.LoaderTSX,

	"css":     api.LoaderCSS,
	"file":    api.LoaderFile,
	"dataurl": api.LoaderDataURL,
	"text":    api.LoaderText,
	"json":    api.LoaderJSON,
	"js":      api.LoaderJS,
	"jsx":     api.LoaderJSX,
	"ts":      api.LoaderTS,
	"tsx":     api.LoaderTSX,
	"base64":  api.LoaderBase64,
	"binary":  api.LoaderBinary,
	"copy":    api.LoaderCopy,
	"empty":   api.LoaderEmpty,
}

// scriptExtensions are the output extensions a filename pattern may end in.
var scriptExtensions = []string{".js", ".mjs", ".cjs"}

// EntryNames converts an output filename pattern into an esbuild entry name
// template. Every hash placeholder becomes [hash] and a trailing script
// extension is dropped because esbuild appends it.
func EntryNames(pattern string) string {
	names := buildspec.ReplaceHashPlaceholders(pattern, "[hash]")
	return strings.TrimSuffix(names, OutputExtension(pattern))
}

// OutputExtension returns the script extension the filename pattern ends in,
// .js when it names none.
func OutputExtension(pattern string) string {
	ext := strings.ToLower(path.Ext(pattern))
	if slices.Contains(scriptExtensions, ext) {
		return pattern[len(pattern)-len(ext):]
	}
	return ".js"
}

// Loaders maps every extension claimed by the rules to the loader of the
// last handler in the rule's chain.
func Loaders(rules []buildspec.TransformRule) (map[string]api.Loader, error) {
	loaders := make(map[string]api.Loader)
	for _, rule := range rules {
		var loader api.Loader
		for _, handler := range rule.Handlers {
			l, ok := handlerLoaders[strings.ToLower(handler)]
			if !ok {
				return nil, fmt.Errorf("%w: %q in rule %s", ErrUnknownHandler, handler, rule.MatchPattern)
			}
			loader = l
		}
		for _, ext := range rule.Extensions {
			loaders[ext] = loader
		}
	}
	return loaders, nil
}

// BuildOptions translates the build spec into esbuild options.
func (p *Pipeline) BuildOptions() (api.BuildOptions, error) {
	return p.buildOptions(false)
}

func (p *Pipeline) buildOptions(liveReload bool) (api.BuildOptions, error) {
	loaders, err := Loaders(p.spec.Rules())
	if err != nil {
		return api.BuildOptions{}, err
	}

	plugins, err := p.plugins(liveReload)
	if err != nil {
		return api.BuildOptions{}, err
	}

	var entryPoints []api.EntryPoint
	for _, entry := range p.spec.EntryPoints() {
		entryPoints = append(entryPoints, api.EntryPoint{
			InputPath:  entry.Path,
			OutputPath: entry.Name,
		})
	}

	minify := p.spec.Mode() == buildspec.ModeProduction
	pattern := p.spec.Output().FilenamePattern
	entryNames := EntryNames(pattern)

	var outExtension map[string]string
	if ext := OutputExtension(pattern); ext != ".js" {
		outExtension = map[string]string{".js": ext}
	}

	return api.BuildOptions{
		AbsWorkingDir:       p.workDir,
		EntryPointsAdvanced: entryPoints,
		Bundle:              true,
		Splitting:           true,
		Write:               true,
		Outdir:              p.outDir,
		EntryNames:          entryNames,
		OutExtension:        outExtension,
		ChunkNames:          "chunks/[name].[hash]",
		AssetNames:          "assets/[name].[hash]",
		Format:              api.FormatESModule,
		Platform:            api.PlatformBrowser,
		Loader:              loaders,
		MinifyWhitespace:    minify,
		MinifyIdentifiers:   minify,
		MinifySyntax:        minify,
		TreeShaking:         api.TreeShakingTrue,
		Sourcemap:           sourceMap(p.spec.SourceMap()),
		Define: map[string]string{
			"process.env.NODE_ENV": fmt.Sprintf("%q", p.spec.Mode()),
		},
		Metafile: true,
		LogLevel: api.LogLevelSilent,
		Plugins:  plugins,
	}, nil
}

func sourceMap(sm buildspec.SourceMap) api.SourceMap {
	switch sm {
	case buildspec.SourceMapInline:
		return api.SourceMapInline
	case buildspec.SourceMapLinked:
		return api.SourceMapLinked
	case buildspec.SourceMapExternal:
		return api.SourceMapExternal
	default:
		return api.SourceMapNone
	}
}
