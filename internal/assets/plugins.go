package assets

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/assetbuild/internal/buildspec"
)

// plugins converts the BuildSpec plugin invocations into esbuild plugins, in
// declaration order. esbuild runs OnStart and OnEnd callbacks in plugin order.
func (p *Pipeline) plugins(liveReload bool) ([]api.Plugin, error) {
	var plugins []api.Plugin
	for _, inv := range p.spec.Plugins() {
		switch inv.Kind {
		case buildspec.PluginCleanOutput:
			plugins = append(plugins, p.cleanOutputPlugin())
		case buildspec.PluginGenerateHTML:
			plugin, err := p.generateHTMLPlugin(inv, liveReload)
			if err != nil {
				return nil, err
			}
			plugins = append(plugins, plugin)
		default:
			return nil, fmt.Errorf("%w: %s", buildspec.ErrUnknownPluginKind, inv.Kind)
		}
	}
	return plugins, nil
}

func (p *Pipeline) cleanOutputPlugin() api.Plugin {
	return api.Plugin{
		Name: "clean-output",
		Setup: func(build api.PluginBuild) {
			build.OnStart(func() (api.OnStartResult, error) {
				return api.OnStartResult{}, cleanDir(p.outDir, p.workDir)
			})
		},
	}
}

func (p *Pipeline) generateHTMLPlugin(inv buildspec.PluginInvocation, liveReload bool) (api.Plugin, error) {
	tmpl, err := p.loadTemplate(inv.Option(buildspec.OptionTemplate, ""))
	if err != nil {
		return api.Plugin{}, err
	}
	filename, err := htmlFilename(inv)
	if err != nil {
		return api.Plugin{}, err
	}
	title := inv.Option(buildspec.OptionTitle, defaultTitle)

	return api.Plugin{
		Name: "generate-html",
		Setup: func(build api.PluginBuild) {
			build.OnEnd(func(result *api.BuildResult) (api.OnEndResult, error) {
				if len(result.Errors) > 0 {
					return api.OnEndResult{}, nil
				}

				var meta BuildMetadata
				if err := json.Unmarshal([]byte(result.Metafile), &meta); err != nil {
					return api.OnEndResult{}, fmt.Errorf("failed to parse metafile: %w", err)
				}

				page, err := p.page(&meta, title, liveReload)
				if err != nil {
					return api.OnEndResult{}, err
				}

				file, err := p.writePage(tmpl, filename, page)
				if err != nil {
					return api.OnEndResult{}, err
				}
				if _, err := precompress([]api.OutputFile{file}, p.spec.Output().Precompress); err != nil {
					return api.OnEndResult{}, err
				}

				log.Info().Str("file", file.Path).Strs("scripts", page.Scripts).Msg("Generated html")
				return api.OnEndResult{}, nil
			})
		},
	}, nil
}

// cleanDir removes the contents of dir, keeping the directory itself. dir
// must sit below workDir. A missing directory is not an error.
func cleanDir(dir, workDir string) error {
	if !isParent(workDir, dir) {
		return fmt.Errorf("%w: %s is not inside %s", ErrUnsafeClean, dir, workDir)
	}

	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read output directory: %w", err)
	}

	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return fmt.Errorf("failed to clean output directory: %w", err)
		}
	}

	log.Debug().Str("dir", dir).Int("removed", len(entries)).Msg("Cleaned output directory")
	return nil
}

// isParent reports whether parent is an ancestor of child.
func isParent(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
