package assets

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/wolfeidau/assetbuild/internal/buildspec"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	defaultTemplate = "index.html"
	defaultTitle    = "Webpack App"
)

// Page is the data handed to the HTML template.
type Page struct {
	Title      string
	Scripts    []string
	Preloads   []string
	Styles     []string
	LiveReload bool
	// Entries maps entry point names to their script.
	Entries map[string]string
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"marshal": marshal,
		"safe": func(s string) template.HTML {
			return template.HTML(s) //nolint:gosec
		},
	}
}

// loadTemplate parses a user supplied template, or the embedded default when
// path is empty.
func (p *Pipeline) loadTemplate(path string) (*template.Template, error) {
	if path == "" {
		return template.New(defaultTemplate).Funcs(templateFuncs()).ParseFS(templateFS, "templates/"+defaultTemplate)
	}

	path = absPath(p.workDir, path)
	tmpl, err := template.New(filepath.Base(path)).Funcs(templateFuncs()).ParseFiles(path)
	if err != nil {
		return nil, fmt.Errorf("%w: template: %w", ErrInvalidPluginOption, err)
	}
	return tmpl, nil
}

// page collects the scripts, preloads and styles for every entry point in
// entry name order.
func (p *Pipeline) page(meta *BuildMetadata, title string, liveReload bool) (*Page, error) {
	page := &Page{
		Title:      title,
		LiveReload: liveReload,
		Entries:    make(map[string]string),
	}

	for _, entry := range p.spec.EntryPoints() {
		outputPath, info, ok := p.entryOutput(meta, entry.Path)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, entry.Name)
		}

		script := p.publicPath(outputPath)
		page.Scripts = append(page.Scripts, script)
		page.Entries[entry.Name] = script

		if info.CSSBundle != "" {
			page.Styles = appendUnique(page.Styles, p.publicPath(info.CSSBundle))
		}

		visited := map[string]bool{outputPath: true}
		var deps []string
		addDependencies(meta, info, &deps, visited)
		for _, dep := range deps {
			page.Preloads = appendUnique(page.Preloads, p.publicPath(dep))
		}
	}

	return page, nil
}

// writePage renders the page into the output directory and returns the file
// it wrote.
func (p *Pipeline) writePage(tmpl *template.Template, filename string, page *Page) (api.OutputFile, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, page); err != nil {
		return api.OutputFile{}, fmt.Errorf("failed to render template: %w", err)
	}

	path := filepath.Join(p.outDir, filename)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return api.OutputFile{}, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return api.OutputFile{}, fmt.Errorf("failed to write html: %w", err)
	}
	return api.OutputFile{Path: path, Contents: buf.Bytes()}, nil
}

// htmlFilename validates the filename option, which must stay inside the
// output directory.
func htmlFilename(inv buildspec.PluginInvocation) (string, error) {
	name := inv.Option(buildspec.OptionFilename, "index.html")
	clean := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: filename %q must be inside the output directory", ErrInvalidPluginOption, name)
	}
	return clean, nil
}

func appendUnique(list []string, value string) []string {
	if slices.Contains(list, value) {
		return list
	}
	return append(list, value)
}
