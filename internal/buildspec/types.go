package buildspec

import (
	"maps"
	"slices"
)

// Mode selects the optimisation profile handed to the bundler.
type Mode string

const (
	ModeDevelopment Mode = "development"
	ModeProduction  Mode = "production"
)

// PluginKind identifies a build lifecycle extension.
type PluginKind string

const (
	// PluginCleanOutput empties the output directory before a build starts.
	PluginCleanOutput PluginKind = "CleanOutput"
	// PluginGenerateHTML writes an HTML document referencing the built bundles.
	PluginGenerateHTML PluginKind = "GenerateHtml"
)

// SourceMap controls how source maps are emitted.
type SourceMap string

const (
	SourceMapNone     SourceMap = "none"
	SourceMapInline   SourceMap = "inline"
	SourceMapLinked   SourceMap = "linked"
	SourceMapExternal SourceMap = "external"
)

// Encoding is a precompression format written next to each output file.
type Encoding string

const (
	EncodingGzip Encoding = "gzip"
	EncodingZstd Encoding = "zstd"
)

// GenerateHtml options.
const (
	OptionTitle    = "title"
	OptionFilename = "filename"
	OptionTemplate = "template"
)

type EntryPoint struct {
	Name string
	Path string
}

type Output struct {
	FilenamePattern string
	Directory       string
	Precompress     []Encoding
}

type TransformRule struct {
	MatchPattern string
	Handlers     []string
	// Extensions claimed by MatchPattern, lower case with a leading dot.
	Extensions []string
}

// Matches reports whether the rule applies to the given file name.
func (r TransformRule) Matches(filename string) bool {
	ext := fileExt(filename)
	return ext != "" && slices.Contains(r.Extensions, ext)
}

type PluginInvocation struct {
	Kind    PluginKind
	Options map[string]string
}

// Option returns the named option or def when it is unset.
func (p PluginInvocation) Option(name, def string) string {
	if v, ok := p.Options[name]; ok && v != "" {
		return v
	}
	return def
}

type DevServer struct {
	ContentBase string
	HotReload   bool
	Host        string
	Port        int
}

// BuildSpec is the validated, canonical form of a build definition. It is
// created by Resolve and never mutated; accessors return copies.
type BuildSpec struct {
	mode        Mode
	entryPoints []EntryPoint
	output      Output
	rules       []TransformRule
	plugins     []PluginInvocation
	devServer   *DevServer
	sourceMap   SourceMap
}

func (s *BuildSpec) Mode() Mode { return s.mode }

func (s *BuildSpec) SourceMap() SourceMap { return s.sourceMap }

// EntryPoints returns the entry points sorted by name.
func (s *BuildSpec) EntryPoints() []EntryPoint { return slices.Clone(s.entryPoints) }

func (s *BuildSpec) Output() Output {
	out := s.output
	out.Precompress = slices.Clone(s.output.Precompress)
	return out
}

// Rules returns the transform rules in declaration order.
func (s *BuildSpec) Rules() []TransformRule {
	rules := make([]TransformRule, len(s.rules))
	for i, r := range s.rules {
		rules[i] = TransformRule{
			MatchPattern: r.MatchPattern,
			Handlers:     slices.Clone(r.Handlers),
			Extensions:   slices.Clone(r.Extensions),
		}
	}
	return rules
}

// Plugins returns the plugin invocations in execution order.
func (s *BuildSpec) Plugins() []PluginInvocation {
	plugins := make([]PluginInvocation, len(s.plugins))
	for i, p := range s.plugins {
		plugins[i] = PluginInvocation{Kind: p.Kind, Options: maps.Clone(p.Options)}
	}
	return plugins
}

// Plugin returns the first invocation of the given kind.
func (s *BuildSpec) Plugin(kind PluginKind) (PluginInvocation, bool) {
	for _, p := range s.plugins {
		if p.Kind == kind {
			return PluginInvocation{Kind: p.Kind, Options: maps.Clone(p.Options)}, true
		}
	}
	return PluginInvocation{}, false
}

// DevServer returns nil when no dev server is configured.
func (s *BuildSpec) DevServer() *DevServer {
	if s.devServer == nil {
		return nil
	}
	ds := *s.devServer
	return &ds
}

// RuleFor returns the rule whose pattern claims the file name.
func (s *BuildSpec) RuleFor(filename string) (TransformRule, bool) {
	for _, r := range s.Rules() {
		if r.Matches(filename) {
			return r, true
		}
	}
	return TransformRule{}, false
}
