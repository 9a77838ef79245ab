package buildspec

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"
)

// pluginAliases maps accepted spellings to their canonical plugin kind.
var pluginAliases = map[string]PluginKind{
	"cleanoutput":        PluginCleanOutput,
	"clean-output":       PluginCleanOutput,
	"cleanwebpackplugin": PluginCleanOutput,
	"generatehtml":       PluginGenerateHTML,
	"generate-html":      PluginGenerateHTML,
	"htmlwebpackplugin":  PluginGenerateHTML,
}

// sourceMapAliases includes the devtool names used by webpack configurations.
var sourceMapAliases = map[string]SourceMap{
	"none":              SourceMapNone,
	"false":             SourceMapNone,
	"inline":            SourceMapInline,
	"inline-source-map": SourceMapInline,
	"linked":            SourceMapLinked,
	"source-map":        SourceMapLinked,
	"external":          SourceMapExternal,
	"hidden-source-map": SourceMapExternal,
}

// Resolve validates a raw build definition and returns its canonical form.
// Entry points are sorted by name; rules and plugins keep declaration order.
// The first violation is returned as a *ConfigError.
func Resolve(raw RawConfig) (*BuildSpec, error) {
	spec := &BuildSpec{}

	var err error
	if spec.mode, err = resolveMode(raw.Mode); err != nil {
		return nil, err
	}
	if spec.entryPoints, err = resolveEntryPoints(raw.Entry); err != nil {
		return nil, err
	}
	if spec.output, err = resolveOutput(raw.Output); err != nil {
		return nil, err
	}
	if spec.rules, err = resolveRules(raw.Rules); err != nil {
		return nil, err
	}
	if spec.plugins, err = resolvePlugins(raw.Plugins); err != nil {
		return nil, err
	}
	if spec.devServer, err = resolveDevServer(raw.DevServer); err != nil {
		return nil, err
	}
	if spec.sourceMap, err = resolveSourceMap(raw.SourceMap, spec.mode); err != nil {
		return nil, err
	}

	return spec, nil
}

func resolveMode(mode string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(mode))) {
	case "", ModeProduction:
		return ModeProduction, nil
	case ModeDevelopment:
		return ModeDevelopment, nil
	default:
		return "", configErr(ErrInvalidMode, "mode", "%q is not development or production", mode)
	}
}

func resolveEntryPoints(raw RawEntries) ([]EntryPoint, error) {
	if len(raw) == 0 {
		return nil, &ConfigError{Kind: ErrMissingEntryPoints, Field: "entry"}
	}

	seen := make(map[string]struct{}, len(raw))
	entries := make([]EntryPoint, 0, len(raw))
	for i, e := range raw {
		field := fmt.Sprintf("entry[%d]", i)
		if e.Name == "" {
			return nil, configErr(ErrInvalidEntryPoint, field, "name is empty")
		}
		if e.Path == "" {
			return nil, configErr(ErrInvalidEntryPoint, field, "path for %q is empty", e.Name)
		}
		if _, ok := seen[e.Name]; ok {
			return nil, configErr(ErrDuplicateEntryName, field, "%q declared more than once", e.Name)
		}
		seen[e.Name] = struct{}{}
		entries = append(entries, EntryPoint(e))
	}

	slices.SortFunc(entries, func(a, b EntryPoint) int {
		return strings.Compare(a.Name, b.Name)
	})
	return entries, nil
}

func resolveOutput(raw RawOutput) (Output, error) {
	if !HasHashPlaceholder(raw.Filename) {
		return Output{}, configErr(ErrInvalidOutputPattern, "output.filename",
			"%q must contain [contenthash], [chunkhash] or [hash]", raw.Filename)
	}
	if strings.TrimSpace(raw.Path) == "" {
		return Output{}, &ConfigError{Kind: ErrInvalidOutputDirectory, Field: "output.path"}
	}

	var encodings []Encoding
	for _, enc := range raw.Precompress {
		e := Encoding(strings.ToLower(enc))
		switch e {
		case EncodingGzip, EncodingZstd:
		default:
			return Output{}, configErr(ErrUnknownEncoding, "output.precompress", "%q", enc)
		}
		if !slices.Contains(encodings, e) {
			encodings = append(encodings, e)
		}
	}

	return Output{
		FilenamePattern: raw.Filename,
		Directory:       filepath.Clean(raw.Path),
		Precompress:     encodings,
	}, nil
}

func resolveRules(raw []RawRule) ([]TransformRule, error) {
	var rules []TransformRule
	claimed := make(map[string]int)

	for i, r := range raw {
		field := fmt.Sprintf("rules[%d]", i)
		exts, ok := parseExtensions(r.Test)
		if !ok {
			return nil, configErr(ErrInvalidRule, field, "%q is not a file extension predicate", r.Test)
		}
		if len(r.Use) == 0 {
			return nil, configErr(ErrInvalidRule, field, "no handlers for %q", r.Test)
		}
		for _, h := range r.Use {
			if strings.TrimSpace(h) == "" {
				return nil, configErr(ErrInvalidRule, field, "empty handler for %q", r.Test)
			}
		}
		for _, ext := range exts {
			if prev, ok := claimed[ext]; ok {
				return nil, configErr(ErrOverlappingRules, field, "%s is already matched by rules[%d]", ext, prev)
			}
			claimed[ext] = i
		}

		rules = append(rules, TransformRule{
			MatchPattern: r.Test,
			Handlers:     slices.Clone([]string(r.Use)),
			Extensions:   exts,
		})
	}

	return rules, nil
}

func resolvePlugins(raw []RawPlugin) ([]PluginInvocation, error) {
	var plugins []PluginInvocation
	cleanAt, htmlAt := -1, -1

	for i, p := range raw {
		kind, ok := pluginAliases[strings.ToLower(strings.TrimSpace(p.Kind))]
		if !ok {
			return nil, configErr(ErrUnknownPluginKind, fmt.Sprintf("plugins[%d]", i), "%q", p.Kind)
		}
		switch kind {
		case PluginCleanOutput:
			if cleanAt < 0 {
				cleanAt = i
			}
		case PluginGenerateHTML:
			if htmlAt < 0 {
				htmlAt = i
			}
		}
		plugins = append(plugins, PluginInvocation{Kind: kind, Options: maps.Clone(p.Options)})
	}

	if cleanAt >= 0 && htmlAt >= 0 && htmlAt < cleanAt {
		return nil, configErr(ErrPluginOrder, "plugins",
			"%s at %d must come after %s at %d", PluginGenerateHTML, htmlAt, PluginCleanOutput, cleanAt)
	}
	return plugins, nil
}

func resolveDevServer(raw *RawDevServer) (*DevServer, error) {
	if raw == nil {
		return nil, nil
	}
	if strings.TrimSpace(raw.ContentBase) == "" {
		return nil, configErr(ErrInvalidDevServer, "devServer.contentBase", "must not be empty")
	}
	if raw.Port < 0 || raw.Port > 65535 {
		return nil, configErr(ErrInvalidDevServer, "devServer.port", "%d out of range", raw.Port)
	}
	return &DevServer{
		ContentBase: filepath.Clean(raw.ContentBase),
		HotReload:   raw.Hot,
		Host:        raw.Host,
		Port:        raw.Port,
	}, nil
}

func resolveSourceMap(raw string, mode Mode) (SourceMap, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		if mode == ModeDevelopment {
			return SourceMapInline, nil
		}
		return SourceMapNone, nil
	}
	sm, ok := sourceMapAliases[raw]
	if !ok {
		return "", configErr(ErrInvalidSourceMap, "sourceMap", "%q", raw)
	}
	return sm, nil
}

// Raw converts s back to its declarative form. Resolving the result
// yields an equal BuildSpec.
func (s *BuildSpec) Raw() RawConfig {
	raw := RawConfig{
		Mode:      string(s.mode),
		SourceMap: string(s.sourceMap),
		Output: RawOutput{
			Filename: s.output.FilenamePattern,
			Path:     s.output.Directory,
		},
	}

	for _, e := range s.entryPoints {
		raw.Entry = append(raw.Entry, RawEntry(e))
	}
	for _, enc := range s.output.Precompress {
		raw.Output.Precompress = append(raw.Output.Precompress, string(enc))
	}
	for _, r := range s.rules {
		raw.Rules = append(raw.Rules, RawRule{Test: r.MatchPattern, Use: slices.Clone(r.Handlers)})
	}
	for _, p := range s.plugins {
		raw.Plugins = append(raw.Plugins, RawPlugin{Kind: string(p.Kind), Options: maps.Clone(p.Options)})
	}
	if s.devServer != nil {
		raw.DevServer = &RawDevServer{
			ContentBase: s.devServer.ContentBase,
			Hot:         s.devServer.HotReload,
			Host:        s.devServer.Host,
			Port:        s.devServer.Port,
		}
	}

	return raw
}
