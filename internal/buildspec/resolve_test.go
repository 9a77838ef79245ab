package buildspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_Sample(t *testing.T) {
	spec, err := Resolve(Sample())
	require.NoError(t, err)

	require.Equal(t, ModeDevelopment, spec.Mode())
	require.Equal(t, SourceMapInline, spec.SourceMap())

	// entries sorted by name, none renamed or dropped
	require.Equal(t, []EntryPoint{
		{Name: "hello", Path: "./src/sayHello.js"},
		{Name: "main", Path: "./src/index.js"},
	}, spec.EntryPoints())

	rules := spec.Rules()
	require.Len(t, rules, 3)
	assert.Equal(t, []string{".css"}, rules[0].Extensions)
	assert.Equal(t, []string{"style-loader", "css-loader"}, rules[0].Handlers)
	assert.Equal(t, []string{".svg", ".png", ".jpg", ".gif"}, rules[1].Extensions)
	assert.Equal(t, []string{".woff", ".woff2", ".eot", ".ttf", ".otf"}, rules[2].Extensions)

	plugins := spec.Plugins()
	require.Len(t, plugins, 2)
	assert.Equal(t, PluginCleanOutput, plugins[0].Kind)
	assert.Equal(t, PluginGenerateHTML, plugins[1].Kind)
	assert.Equal(t, "Sample webpack app", plugins[1].Option(OptionTitle, ""))

	out := spec.Output()
	assert.Equal(t, "[name].[contentHash].bundle.js", out.FilenamePattern)
	assert.Equal(t, "dist", out.Directory)

	ds := spec.DevServer()
	require.NotNil(t, ds)
	assert.Equal(t, "dist", ds.ContentBase)
	assert.True(t, ds.HotReload)
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(raw *RawConfig)
		errType error
	}{
		{
			name:    "no entry points",
			mutate:  func(raw *RawConfig) { raw.Entry = nil },
			errType: ErrMissingEntryPoints,
		},
		{
			name:    "filename without hash",
			mutate:  func(raw *RawConfig) { raw.Output.Filename = "bundle.js" },
			errType: ErrInvalidOutputPattern,
		},
		{
			name: "duplicate entry name",
			mutate: func(raw *RawConfig) {
				raw.Entry = RawEntries{{Name: "main", Path: "./a.js"}, {Name: "main", Path: "./b.js"}}
			},
			errType: ErrDuplicateEntryName,
		},
		{
			name:    "unknown plugin",
			mutate:  func(raw *RawConfig) { raw.Plugins = append(raw.Plugins, RawPlugin{Kind: "MinifyEverything"}) },
			errType: ErrUnknownPluginKind,
		},
		{
			name:    "empty entry path",
			mutate:  func(raw *RawConfig) { raw.Entry = RawEntries{{Name: "main"}} },
			errType: ErrInvalidEntryPoint,
		},
		{
			name:    "empty output directory",
			mutate:  func(raw *RawConfig) { raw.Output.Path = " " },
			errType: ErrInvalidOutputDirectory,
		},
		{
			name:    "empty rule pattern",
			mutate:  func(raw *RawConfig) { raw.Rules[0].Test = "" },
			errType: ErrInvalidRule,
		},
		{
			name:    "non extension pattern",
			mutate:  func(raw *RawConfig) { raw.Rules[0].Test = `^src/.*` },
			errType: ErrInvalidRule,
		},
		{
			name:    "rule without handlers",
			mutate:  func(raw *RawConfig) { raw.Rules[0].Use = nil },
			errType: ErrInvalidRule,
		},
		{
			name: "overlapping rules",
			mutate: func(raw *RawConfig) {
				raw.Rules = append(raw.Rules, RawRule{Test: `\.(png|webp)$`, Use: StringList{"url-loader"}})
			},
			errType: ErrOverlappingRules,
		},
		{
			name: "html before clean",
			mutate: func(raw *RawConfig) {
				raw.Plugins[0], raw.Plugins[1] = raw.Plugins[1], raw.Plugins[0]
			},
			errType: ErrPluginOrder,
		},
		{
			name:    "unknown mode",
			mutate:  func(raw *RawConfig) { raw.Mode = "staging" },
			errType: ErrInvalidMode,
		},
		{
			name:    "dev server without content base",
			mutate:  func(raw *RawConfig) { raw.DevServer.ContentBase = "" },
			errType: ErrInvalidDevServer,
		},
		{
			name:    "dev server port out of range",
			mutate:  func(raw *RawConfig) { raw.DevServer.Port = 70000 },
			errType: ErrInvalidDevServer,
		},
		{
			name:    "unknown encoding",
			mutate:  func(raw *RawConfig) { raw.Output.Precompress = []string{"lzma"} },
			errType: ErrUnknownEncoding,
		},
		{
			name:    "unknown source map",
			mutate:  func(raw *RawConfig) { raw.SourceMap = "eval-cheap-module" },
			errType: ErrInvalidSourceMap,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := Sample()
			tt.mutate(&raw)

			spec, err := Resolve(raw)
			require.Error(t, err)
			require.Nil(t, spec)
			require.ErrorIs(t, err, tt.errType)

			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			require.Equal(t, tt.errType, cfgErr.Kind)
		})
	}
}

func TestResolve_Defaults(t *testing.T) {
	spec, err := Resolve(RawConfig{
		Entry:  RawEntries{{Name: "app", Path: "./app.js"}},
		Output: RawOutput{Filename: "[name].[contenthash:8].js", Path: "./public/"},
	})
	require.NoError(t, err)

	require.Equal(t, ModeProduction, spec.Mode())
	require.Equal(t, SourceMapNone, spec.SourceMap())
	require.Equal(t, "public", spec.Output().Directory)
	require.Nil(t, spec.DevServer())
	require.Empty(t, spec.Rules())
	require.Empty(t, spec.Plugins())
}

func TestResolve_PluginAliases(t *testing.T) {
	raw := Sample()
	raw.Plugins = []RawPlugin{
		{Kind: "CleanWebpackPlugin"},
		{Kind: "html-webpack-plugin"},
	}

	_, err := Resolve(raw)
	require.ErrorIs(t, err, ErrUnknownPluginKind)

	raw.Plugins[1].Kind = "HtmlWebpackPlugin"
	spec, err := Resolve(raw)
	require.NoError(t, err)

	plugins := spec.Plugins()
	require.Equal(t, PluginCleanOutput, plugins[0].Kind)
	require.Equal(t, PluginGenerateHTML, plugins[1].Kind)
}

func TestResolve_Idempotent(t *testing.T) {
	raw := Sample()
	raw.Output.Precompress = []string{"zstd", "GZIP", "zstd"}

	first, err := Resolve(raw)
	require.NoError(t, err)

	second, err := Resolve(first.Raw())
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, []Encoding{EncodingZstd, EncodingGzip}, second.Output().Precompress)

	fp1, err := first.Fingerprint()
	require.NoError(t, err)
	fp2, err := second.Fingerprint()
	require.NoError(t, err)
	require.Equal(t, fp1, fp2)
	require.NotEmpty(t, fp1)
}

func TestResolve_FingerprintIgnoresEntryOrder(t *testing.T) {
	a := Sample()
	b := Sample()
	b.Entry[0], b.Entry[1] = b.Entry[1], b.Entry[0]

	specA, err := Resolve(a)
	require.NoError(t, err)
	specB, err := Resolve(b)
	require.NoError(t, err)

	fpA, err := specA.Fingerprint()
	require.NoError(t, err)
	fpB, err := specB.Fingerprint()
	require.NoError(t, err)
	require.Equal(t, fpA, fpB)

	b.Output.Path = "build"
	specC, err := Resolve(b)
	require.NoError(t, err)
	fpC, err := specC.Fingerprint()
	require.NoError(t, err)
	require.NotEqual(t, fpA, fpC)
}

func TestBuildSpec_AccessorsReturnCopies(t *testing.T) {
	spec, err := Resolve(Sample())
	require.NoError(t, err)

	rules := spec.Rules()
	rules[0].Handlers[0] = "mutated"
	plugins := spec.Plugins()
	plugins[1].Options[OptionTitle] = "mutated"
	entries := spec.EntryPoints()
	entries[0].Name = "mutated"

	require.Equal(t, "style-loader", spec.Rules()[0].Handlers[0])
	require.Equal(t, "Sample webpack app", spec.Plugins()[1].Options[OptionTitle])
	require.Equal(t, "hello", spec.EntryPoints()[0].Name)
}

func TestBuildSpec_RuleFor(t *testing.T) {
	spec, err := Resolve(Sample())
	require.NoError(t, err)

	rule, ok := spec.RuleFor("styles/Main.CSS")
	require.True(t, ok)
	require.Equal(t, `\.css$`, rule.MatchPattern)

	rule, ok = spec.RuleFor("fonts/icons.woff2")
	require.True(t, ok)
	require.Equal(t, []string{"file-loader"}, rule.Handlers)

	_, ok = spec.RuleFor("src/index.js")
	require.False(t, ok)
}

func TestResolve_RegexRulePatterns(t *testing.T) {
	raw := Sample()
	raw.Rules = []RawRule{
		{Test: `\.jsx?$`, Use: StringList{"babel-loader"}},
		{Test: `\.(png|jpe?g|gif)$`, Use: StringList{"file-loader"}},
		{Test: `\.s[ac]ss$`, Use: StringList{"style-loader", "css-loader"}},
		{Test: `/\.css$/`, Use: StringList{"css-loader"}},
	}

	spec, err := Resolve(raw)
	require.NoError(t, err)

	rules := spec.Rules()
	require.Len(t, rules, 4)
	assert.Equal(t, []string{".jsx", ".js"}, rules[0].Extensions)
	assert.Equal(t, []string{".png", ".jpeg", ".jpg", ".gif"}, rules[1].Extensions)
	assert.Equal(t, []string{".sass", ".scss"}, rules[2].Extensions)
	assert.Equal(t, []string{".css"}, rules[3].Extensions)

	rule, ok := spec.RuleFor("photo.JPEG")
	require.True(t, ok)
	assert.Equal(t, `\.(png|jpe?g|gif)$`, rule.MatchPattern)

	raw.Rules = append(raw.Rules, RawRule{Test: `\.m?js$`, Use: StringList{"babel-loader"}})
	_, err = Resolve(raw)
	require.ErrorIs(t, err, ErrOverlappingRules)
}

func TestConfigError_Message(t *testing.T) {
	err := &ConfigError{Kind: ErrDuplicateEntryName, Field: "entry[1]", Detail: `"main" declared more than once`}
	require.Equal(t, `entry[1]: duplicate entry point name: "main" declared more than once`, err.Error())

	err = &ConfigError{Kind: ErrMissingEntryPoints}
	require.Equal(t, "no entry points declared", err.Error())
}
