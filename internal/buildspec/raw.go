package buildspec

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// RawConfig is the declarative build definition as written by a user, before
// validation. It decodes from YAML or JSON and is produced by the HCL loader.
type RawConfig struct {
	Mode      string        `yaml:"mode,omitempty"`
	SourceMap string        `yaml:"sourceMap,omitempty"`
	Entry     RawEntries    `yaml:"entry"`
	Output    RawOutput     `yaml:"output"`
	Rules     []RawRule     `yaml:"rules,omitempty"`
	Plugins   []RawPlugin   `yaml:"plugins,omitempty"`
	DevServer *RawDevServer `yaml:"devServer,omitempty"`
}

type RawEntry struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// RawEntries keeps entry points in declaration order, duplicates included.
// It accepts a mapping of name to path, a sequence of {name, path} records,
// or a single path which is named "main".
type RawEntries []RawEntry

func (e *RawEntries) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*e = RawEntries{{Name: "main", Path: value.Value}}
		return nil
	case yaml.MappingNode:
		entries := make(RawEntries, 0, len(value.Content)/2)
		for i := 0; i+1 < len(value.Content); i += 2 {
			key, val := value.Content[i], value.Content[i+1]
			if val.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: entry %q must map to a file path", val.Line, key.Value)
			}
			entries = append(entries, RawEntry{Name: key.Value, Path: val.Value})
		}
		*e = entries
		return nil
	case yaml.SequenceNode:
		var entries []RawEntry
		if err := value.Decode(&entries); err != nil {
			return err
		}
		*e = entries
		return nil
	default:
		return fmt.Errorf("line %d: entry must be a path, mapping or list", value.Line)
	}
}

func (e RawEntries) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, entry := range e {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: entry.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: entry.Path},
		)
	}
	return node, nil
}

type RawOutput struct {
	Filename    string   `yaml:"filename"`
	Path        string   `yaml:"path"`
	Precompress []string `yaml:"precompress,omitempty"`
}

type RawRule struct {
	Test string     `yaml:"test"`
	Use  StringList `yaml:"use"`
}

// StringList decodes from either a single string or a list of strings.
type StringList []string

func (s *StringList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*s = StringList{value.Value}
		return nil
	}
	var list []string
	if err := value.Decode(&list); err != nil {
		return err
	}
	*s = list
	return nil
}

type RawPlugin struct {
	Kind    string            `yaml:"kind"`
	Options map[string]string `yaml:"options,omitempty"`
}

type RawDevServer struct {
	ContentBase string `yaml:"contentBase"`
	Hot         bool   `yaml:"hot,omitempty"`
	Host        string `yaml:"host,omitempty"`
	Port        int    `yaml:"port,omitempty"`
}

// Sample returns the two entry point application definition used by init and
// in tests.
func Sample() RawConfig {
	return RawConfig{
		Mode:      string(ModeDevelopment),
		SourceMap: "inline-source-map",
		Entry: RawEntries{
			{Name: "main", Path: "./src/index.js"},
			{Name: "hello", Path: "./src/sayHello.js"},
		},
		Output: RawOutput{
			Filename: "[name].[contentHash].bundle.js",
			Path:     "dist",
		},
		Rules: []RawRule{
			{Test: `\.css$`, Use: StringList{"style-loader", "css-loader"}},
			{Test: `\.(svg|png|jpg|gif)`, Use: StringList{"file-loader"}},
			{Test: `\.(woff|woff2|eot|ttf|otf)`, Use: StringList{"file-loader"}},
		},
		Plugins: []RawPlugin{
			{Kind: string(PluginCleanOutput)},
			{Kind: string(PluginGenerateHTML), Options: map[string]string{OptionTitle: "Sample webpack app"}},
		},
		DevServer: &RawDevServer{
			ContentBase: "./dist",
			Hot:         true,
		},
	}
}
