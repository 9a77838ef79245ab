package buildspec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a build definition from disk. The decoder is selected by file
// extension: .yaml, .yml and .json are read as YAML, .hcl as HCL.
func Load(path string) (RawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RawConfig{}, fmt.Errorf("failed to read build config: %w", err)
	}
	return Decode(path, data)
}

// LoadAndResolve loads and validates a build definition.
func LoadAndResolve(path string) (*BuildSpec, error) {
	raw, err := Load(path)
	if err != nil {
		return nil, err
	}
	return Resolve(raw)
}

// Decode parses data using the format implied by filename.
func Decode(filename string, data []byte) (RawConfig, error) {
	switch format(filename) {
	case "yaml", "json":
		return decodeYAML(filename, data)
	case "hcl":
		return decodeHCL(filename, data)
	default:
		return RawConfig{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}
}

// Encode renders raw in the format implied by filename. JSON output is not
// supported; YAML is a superset and is used instead.
func Encode(filename string, raw RawConfig) ([]byte, error) {
	switch format(filename) {
	case "yaml":
		return yaml.Marshal(raw)
	case "hcl":
		return encodeHCL(raw), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}
}

func decodeYAML(filename string, data []byte) (RawConfig, error) {
	var raw RawConfig

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return RawConfig{}, nil
		}
		return RawConfig{}, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	return raw, nil
}

func format(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	case ".hcl":
		return "hcl"
	default:
		return ""
	}
}
