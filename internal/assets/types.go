package assets

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/wolfeidau/assetbuild/internal/buildspec"
)

// BuildMetadata is the subset of the esbuild metafile the pipeline reads.
// Output keys are relative to the working directory.
type BuildMetadata struct {
	Outputs map[string]OutputInfo `json:"outputs"`
}

type OutputInfo struct {
	EntryPoint string       `json:"entryPoint"`
	Imports    []ImportInfo `json:"imports"`
	CSSBundle  string       `json:"cssBundle"`
	Bytes      int64        `json:"bytes"`
}

type ImportInfo struct {
	Path     string `json:"path"`
	Kind     string `json:"kind"`
	External bool   `json:"external"`
}

// Pipeline builds the assets described by a resolved BuildSpec
type Pipeline struct {
	spec     *buildspec.BuildSpec
	config   Config
	workDir  string
	outDir   string
	metadata *BuildMetadata
	mu       sync.RWMutex
}

// New creates a new asset pipeline for the given build spec
func New(spec *buildspec.BuildSpec, config Config) (*Pipeline, error) {
	if spec == nil {
		return nil, errors.New("build spec is required")
	}

	workDir := config.WorkingDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to determine working directory: %w", err)
		}
		workDir = wd
	}
	workDir, err := filepath.Abs(workDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}

	defaults := DefaultConfig()
	if config.MetafileName == "" {
		config.MetafileName = defaults.MetafileName
	}
	if config.ManifestName == "" {
		config.ManifestName = defaults.ManifestName
	}

	return &Pipeline{
		spec:    spec,
		config:  config,
		workDir: workDir,
		outDir:  absPath(workDir, spec.Output().Directory),
	}, nil
}

// OutputDir returns the absolute output directory.
func (p *Pipeline) OutputDir() string {
	return p.outDir
}

// entryOutput finds the JavaScript output produced for an entry point path.
func (p *Pipeline) entryOutput(meta *BuildMetadata, entryPath string) (string, OutputInfo, bool) {
	want := absPath(p.workDir, entryPath)
	ext := OutputExtension(p.spec.Output().FilenamePattern)
	for outputPath, info := range meta.Outputs {
		if info.EntryPoint == "" || !strings.HasSuffix(outputPath, ext) {
			continue
		}
		if absPath(p.workDir, filepath.FromSlash(info.EntryPoint)) == want {
			return outputPath, info, true
		}
	}
	return "", OutputInfo{}, false
}

// publicPath converts a metafile path into a slash separated path relative
// to the output directory.
func (p *Pipeline) publicPath(metaPath string) string {
	abs := absPath(p.workDir, filepath.FromSlash(metaPath))
	rel, err := filepath.Rel(p.outDir, abs)
	if err != nil {
		return filepath.ToSlash(metaPath)
	}
	return filepath.ToSlash(rel)
}

func absPath(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}

func marshal(value any) string {
	buf := new(bytes.Buffer)

	if err := json.NewEncoder(buf).Encode(value); err != nil {
		panic(errors.New("context can only be json serializable"))
	}

	return buf.String()
}
