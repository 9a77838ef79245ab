package assets

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/minio/crc64nvme"
)

// Manifest records what a build emitted, keyed by entry point name.
type Manifest struct {
	BuildID     string                   `json:"build_id"`
	Fingerprint string                   `json:"fingerprint"`
	Mode        string                   `json:"mode"`
	Entries     map[string]ManifestEntry `json:"entries"`
	Files       []ManifestFile           `json:"files"`
}

type ManifestEntry struct {
	Script  string   `json:"script"`
	CSS     string   `json:"css,omitempty"`
	Imports []string `json:"imports,omitempty"`
}

type ManifestFile struct {
	Path  string `json:"path"`
	Bytes int    `json:"bytes"`
	CRC64 string `json:"crc64nvme"`
}

func (p *Pipeline) buildManifest(buildID, fingerprint string, meta *BuildMetadata, files []api.OutputFile) (*Manifest, error) {
	manifest := &Manifest{
		BuildID:     buildID,
		Fingerprint: fingerprint,
		Mode:        string(p.spec.Mode()),
		Entries:     make(map[string]ManifestEntry),
	}

	for _, entry := range p.spec.EntryPoints() {
		outputPath, info, ok := p.entryOutput(meta, entry.Path)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, entry.Name)
		}

		me := ManifestEntry{Script: p.publicPath(outputPath)}
		if info.CSSBundle != "" {
			me.CSS = p.publicPath(info.CSSBundle)
		}

		var deps []string
		addDependencies(meta, info, &deps, map[string]bool{outputPath: true})
		for _, dep := range deps {
			me.Imports = append(me.Imports, p.publicPath(dep))
		}
		manifest.Entries[entry.Name] = me
	}

	for _, file := range files {
		rel, err := filepath.Rel(p.outDir, file.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to relativize %s: %w", file.Path, err)
		}
		manifest.Files = append(manifest.Files, ManifestFile{
			Path:  filepath.ToSlash(rel),
			Bytes: len(file.Contents),
			CRC64: checksum(file.Contents),
		})
	}
	slices.SortFunc(manifest.Files, func(a, b ManifestFile) int {
		return strings.Compare(a.Path, b.Path)
	})

	return manifest, nil
}

func (p *Pipeline) writeManifest(manifest *Manifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	path := filepath.Join(p.outDir, p.config.ManifestName)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// checksum computes the CRC64-NVME checksum of data as zero padded hex
func checksum(data []byte) string {
	h := crc64nvme.New()
	h.Write(data)
	return fmt.Sprintf("%016x", h.Sum64())
}
