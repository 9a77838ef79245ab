package assets

type Config struct {
	// Directory entry points and relative output paths are resolved against.
	// Empty means the process working directory.
	WorkingDir string
	// Metafile name, written inside the output directory
	MetafileName string
	// Manifest name, written inside the output directory
	ManifestName string
}

// DefaultConfig returns a sensible default configuration
func DefaultConfig() Config {
	return Config{
		MetafileName: "meta.json",
		ManifestName: "manifest.json",
	}
}
