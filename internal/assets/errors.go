package assets

import "errors"

var (
	// ErrUnknownHandler indicates a rule references a handler with no loader mapping
	ErrUnknownHandler = errors.New("unknown handler")
	// ErrInvalidPluginOption indicates a plugin option that cannot be applied
	ErrInvalidPluginOption = errors.New("invalid plugin option")
	// ErrBuildFailed indicates the bundler reported errors
	ErrBuildFailed = errors.New("esbuild failed with errors")
	// ErrNotBuilt indicates metadata was requested before a successful build
	ErrNotBuilt = errors.New("assets not built yet, call Build() first")
	// ErrEntryNotFound indicates the entry point has no output in the build metadata
	ErrEntryNotFound = errors.New("entrypoint not found in metadata")
	// ErrNoDevServer indicates Serve was called without a configured dev server
	ErrNoDevServer = errors.New("no dev server configured")
	// ErrUnsafeClean indicates the output directory is not inside the working directory
	ErrUnsafeClean = errors.New("refusing to clean output directory")
)
