package buildspec

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingEntryPoints indicates the build declares no entry points
	ErrMissingEntryPoints = errors.New("no entry points declared")
	// ErrInvalidOutputPattern indicates the output filename lacks a content hash placeholder
	ErrInvalidOutputPattern = errors.New("output filename pattern has no hash placeholder")
	// ErrUnknownPluginKind indicates a plugin kind outside the supported set
	ErrUnknownPluginKind = errors.New("unknown plugin kind")
	// ErrDuplicateEntryName indicates two entry points share a name
	ErrDuplicateEntryName = errors.New("duplicate entry point name")

	// ErrInvalidEntryPoint indicates an entry point with an empty name or path
	ErrInvalidEntryPoint = errors.New("invalid entry point")
	// ErrInvalidOutputDirectory indicates the output directory is empty
	ErrInvalidOutputDirectory = errors.New("invalid output directory")
	// ErrInvalidRule indicates a rule with no usable extension pattern or no handlers
	ErrInvalidRule = errors.New("invalid transform rule")
	// ErrOverlappingRules indicates two rules claim the same file extension
	ErrOverlappingRules = errors.New("overlapping transform rules")
	// ErrPluginOrder indicates html generation is scheduled before output cleaning
	ErrPluginOrder = errors.New("invalid plugin order")
	// ErrInvalidMode indicates a mode other than development or production
	ErrInvalidMode = errors.New("invalid mode")
	// ErrInvalidDevServer indicates a dev server without content base or with a bad port
	ErrInvalidDevServer = errors.New("invalid dev server")
	// ErrUnknownEncoding indicates an unsupported precompression encoding
	ErrUnknownEncoding = errors.New("unknown precompress encoding")
	// ErrInvalidSourceMap indicates an unsupported source map mode
	ErrInvalidSourceMap = errors.New("invalid source map mode")
	// ErrUnsupportedFormat indicates a config file extension with no decoder
	ErrUnsupportedFormat = errors.New("unsupported config format")
)

// ConfigError describes why a raw configuration was rejected. Kind is one of
// the sentinel errors above and is returned by Unwrap.
type ConfigError struct {
	Kind   error
	Field  string
	Detail string
}

func (e *ConfigError) Error() string {
	switch {
	case e.Field != "" && e.Detail != "":
		return fmt.Sprintf("%s: %v: %s", e.Field, e.Kind, e.Detail)
	case e.Field != "":
		return fmt.Sprintf("%s: %v", e.Field, e.Kind)
	case e.Detail != "":
		return fmt.Sprintf("%v: %s", e.Kind, e.Detail)
	default:
		return e.Kind.Error()
	}
}

func (e *ConfigError) Unwrap() error {
	return e.Kind
}

func configErr(kind error, field, format string, args ...any) *ConfigError {
	return &ConfigError{Kind: kind, Field: field, Detail: fmt.Sprintf(format, args...)}
}
