package buildspec

import (
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"
	"gopkg.in/yaml.v3"
)

// MarshalYAML renders the canonical declarative form.
func (s *BuildSpec) MarshalYAML() (any, error) {
	return s.Raw(), nil
}

// Fingerprint identifies the build definition. It is the base58-encoded
// SHA256 of the canonical YAML rendering, so equivalent inputs share it.
func (s *BuildSpec) Fingerprint() (string, error) {
	data, err := yaml.Marshal(s.Raw())
	if err != nil {
		return "", fmt.Errorf("failed to marshal build spec: %w", err)
	}
	hash := sha256.Sum256(data)
	return base58.Encode(hash[:]), nil
}
