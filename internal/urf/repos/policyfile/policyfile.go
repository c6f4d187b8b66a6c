// Package policyfile loads a reputation Policy from a YAML, JSON, or
// TOML file. The file carries the rule lists that are too unwieldy for
// environment variables; env-supplied settings are merged on top by the
// caller.
package policyfile

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"

	"github.com/haukened/rr-urf/internal/urf/domain"
)

// Load parses the policy file at path into a Policy, starting from
// DefaultPolicy for unset fields. The parser is chosen by file
// extension; unsupported extensions are an error.
func Load(path string) (domain.Policy, error) {
	parser, err := parserFor(path)
	if err != nil {
		return domain.Policy{}, err
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return domain.Policy{}, fmt.Errorf("error loading policy file %s: %w", path, err)
	}

	policy := domain.DefaultPolicy()
	if err := k.Unmarshal("", &policy); err != nil {
		return domain.Policy{}, fmt.Errorf("error unmarshalling policy file %s: %w", path, err)
	}

	if err := policy.Validate(); err != nil {
		return domain.Policy{}, fmt.Errorf("invalid policy in %s: %w", path, err)
	}
	return policy, nil
}

// parserFor maps a file extension to its koanf parser.
func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported policy file type: %s", path)
	}
}
