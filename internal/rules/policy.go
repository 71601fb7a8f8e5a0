package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Policy carries per-category severity overrides loaded from a YAML file:
//
//	severities:
//	  offtopic: block
//	  hallucination: warn
//
// Categories absent from the file keep their built-in severity.
type Policy struct {
	Severities map[Category]Severity `yaml:"severities"`
}

// UnmarshalYAML parses "block"/"warn" severity strings.
func (s *Severity) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	switch raw {
	case "block":
		*s = SeverityBlock
	case "warn":
		*s = SeverityWarn
	default:
		return fmt.Errorf("unknown severity %q (want \"block\" or \"warn\")", raw)
	}
	return nil
}

// LoadPolicy reads a severity policy from a YAML file.
func LoadPolicy(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy file: %w", err)
	}
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Policy{}, fmt.Errorf("parse policy file %s: %w", path, err)
	}
	for c := range p.Severities {
		if _, ok := defaultSeverities[c]; !ok {
			return Policy{}, fmt.Errorf("policy file %s: unknown category %q", path, c)
		}
	}
	return p, nil
}
