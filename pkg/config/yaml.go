package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"
)

// yamlIndent is the indentation used for generated YAML.
const yamlIndent = 2

// policyYAML keeps nil and empty lists apart when encoding: nil fields
// are omitted while empty ones are written as [] or {}.
type policyYAML struct {
	OuterElements   *[]string          `yaml:"outer_elements,omitempty"`
	InnerElements   *[]string          `yaml:"inner_elements,omitempty"`
	Conversions     *map[string]string `yaml:"conversions,omitempty"`
	StripAttributes *[]string          `yaml:"strip_attributes,omitempty"`
}

// MarshalYAML implements yaml.Marshaler.
func (p PolicyConfig) MarshalYAML() (any, error) {
	var out policyYAML
	if p.OuterElements != nil {
		out.OuterElements = &p.OuterElements
	}
	if p.InnerElements != nil {
		out.InnerElements = &p.InnerElements
	}
	if p.Conversions != nil {
		out.Conversions = &p.Conversions
	}
	if p.StripAttributes != nil {
		out.StripAttributes = &p.StripAttributes
	}
	return out, nil
}

// IsZero lets omitempty drop a policy section that selects every default.
func (p PolicyConfig) IsZero() bool {
	return p.OuterElements == nil && p.InnerElements == nil && p.Conversions == nil && p.StripAttributes == nil
}

// ToYAML serializes the configuration to YAML format.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(yamlIndent)

	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}

	return buf.Bytes(), nil
}

// ToYAMLWithHeader serializes the configuration with a header comment.
func (c *Config) ToYAMLWithHeader(header string) ([]byte, error) {
	yamlBytes, err := c.ToYAML()
	if err != nil {
		return nil, err
	}
	if header == "" {
		return yamlBytes, nil
	}

	var buf bytes.Buffer
	buf.WriteString(header)
	if header[len(header)-1] != '\n' {
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	buf.Write(yamlBytes)
	return buf.Bytes(), nil
}

// FromYAML parses a configuration from YAML bytes. Fields absent from data
// stay at their zero value so the result can be merged over defaults.
func FromYAML(data []byte) (*Config, error) {
	cfg := &Config{}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}

// Clone creates a deep copy of the configuration, CLI-only fields included.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	clone.Policy = PolicyConfig{
		OuterElements:   slices.Clone(c.Policy.OuterElements),
		InnerElements:   slices.Clone(c.Policy.InnerElements),
		Conversions:     maps.Clone(c.Policy.Conversions),
		StripAttributes: slices.Clone(c.Policy.StripAttributes),
	}
	clone.Extensions = slices.Clone(c.Extensions)
	clone.Ignore = slices.Clone(c.Ignore)
	if c.AnnotateCodeLanguage != nil {
		annotate := *c.AnnotateCodeLanguage
		clone.AnnotateCodeLanguage = &annotate
	}
	if c.Backups.Enabled != nil {
		enabled := *c.Backups.Enabled
		clone.Backups.Enabled = &enabled
	}
	return &clone
}
