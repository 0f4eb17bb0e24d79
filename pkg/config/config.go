// Package config defines the configuration types for gorichtext.
// These types are pure data structures; file discovery, environment
// overrides and validation live in internal/configloader.
package config

import (
	"maps"
	"slices"

	"github.com/yaklabco/gorichtext/pkg/fsutil"
	"github.com/yaklabco/gorichtext/pkg/sanitize"
)

// Flavor specifies the Markdown flavor used for Markdown inputs.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// OutputFormat specifies the report format.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatDiff    OutputFormat = "diff"
	FormatSummary OutputFormat = "summary"
)

// BackupsConfig controls backup behavior when fixing files.
type BackupsConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	Mode    string `yaml:"mode,omitempty" json:"mode,omitempty" validate:"omitempty,oneof=sidecar none"`
}

// PolicyConfig is the sanitizer whitelist. A nil list or map selects the
// built-in default; an empty one allows nothing.
type PolicyConfig struct {
	OuterElements   []string          `yaml:"outer_elements" json:"outer_elements,omitempty" validate:"omitempty,dive,tagname"`
	InnerElements   []string          `yaml:"inner_elements" json:"inner_elements,omitempty" validate:"omitempty,dive,tagname"`
	Conversions     map[string]string `yaml:"conversions" json:"conversions,omitempty" validate:"omitempty,dive,keys,tagname,endkeys,tagname"`
	StripAttributes []string          `yaml:"strip_attributes" json:"strip_attributes,omitempty" validate:"omitempty,dive,attrname"`
}

// Config is the root configuration structure.
type Config struct {
	// Policy configures the element whitelist.
	Policy PolicyConfig `yaml:"policy,omitempty" json:"policy"`

	// Flavor is the Markdown flavor for .md inputs.
	Flavor Flavor `yaml:"flavor,omitempty" json:"flavor,omitempty" validate:"omitempty,oneof=commonmark gfm"`

	// AnnotateCodeLanguage adds data-lang to pre blocks before sanitizing.
	AnnotateCodeLanguage *bool `yaml:"annotate_code_language,omitempty" json:"annotate_code_language,omitempty"`

	// Extensions are the file extensions processed in directories.
	Extensions []string `yaml:"extensions,omitempty" json:"extensions,omitempty" validate:"omitempty,dive,required,excludesall=/"`

	// Ignore contains glob patterns for files to ignore.
	Ignore []string `yaml:"ignore,omitempty" json:"ignore,omitempty" validate:"omitempty,dive,required,glob"`

	// Backups configures backup behavior when fixing.
	Backups BackupsConfig `yaml:"backups,omitempty" json:"backups"`

	// CLI-level options (not persisted to config files).

	// Fix writes sanitized output.
	Fix bool `yaml:"-" json:"-"`

	// DryRun shows diffs without writing.
	DryRun bool `yaml:"-" json:"-"`

	// Format specifies the report format.
	Format OutputFormat `yaml:"-" json:"-" validate:"omitempty,oneof=text json diff summary"`

	// Jobs specifies the number of parallel workers; 0 means one per CPU.
	Jobs int `yaml:"-" json:"-" validate:"gte=0"`

	// NoBackups disables backup creation when fixing.
	NoBackups bool `yaml:"-" json:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	enabled := true
	return &Config{
		Flavor: FlavorCommonMark,
		Backups: BackupsConfig{
			Enabled: &enabled,
			Mode:    string(fsutil.BackupModeSidecar),
		},
		Format: FormatText,
	}
}

// PolicyOptions converts the policy section into sanitizer options.
func (c *Config) PolicyOptions() sanitize.Options {
	return sanitize.Options{
		OuterElements:   slices.Clone(c.Policy.OuterElements),
		InnerElements:   slices.Clone(c.Policy.InnerElements),
		Conversions:     maps.Clone(c.Policy.Conversions),
		StripAttributes: slices.Clone(c.Policy.StripAttributes),
	}
}

// BackupConfig returns the effective backup settings. NoBackups wins over
// the configured value.
func (c *Config) BackupConfig() fsutil.BackupConfig {
	mode := fsutil.BackupMode(c.Backups.Mode)
	if mode == "" {
		mode = fsutil.BackupModeSidecar
	}
	return fsutil.BackupConfig{
		Enabled: !c.NoBackups && (c.Backups.Enabled == nil || *c.Backups.Enabled),
		Mode:    mode,
	}
}

// AnnotateEnabled reports whether code language annotation is on.
func (c *Config) AnnotateEnabled() bool {
	return c.AnnotateCodeLanguage != nil && *c.AnnotateCodeLanguage
}

// EffectiveFlavor returns the flavor, defaulting to CommonMark.
func (c *Config) EffectiveFlavor() Flavor {
	if c.Flavor == "" {
		return FlavorCommonMark
	}
	return c.Flavor
}
