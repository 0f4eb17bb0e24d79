package configloader

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/yaklabco/gorichtext/pkg/config"
)

// EnvVarPrefix is the prefix for all gorichtext environment variables.
const EnvVarPrefix = "GORICHTEXT_"

// envOverrides mirrors the overridable fields. Pointers and nil slices
// stay unset when their variable is absent or empty.
type envOverrides struct {
	Flavor               *string           `env:"FLAVOR"`
	AnnotateCodeLanguage *bool             `env:"ANNOTATE_CODE_LANGUAGE"`
	Extensions           []string          `env:"EXTENSIONS"`
	Ignore               []string          `env:"IGNORE"`
	OuterElements        []string          `env:"OUTER_ELEMENTS"`
	InnerElements        []string          `env:"INNER_ELEMENTS"`
	Conversions          map[string]string `env:"CONVERSIONS"`
	StripAttributes      []string          `env:"STRIP_ATTRIBUTES"`
	BackupsEnabled       *bool             `env:"BACKUPS_ENABLED"`
	BackupsMode          *string           `env:"BACKUPS_MODE"`
	Fix                  *bool             `env:"FIX"`
	DryRun               *bool             `env:"DRY_RUN"`
	Format               *string           `env:"FORMAT"`
	Jobs                 *int              `env:"JOBS"`
	NoBackups            *bool             `env:"NO_BACKUPS"`
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Variables are prefixed with GORICHTEXT_ (e.g., GORICHTEXT_FLAVOR). Lists
// are comma-separated; conversions use "from:to" pairs ("strong:b,em:i").
func LoadFromEnv(cfg *config.Config) error {
	return loadFromEnviron(cfg, nil)
}

// loadFromEnviron reads overrides from environ, or from the process
// environment when environ is nil.
func loadFromEnviron(cfg *config.Config, environ map[string]string) error {
	if cfg == nil {
		return nil
	}

	var overrides envOverrides
	if err := env.ParseWithOptions(&overrides, env.Options{Prefix: EnvVarPrefix, Environment: environ}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	overrides.apply(cfg)
	return nil
}

func (o *envOverrides) apply(cfg *config.Config) {
	if o.Flavor != nil {
		cfg.Flavor = config.Flavor(*o.Flavor)
	}
	if o.AnnotateCodeLanguage != nil {
		cfg.AnnotateCodeLanguage = o.AnnotateCodeLanguage
	}
	if o.Extensions != nil {
		cfg.Extensions = o.Extensions
	}
	if o.Ignore != nil {
		cfg.Ignore = o.Ignore
	}
	if o.OuterElements != nil {
		cfg.Policy.OuterElements = o.OuterElements
	}
	if o.InnerElements != nil {
		cfg.Policy.InnerElements = o.InnerElements
	}
	if o.Conversions != nil {
		cfg.Policy.Conversions = o.Conversions
	}
	if o.StripAttributes != nil {
		cfg.Policy.StripAttributes = o.StripAttributes
	}
	if o.BackupsEnabled != nil {
		cfg.Backups.Enabled = o.BackupsEnabled
	}
	if o.BackupsMode != nil {
		cfg.Backups.Mode = *o.BackupsMode
	}
	if o.Fix != nil {
		cfg.Fix = *o.Fix
	}
	if o.DryRun != nil {
		cfg.DryRun = *o.DryRun
	}
	if o.Format != nil {
		cfg.Format = config.OutputFormat(*o.Format)
	}
	if o.Jobs != nil {
		cfg.Jobs = *o.Jobs
	}
	if o.NoBackups != nil {
		cfg.NoBackups = *o.NoBackups
	}
}

// ListEnvVars returns the supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	return map[string]string{
		EnvVarPrefix + "FLAVOR":                 "Markdown flavor: commonmark or gfm",
		EnvVarPrefix + "ANNOTATE_CODE_LANGUAGE": "Add data-lang to pre blocks: true or false",
		EnvVarPrefix + "EXTENSIONS":             "Comma-separated file extensions to process",
		EnvVarPrefix + "IGNORE":                 "Comma-separated list of ignore patterns",
		EnvVarPrefix + "OUTER_ELEMENTS":         "Comma-separated allowed block elements",
		EnvVarPrefix + "INNER_ELEMENTS":         "Comma-separated allowed inline elements",
		EnvVarPrefix + "CONVERSIONS":            "Comma-separated from:to tag conversions",
		EnvVarPrefix + "STRIP_ATTRIBUTES":       "Comma-separated attributes to strip",
		EnvVarPrefix + "BACKUPS_ENABLED":        "Enable backups when fixing: true or false",
		EnvVarPrefix + "BACKUPS_MODE":           "Backup mode: sidecar or none",
		EnvVarPrefix + "FIX":                    "Write sanitized output: true or false",
		EnvVarPrefix + "DRY_RUN":                "Show diffs without writing: true or false",
		EnvVarPrefix + "FORMAT":                 "Output format: text, json, or diff",
		EnvVarPrefix + "JOBS":                   "Number of parallel workers (0 = auto)",
		EnvVarPrefix + "NO_BACKUPS":             "Disable backups: true or false",
	}
}
