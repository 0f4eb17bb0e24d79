package configloader

import (
	"maps"

	"github.com/yaklabco/gorichtext/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Pointers: override overwrites base if non-nil, so false can be set
//   - Slices and the conversions map: override replaces base entirely if
//     non-nil, even when empty
//   - CLI booleans (Fix, DryRun, NoBackups) can only be switched on
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	if override.Flavor != "" {
		result.Flavor = override.Flavor
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.AnnotateCodeLanguage != nil {
		annotate := *override.AnnotateCodeLanguage
		result.AnnotateCodeLanguage = &annotate
	}

	if override.Fix {
		result.Fix = true
	}
	if override.DryRun {
		result.DryRun = true
	}
	if override.NoBackups {
		result.NoBackups = true
	}

	if override.Backups.Mode != "" {
		result.Backups.Mode = override.Backups.Mode
	}
	if override.Backups.Enabled != nil {
		enabled := *override.Backups.Enabled
		result.Backups.Enabled = &enabled
	}

	result.Policy = mergePolicy(result.Policy, override.Policy)

	if override.Extensions != nil {
		result.Extensions = append([]string{}, override.Extensions...)
	}
	if override.Ignore != nil {
		result.Ignore = append([]string{}, override.Ignore...)
	}

	return result
}

func mergePolicy(base, override config.PolicyConfig) config.PolicyConfig {
	result := base

	if override.OuterElements != nil {
		result.OuterElements = append([]string{}, override.OuterElements...)
	}
	if override.InnerElements != nil {
		result.InnerElements = append([]string{}, override.InnerElements...)
	}
	if override.StripAttributes != nil {
		result.StripAttributes = append([]string{}, override.StripAttributes...)
	}

	if override.Conversions != nil {
		result.Conversions = maps.Clone(override.Conversions)
	}

	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
