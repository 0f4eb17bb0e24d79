package configloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gorichtext/pkg/config"
)

// projectDir returns a temp directory that bounds the upward config search.
func projectDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func isolated(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		environ:            map[string]string{},
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), isolated(projectDir(t)))
	require.NoError(t, err)
	require.NotNil(t, result.Config)

	assert.Equal(t, config.FlavorCommonMark, result.Config.Flavor)
	assert.Equal(t, config.FormatText, result.Config.Format)
	assert.True(t, result.Config.BackupConfig().Enabled)
	assert.Empty(t, result.LoadedFrom)
	assert.Empty(t, result.Warnings)
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	configPath := filepath.Join(dir, ".gorichtext.yml")
	writeFile(t, configPath, `
flavor: gfm
policy:
  inner_elements: []
  strip_attributes: [style]
backups:
  enabled: false
`)

	sub := filepath.Join(dir, "docs", "guide")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	result, err := Load(context.Background(), isolated(sub))
	require.NoError(t, err)

	cfg := result.Config
	assert.Equal(t, config.FlavorGFM, cfg.Flavor)
	assert.NotNil(t, cfg.Policy.InnerElements)
	assert.Empty(t, cfg.Policy.InnerElements)
	assert.Nil(t, cfg.Policy.OuterElements)
	assert.Equal(t, []string{"style"}, cfg.Policy.StripAttributes)
	assert.False(t, cfg.BackupConfig().Enabled)
	assert.Equal(t, []string{configPath}, result.LoadedFrom)
	assert.Equal(t, configPath, result.Paths.Project)
}

func TestLoad_Precedence(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".gorichtext.yml"), "flavor: gfm\nignore: [\"project/**\"]\n")
	explicit := filepath.Join(dir, "custom.yml")
	writeFile(t, explicit, "annotate_code_language: true\nignore: [\"explicit/**\"]\n")

	opts := isolated(dir)
	opts.ExplicitPath = explicit
	opts.environ = map[string]string{
		"GORICHTEXT_FLAVOR":      "commonmark",
		"GORICHTEXT_CONVERSIONS": "strong:b,s:u",
		"GORICHTEXT_JOBS":        "2",
	}
	opts.CLIConfig = &config.Config{Format: config.FormatJSON, Jobs: 3, Fix: true}

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	cfg := result.Config
	assert.Equal(t, config.FlavorCommonMark, cfg.Flavor, "env beats project")
	assert.True(t, cfg.AnnotateEnabled())
	assert.Equal(t, []string{"explicit/**"}, cfg.Ignore, "explicit beats project")
	assert.Equal(t, map[string]string{"strong": "b", "s": "u"}, cfg.Policy.Conversions)
	assert.Equal(t, 3, cfg.Jobs, "CLI beats env")
	assert.Equal(t, config.FormatJSON, cfg.Format)
	assert.True(t, cfg.Fix)
	assert.Len(t, result.LoadedFrom, 2)
}

func TestLoad_UserConfig(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	userPath := filepath.Join(configHome, "gorichtext", "config.yaml")
	writeFile(t, userPath, "flavor: gfm\n")

	opts := isolated(projectDir(t))
	opts.IgnoreUserConfig = false

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, config.FlavorGFM, result.Config.Flavor)
	assert.Equal(t, []string{userPath}, result.LoadedFrom)
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		content   string
		wantField string
	}{
		{name: "flavor", content: "flavor: markdown\n", wantField: "flavor"},
		{name: "element name", content: "policy:\n  outer_elements: [p, \"1x\"]\n", wantField: "policy.outer_elements[1]"},
		{name: "conversion target", content: "policy:\n  conversions: {strong: \"b b\"}\n", wantField: "policy.conversions[strong]"},
		{name: "attribute name", content: "policy:\n  strip_attributes: [\"on=x\"]\n", wantField: "policy.strip_attributes[0]"},
		{name: "glob", content: "ignore: [\"[oops\"]\n", wantField: "ignore[0]"},
		{name: "backup mode", content: "backups:\n  mode: xdg\n", wantField: "backups.mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := projectDir(t)
			writeFile(t, filepath.Join(dir, ".gorichtext.yml"), tt.content)

			_, err := Load(context.Background(), isolated(dir))
			require.Error(t, err)
			require.ErrorIs(t, err, ErrInvalidConfig)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.wantField, validationErr.Field)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	t.Run("unknown key", func(t *testing.T) {
		t.Parallel()
		dir := projectDir(t)
		writeFile(t, filepath.Join(dir, ".gorichtext.yml"), "polcy: {}\n")
		_, err := Load(context.Background(), isolated(dir))
		require.Error(t, err)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		t.Parallel()
		opts := isolated(projectDir(t))
		opts.ExplicitPath = filepath.Join(t.TempDir(), "missing.yml")
		_, err := Load(context.Background(), opts)
		require.Error(t, err)
	})

	t.Run("bad environment value", func(t *testing.T) {
		t.Parallel()
		opts := isolated(projectDir(t))
		opts.environ = map[string]string{"GORICHTEXT_JOBS": "many"}
		_, err := Load(context.Background(), opts)
		require.Error(t, err)
	})

	t.Run("negative jobs", func(t *testing.T) {
		t.Parallel()
		opts := isolated(projectDir(t))
		opts.CLIConfig = &config.Config{Jobs: -1}
		_, err := Load(context.Background(), opts)
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Load(ctx, isolated(projectDir(t)))
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestLoad_ConversionWarning(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	writeFile(t, filepath.Join(dir, ".gorichtext.yml"), "policy:\n  conversions: {strike: s}\n")

	result, err := Load(context.Background(), isolated(dir))
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "policy.conversions[strike]")
}

func TestValidate_ChainedConversions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		conversions map[string]string
		wantFields  []string
	}{
		{"defaults", nil, nil},
		{"chain", map[string]string{"strong": "b", "b": "i"}, []string{"policy.conversions[strong]"}},
		{"chain ignores case", map[string]string{"strong": "B", "b": "i"}, []string{"policy.conversions[strong]"}},
		{"identity mapping", map[string]string{"b": "b"}, nil},
		{"independent", map[string]string{"strong": "b", "em": "i"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			cfg.Policy.Conversions = tt.conversions
			result := Validate(cfg)
			require.True(t, result.Valid())

			fields := make([]string, 0, len(result.Warnings))
			for _, w := range result.Warnings {
				fields = append(fields, w.Field)
			}
			assert.ElementsMatch(t, tt.wantFields, fields)
		})
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	disabled := false
	base := config.NewConfig()
	base.Ignore = []string{"a"}
	base.Policy.OuterElements = []string{"p"}

	merged := merge(base, &config.Config{
		Backups: config.BackupsConfig{Enabled: &disabled},
		Policy:  config.PolicyConfig{InnerElements: []string{}},
	})

	assert.False(t, merged.BackupConfig().Enabled)
	assert.Equal(t, []string{"a"}, merged.Ignore, "nil slices keep base")
	assert.Equal(t, []string{"p"}, merged.Policy.OuterElements)
	assert.NotNil(t, merged.Policy.InnerElements)
	assert.True(t, *base.Backups.Enabled, "base is not modified")

	assert.Same(t, base, merge(base, nil))
	assert.Nil(t, MergeAll())
	assert.Equal(t, config.FlavorGFM, MergeAll(base, &config.Config{Flavor: config.FlavorGFM}).Flavor)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GORICHTEXT_FLAVOR", "gfm")
	t.Setenv("GORICHTEXT_OUTER_ELEMENTS", "p,h2")
	t.Setenv("GORICHTEXT_NO_BACKUPS", "true")

	cfg := config.NewConfig()
	require.NoError(t, LoadFromEnv(cfg))
	assert.Equal(t, config.FlavorGFM, cfg.Flavor)
	assert.Equal(t, []string{"p", "h2"}, cfg.Policy.OuterElements)
	assert.False(t, cfg.BackupConfig().Enabled)
	assert.Nil(t, cfg.Policy.InnerElements)

	require.NoError(t, LoadFromEnv(nil))
	assert.Contains(t, ListEnvVars(), "GORICHTEXT_FLAVOR")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	assert.True(t, Validate(nil).Valid())
	assert.True(t, Validate(config.NewConfig()).Valid())

	cfg := config.NewConfig()
	cfg.Format = "sarif"
	cfg.Extensions = []string{""}
	result := ValidateWithFile(cfg, "cfg.yml")
	require.Len(t, result.Errors, 2)
	for _, e := range result.Errors {
		assert.Equal(t, "cfg.yml", e.FilePath)
		assert.True(t, errors.Is(&e, ErrInvalidConfig))
	}
	assert.Len(t, result.AllMessages(), 2)

	assert.True(t, IsValidFlavor(config.FlavorGFM))
	assert.False(t, IsValidFormat("table"))
}
