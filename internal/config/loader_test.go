package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapqa/internal/config"
	"github.com/leapstack-labs/leapqa/pkg/core"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Threshold)
	assert.Equal(t, config.DefaultSampleSize, cfg.SampleSize)
	assert.False(t, cfg.Strict)
	assert.Equal(t, 0, cfg.Concurrency)
	assert.Equal(t, "text", cfg.OutputFormat)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	content := "threshold: warning\nsample_size: 10\nstrict: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte(content), 0o644))

	cfg, err := config.Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "warning", cfg.Threshold)
	assert.Equal(t, 10, cfg.SampleSize)
	assert.True(t, cfg.Strict)
	// untouched keys keep defaults
	assert.Equal(t, "text", cfg.OutputFormat)
}

func TestLoadExplicitConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output: json\n"), 0o644))

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.OutputFormat)

	_, err = config.Load(filepath.Join(dir, "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFileName),
		[]byte("threshold: warning\n"), 0o644))
	t.Setenv("LEAPQA_THRESHOLD", "critical")
	t.Setenv("LEAPQA_SAMPLE_SIZE", "9")

	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "critical", cfg.Threshold)
	assert.Equal(t, 9, cfg.SampleSize)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LEAPQA_THRESHOLD", "critical")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("threshold", "error", "")
	flags.Int("sample-size", config.DefaultSampleSize, "")
	require.NoError(t, flags.Set("threshold", "info"))
	require.NoError(t, flags.Set("sample-size", "2"))

	cfg, err := config.Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Threshold)
	assert.Equal(t, 2, cfg.SampleSize)
}

func TestLoadUnchangedFlagsDoNotOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LEAPQA_THRESHOLD", "critical")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("threshold", "error", "")

	cfg, err := config.Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "critical", cfg.Threshold)
}

func TestLoadValidation(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("LEAPQA_THRESHOLD", "fatal")
	_, err := config.Load("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown severity threshold "fatal"`)

	t.Setenv("LEAPQA_THRESHOLD", "error")
	t.Setenv("LEAPQA_OUTPUT", "xml")
	_, err = config.Load("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown output format "xml"`)
}

func TestEngineConfig(t *testing.T) {
	cfg := &config.Config{
		Threshold:   "warning",
		SampleSize:  3,
		Strict:      true,
		Concurrency: 4,
	}
	ec := cfg.EngineConfig(nil)

	require.NotNil(t, ec.Threshold)
	assert.Equal(t, core.SeverityWarning, *ec.Threshold)
	assert.Equal(t, 3, ec.SampleSize)
	assert.True(t, ec.Strict)
	assert.Equal(t, 4, ec.Concurrency)
}
