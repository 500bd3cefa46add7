package config_test

import (
	"os"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astdiff-tech/astdiff/internal/config"
)

// writeConfigFile writes a temporary YAML config and returns its path.
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	tmpFile, err := os.CreateTemp(t.TempDir(), "astdiff-*.yaml")
	require.NoError(t, err)

	_, writeErr := tmpFile.WriteString(content)
	require.NoError(t, writeErr)

	require.NoError(t, tmpFile.Close())

	return tmpFile.Name()
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.Repository.Path)
	assert.Equal(t, "1MB", cfg.Repository.MaxFileSize)
	assert.Equal(t, []string{"Go", "Python"}, cfg.Compare.Languages)
	assert.True(t, cfg.Compare.SkipVendored)
	assert.Equal(t, runtime.NumCPU(), cfg.Compare.Workers)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "text", cfg.Output.Format)
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `
repository:
  path: "/src/project"
  max_file_size: "512KB"

compare:
  languages: ["Python"]
  skip_prefixes: ["generated/", "migrations/"]
  workers: 2

output:
  format: "json"
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/src/project", cfg.Repository.Path)
	assert.Equal(t, []string{"Python"}, cfg.Compare.Languages)
	assert.Equal(t, []string{"generated/", "migrations/"}, cfg.Compare.SkipPrefixes)
	assert.Equal(t, 2, cfg.Compare.Workers)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, uint64(512_000), cfg.MaxFileSizeBytes())
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("ASTDIFF_COMPARE_WORKERS", "3")
	t.Setenv("ASTDIFF_LOGGING_LEVEL", "debug")
	t.Setenv("ASTDIFF_REPOSITORY_MAX_FILE_SIZE", "2MB")

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Compare.Workers)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, uint64(2_000_000), cfg.MaxFileSizeBytes())
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "zero workers",
			content: "compare:\n  workers: 0\n",
			wantErr: config.ErrInvalidWorkers,
		},
		{
			name:    "bad size",
			content: "repository:\n  max_file_size: \"lots\"\n",
			wantErr: config.ErrInvalidSize,
		},
		{
			name:    "bad filter",
			content: "compare:\n  name_filter: \"[\"\n",
			wantErr: config.ErrInvalidFilter,
		},
		{
			name:    "bad level",
			content: "logging:\n  level: \"loud\"\n",
			wantErr: config.ErrInvalidLevel,
		},
		{
			name:    "bad logging format",
			content: "logging:\n  format: \"xml\"\n",
			wantErr: config.ErrInvalidFormat,
		},
		{
			name:    "bad output format",
			content: "output:\n  format: \"csv\"\n",
			wantErr: config.ErrInvalidFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeConfigFile(t, tt.content)

			cfg, err := config.LoadConfig(path)

			assert.Nil(t, cfg)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNameFilter(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	assert.Nil(t, cfg.NameFilter())

	cfg.Compare.NameFilter = `_test\.go$`

	filter := cfg.NameFilter()
	require.NotNil(t, filter)
	assert.True(t, filter.MatchString("pkg/thing_test.go"))
	assert.False(t, filter.MatchString("pkg/thing.go"))
}

func TestDefaultValidates(t *testing.T) {
	t.Parallel()

	cfg := config.Default()

	assert.Positive(t, cfg.Compare.Workers)
	assert.Equal(t, uint64(1_000_000), cfg.MaxFileSizeBytes())
}
