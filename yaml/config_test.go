package yaml_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("empty config yields all defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := yaml.Parse([]byte(""))
		require.NoError(t, err)

		assert.Equal(t, yaml.DefaultUserAgent, cfg.DownloadSettings.UserAgent)
		assert.Equal(t, 30*time.Second, cfg.DownloadSettings.Timeout())
		assert.Equal(t, 3, cfg.DownloadSettings.MaxRetries)
		assert.Equal(t, time.Second, cfg.DownloadSettings.Delay())
		assert.True(t, cfg.DownloadSettings.Verify())
		assert.Equal(t, "data/materials", cfg.Paths.Materials)
		assert.Equal(t, "data/extracted", cfg.Paths.Extracted)
		assert.Equal(t, "data/metadata", cfg.Paths.Metadata)
	})

	t.Run("explicit settings are honored", func(t *testing.T) {
		t.Parallel()

		cfg, err := yaml.Parse([]byte(`
download_settings:
  user_agent: custom/2.0
  timeout_seconds: 10
  max_retries: 5
  delay_between_requests: 0.5
  verify_ssl: false
paths:
  materials: raw
`))
		require.NoError(t, err)

		assert.Equal(t, "custom/2.0", cfg.DownloadSettings.UserAgent)
		assert.Equal(t, 10*time.Second, cfg.DownloadSettings.Timeout())
		assert.Equal(t, 5, cfg.DownloadSettings.MaxRetries)
		assert.Equal(t, 500*time.Millisecond, cfg.DownloadSettings.Delay())
		assert.False(t, cfg.DownloadSettings.Verify())
		assert.Equal(t, "raw", cfg.Paths.Materials)
		assert.Equal(t, "data/extracted", cfg.Paths.Extracted)
	})

	t.Run("parses the sources manifest", func(t *testing.T) {
		t.Parallel()

		cfg, err := yaml.Parse([]byte(`
sources:
  docker:
    urls:
      - url: https://docs.docker.com/get-started/
        title: Getting Started
        type: html
      - url: https://github.com/docker/docs/blob/main/README.md
        title: Docs README
        is_github: true
  postgresql:
    urls:
      - url: https://www.postgresql.org/files/documentation/pdf/16/postgresql-16.pdf
        title: PostgreSQL 16 Manual
        type: pdf
`))
		require.NoError(t, err)

		require.Len(t, cfg.Sources, 2)
		docker := cfg.Sources["docker"]
		require.Len(t, docker.URLs, 2)
		assert.Equal(t, "Getting Started", docker.URLs[0].Title)
		assert.Equal(t, harvest.TypeHTML, docker.URLs[0].Type)
		assert.True(t, docker.URLs[1].IsGitHub)
		assert.Equal(t, harvest.TypePDF, cfg.Sources["postgresql"].URLs[0].Type)
	})

	t.Run("malformed YAML is invalid", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.Parse([]byte("sources: [unclosed"))
		require.Error(t, err)
		assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
	})
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("reads a config file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("download_settings:\n  max_retries: 2\n"), 0644))

		cfg, err := yaml.Load(path)
		require.NoError(t, err)
		assert.Equal(t, 2, cfg.DownloadSettings.MaxRetries)
	})

	t.Run("missing file is not found", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.Equal(t, harvest.ENOTFOUND, harvest.ErrorCode(err))
	})
}
