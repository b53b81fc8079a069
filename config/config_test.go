package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `{"s3_bucket": "my-bucket"}`))
	require.NoError(t, err)

	assert.Equal(t, "my-bucket", cfg.S3Bucket)
	assert.Equal(t, DefaultNamingConvention, cfg.NamingConvention)
	assert.Equal(t, DefaultDelimiter, cfg.Delimiter)
	assert.Equal(t, DefaultQuoteChar, cfg.QuoteChar)
	assert.Equal(t, DefaultUploadConcurrency, cfg.UploadConcurrency)
	assert.Equal(t, os.TempDir(), cfg.TempDir)
	assert.Zero(t, cfg.BatchSize)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FullConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, `{
		"s3_bucket": "exports",
		"s3_key_prefix": "nightly_",
		"region": "eu-west-1",
		"naming_convention": "exports/{date}/{stream}-{timestamp}{format}",
		"delimiter": ";",
		"add_metadata_columns": true,
		"compression": "gzip",
		"encryption_type": "kms",
		"encryption_key": "alias/exports",
		"batch_size": 1000,
		"upload_concurrency": 8
	}`))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ";", cfg.Delimiter)
	assert.True(t, cfg.AddMetadataColumns)
	assert.True(t, cfg.Gzip())
	assert.True(t, cfg.KMS())
	assert.Equal(t, 1000, cfg.BatchSize)
	assert.Equal(t, 8, cfg.UploadConcurrency)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, `{not json`))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		errContains string
	}{
		{
			name:        "missing bucket",
			mutate:      func(c *Config) { c.S3Bucket = "" },
			errContains: "s3_bucket",
		},
		{
			name:        "bad compression",
			mutate:      func(c *Config) { c.Compression = "zstd" },
			errContains: "unsupported compression",
		},
		{
			name:        "bad encryption",
			mutate:      func(c *Config) { c.EncryptionType = "sse-c" },
			errContains: "unsupported encryption_type",
		},
		{
			name:        "multi-char delimiter",
			mutate:      func(c *Config) { c.Delimiter = "||" },
			errContains: "delimiter",
		},
		{
			name:        "invalid utf-8 delimiter",
			mutate:      func(c *Config) { c.Delimiter = "\xff" },
			errContains: "delimiter",
		},
		{
			name:        "custom quote char",
			mutate:      func(c *Config) { c.QuoteChar = "'" },
			errContains: "quote_char",
		},
		{
			name:        "negative batch size",
			mutate:      func(c *Config) { c.BatchSize = -1 },
			errContains: "batch_size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{S3Bucket: "bucket"}
			cfg.applyDefaults()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := &Config{Compression: "zip", EncryptionType: "magic"}
	cfg.applyDefaults()

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3_bucket")
	assert.Contains(t, err.Error(), "compression")
	assert.Contains(t, err.Error(), "encryption_type")
}

func TestDelimiterRune(t *testing.T) {
	tests := []struct {
		delimiter string
		want      rune
	}{
		{",", ','},
		{";", ';'},
		{"\t", '\t'},
		{"§", '§'}, // multi-byte UTF-8 is a single rune for encoding/csv
	}
	for _, tt := range tests {
		cfg := &Config{S3Bucket: "bucket", Delimiter: tt.delimiter}
		cfg.applyDefaults()
		require.NoError(t, cfg.Validate())
		assert.Equal(t, tt.want, cfg.DelimiterRune())
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "tmp"), expandHome("~/tmp"))
	assert.Equal(t, home, expandHome("~"))
	assert.Equal(t, "/var/tmp", expandHome("/var/tmp"))
}
