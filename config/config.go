package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Defaults applied by Load when the config file omits a key.
const (
	// DefaultNamingConvention is the object key template used when the
	// config does not set naming_convention.
	DefaultNamingConvention = "{stream}-{timestamp}{format}"

	// DefaultDelimiter is the CSV field delimiter.
	DefaultDelimiter = ","

	// DefaultQuoteChar is the CSV quote character. encoding/csv quotes
	// with double quotes per RFC 4180; other values are rejected.
	DefaultQuoteChar = `"`

	// DefaultUploadConcurrency bounds parallel uploads at flush time.
	DefaultUploadConcurrency = 4
)

// Accepted compression values.
const (
	CompressionNone = "none"
	CompressionGzip = "gzip"
)

// Accepted encryption_type values.
const (
	EncryptionNone = "none"
	EncryptionKMS  = "kms"
)

// Config holds the target configuration decoded from the JSON config file.
// JSON keys follow the Singer/PipelineWise snake_case convention.
type Config struct {
	// S3Bucket is the destination bucket. Required.
	S3Bucket string `json:"s3_bucket"`

	// S3KeyPrefix is prepended to the basename of every object key.
	S3KeyPrefix string `json:"s3_key_prefix"`

	// Region overrides the region from the AWS credential chain.
	Region string `json:"region"`

	// S3EndpointURL points the client at an S3-compatible endpoint
	// (MinIO, LocalStack). Custom endpoints imply path-style addressing.
	S3EndpointURL string `json:"s3_endpoint_url"`

	// ForcePathStyle forces path-style addressing even without a custom
	// endpoint.
	ForcePathStyle bool `json:"force_path_style"`

	// Static credentials and profile. When unset the default AWS
	// credential chain applies.
	AWSAccessKeyID     string `json:"aws_access_key_id"`
	AWSSecretAccessKey string `json:"aws_secret_access_key"`
	AWSSessionToken    string `json:"aws_session_token"`
	AWSProfile         string `json:"aws_profile"`

	// NamingConvention is the object key template. Supported tokens:
	// {stream}, {timestamp}, {date}, {format}.
	NamingConvention string `json:"naming_convention"`

	// TempDir is where per-stream files are buffered before upload.
	// Defaults to the OS temp dir. A leading ~ is expanded.
	TempDir string `json:"temp_dir"`

	// Delimiter and QuoteChar control the CSV output.
	Delimiter string `json:"delimiter"`
	QuoteChar string `json:"quote_char"`

	// AddMetadataColumns adds the _sdc_batched_at column to every schema
	// and record. When false, all _sdc_* columns are stripped instead.
	AddMetadataColumns bool `json:"add_metadata_columns"`

	// Compression is "none" or "gzip". Gzipped objects get a .gz suffix
	// appended to their key.
	Compression string `json:"compression"`

	// EncryptionType is "none" or "kms". EncryptionKey is the KMS key id;
	// empty selects the account default aws/s3 key.
	EncryptionType string `json:"encryption_type"`
	EncryptionKey  string `json:"encryption_key"`

	// BatchSize, when positive, uploads and rotates a stream's file every
	// BatchSize records instead of only at end of input.
	BatchSize int `json:"batch_size"`

	// UploadConcurrency bounds parallel uploads when flushing.
	UploadConcurrency int `json:"upload_concurrency"`
}

// Load reads and decodes the config file at path and applies defaults.
// It does not validate; call Validate on the result.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg := &Config{}
	if err := json.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.NamingConvention == "" {
		c.NamingConvention = DefaultNamingConvention
	}
	if c.Delimiter == "" {
		c.Delimiter = DefaultDelimiter
	}
	if c.QuoteChar == "" {
		c.QuoteChar = DefaultQuoteChar
	}
	if c.UploadConcurrency <= 0 {
		c.UploadConcurrency = DefaultUploadConcurrency
	}
	if c.TempDir == "" {
		c.TempDir = os.TempDir()
	} else {
		c.TempDir = expandHome(c.TempDir)
	}
}

// Validate checks the configuration and reports every problem at once,
// joined into a single error.
func (c *Config) Validate() error {
	var errs []error

	if c.S3Bucket == "" {
		errs = append(errs, errors.New("required key is missing from config: [s3_bucket]"))
	}
	switch c.Compression {
	case "", CompressionNone, CompressionGzip:
	default:
		errs = append(errs, fmt.Errorf("unsupported compression %q: must be %q or %q",
			c.Compression, CompressionNone, CompressionGzip))
	}
	switch c.EncryptionType {
	case "", EncryptionNone, EncryptionKMS:
	default:
		errs = append(errs, fmt.Errorf("unsupported encryption_type %q: must be %q or %q",
			c.EncryptionType, EncryptionNone, EncryptionKMS))
	}
	if utf8.RuneCountInString(c.Delimiter) != 1 || !utf8.ValidString(c.Delimiter) {
		errs = append(errs, fmt.Errorf("delimiter must be a single character, got %q", c.Delimiter))
	}
	if c.QuoteChar != DefaultQuoteChar {
		errs = append(errs, fmt.Errorf("quote_char %q is not supported: CSV output quotes with %q per RFC 4180",
			c.QuoteChar, DefaultQuoteChar))
	}
	if c.BatchSize < 0 {
		errs = append(errs, fmt.Errorf("batch_size must not be negative, got %d", c.BatchSize))
	}

	return errors.Join(errs...)
}

// DelimiterRune returns the delimiter decoded as the rune encoding/csv
// expects, so multi-byte UTF-8 delimiters work.
func (c *Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

// Gzip reports whether output files should be gzip compressed.
func (c *Config) Gzip() bool {
	return c.Compression == CompressionGzip
}

// KMS reports whether objects should be encrypted with SSE-KMS.
func (c *Config) KMS() bool {
	return c.EncryptionType == EncryptionKMS
}

func expandHome(dir string) string {
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(dir[1:], "/"))
		}
	}
	return dir
}
