package s3

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option func(*clientConfig)

// WithRegion sets the AWS region for S3 operations.
// If not specified, the region from the credential chain is used.
func WithRegion(region string) Option {
	return func(c *clientConfig) {
		c.region = region
	}
}

// WithEndpoint points the client at a custom S3-compatible endpoint
// (MinIO, LocalStack). Path-style addressing is enabled automatically.
func WithEndpoint(endpoint string) Option {
	return func(c *clientConfig) {
		c.endpoint = endpoint
	}
}

// WithForcePathStyle forces path-style URLs instead of virtual-hosted
// style, for S3-compatible services that do not support virtual hosting.
func WithForcePathStyle(force bool) Option {
	return func(c *clientConfig) {
		c.forcePathStyle = force
	}
}

// WithStaticCredentials sets static AWS credentials, bypassing the
// default credential chain. The session token may be empty.
func WithStaticCredentials(accessKeyID, secretAccessKey, sessionToken string) Option {
	return func(c *clientConfig) {
		c.accessKeyID = accessKeyID
		c.secretAccessKey = secretAccessKey
		c.sessionToken = sessionToken
	}
}

// WithProfile selects a named profile from the shared AWS config.
func WithProfile(profile string) Option {
	return func(c *clientConfig) {
		c.profile = profile
	}
}

// WithMaxRetries sets the SDK-level retry attempts for failed requests.
// Default is 3.
func WithMaxRetries(maxRetries int) Option {
	return func(c *clientConfig) {
		c.maxRetries = maxRetries
	}
}

// WithUploadRetries sets how often a whole-file upload is retried with
// exponential backoff on top of the SDK retries. Default is 4.
func WithUploadRetries(retries uint64) Option {
	return func(c *clientConfig) {
		c.uploadRetries = retries
	}
}

// WithTimeout sets a timeout on individual S3 requests.
// Default is no timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithGzip gzip-compresses every uploaded file and appends .gz to the
// object key.
func WithGzip(gzip bool) Option {
	return func(c *clientConfig) {
		c.gzip = gzip
	}
}

// WithSSEKMS encrypts uploaded objects with SSE-KMS. An empty key id
// selects the account default aws/s3 key.
func WithSSEKMS(kmsKeyID string) Option {
	return func(c *clientConfig) {
		c.sseKMS = true
		c.kmsKeyID = kmsKeyID
	}
}

// WithLogger sets the logger used for upload progress messages.
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithAWSConfig provides a pre-built AWS configuration, overriding the
// default loading behavior. Mostly useful in tests.
func WithAWSConfig(cfg *aws.Config) Option {
	return func(c *clientConfig) {
		c.awsConfig = cfg
	}
}
