package s3

import (
	"context"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/singer-contrib/target-s3-csv/errors"
	"github.com/singer-contrib/target-s3-csv/internal/s3api"
	"github.com/singer-contrib/target-s3-csv/internal/validation"
)

// clientConfig collects the settings applied by functional options.
type clientConfig struct {
	region         string
	endpoint       string
	forcePathStyle bool

	accessKeyID     string
	secretAccessKey string
	sessionToken    string
	profile         string

	maxRetries    int
	uploadRetries uint64
	timeout       time.Duration

	gzip      bool
	sseKMS    bool
	kmsKeyID  string
	logger    *zap.Logger
	awsConfig *aws.Config
}

// Client uploads files to a single S3 endpoint. It is safe for
// concurrent use.
type Client struct {
	api s3api.S3API
	cfg clientConfig
	log *zap.Logger
}

// New creates a Client, loading AWS credentials from the default chain
// unless static credentials or a profile are configured.
//
// Example:
//
//	client, err := s3.New(ctx,
//	    s3.WithRegion("eu-central-1"),
//	    s3.WithSSEKMS("alias/pipeline"),
//	)
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := clientConfig{
		maxRetries:    3,
		uploadRetries: 4,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	var awsCfg aws.Config
	if cfg.awsConfig != nil {
		awsCfg = *cfg.awsConfig
	} else {
		loadOpts := []func(*awsconfig.LoadOptions) error{}
		if cfg.region != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.region))
		}
		if cfg.profile != "" {
			loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.profile))
		}
		if cfg.accessKeyID != "" {
			loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(
					cfg.accessKeyID, cfg.secretAccessKey, cfg.sessionToken,
				),
			))
		}
		if cfg.maxRetries > 0 {
			loadOpts = append(loadOpts, awsconfig.WithRetryMaxAttempts(cfg.maxRetries))
		}

		var err error
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, errors.NewError("client initialization", err)
		}
	}

	if awsCfg.Region == "" {
		awsCfg.Region = "us-east-1"
	}

	var s3Opts []func(*awss3.Options)
	if cfg.endpoint != "" {
		s3Opts = append(s3Opts, func(o *awss3.Options) {
			o.BaseEndpoint = aws.String(cfg.endpoint)
			// S3-compatible endpoints rarely support virtual hosting.
			o.UsePathStyle = true
		})
	}
	if cfg.forcePathStyle {
		s3Opts = append(s3Opts, func(o *awss3.Options) {
			o.UsePathStyle = true
		})
	}
	if cfg.timeout > 0 {
		httpClient := &http.Client{Timeout: cfg.timeout}
		s3Opts = append(s3Opts, func(o *awss3.Options) {
			o.HTTPClient = httpClient
		})
	}

	log := cfg.logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		api: awss3.NewFromConfig(awsCfg, s3Opts...),
		cfg: cfg,
		log: log,
	}, nil
}

// NewWithAPI creates a Client over a custom S3 API implementation.
// This is primarily used for testing with mocked clients.
func NewWithAPI(api s3api.S3API, opts ...Option) *Client {
	cfg := clientConfig{uploadRetries: 4}
	for _, opt := range opts {
		opt(&cfg)
	}
	log := cfg.logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{api: api, cfg: cfg, log: log}
}

// VerifyBucket checks that the bucket exists and is reachable with the
// configured credentials. Called once at startup so a bad config fails
// before any records are consumed.
func (c *Client) VerifyBucket(ctx context.Context, bucket string) error {
	if err := validation.ValidateBucketName(bucket); err != nil {
		return err
	}
	_, err := c.api.HeadBucket(ctx, &awss3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return errors.NewError("verifyBucket", err).WithBucket(bucket)
	}
	return nil
}
