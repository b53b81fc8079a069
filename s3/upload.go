package s3

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	awstypes "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/cenkalti/backoff/v4"
	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"github.com/singer-contrib/target-s3-csv/errors"
	"github.com/singer-contrib/target-s3-csv/internal/validation"
)

// DefaultContentType is used when content type detection fails.
const DefaultContentType = "application/octet-stream"

// UploadResult describes a completed upload.
type UploadResult struct {
	// Key is the object key the data was written to, including the .gz
	// suffix when compression is enabled.
	Key string

	// Size is the number of bytes sent, after compression.
	Size int64

	// ETag is the entity tag returned by S3.
	ETag string

	// Duration is the total time spent uploading, including retries.
	Duration time.Duration
}

// Upload sends data to s3://bucket/key. When the client is configured
// for gzip compression the data is compressed and the key gets a .gz
// suffix. Transient failures are retried with exponential backoff on top
// of the SDK's own request retries.
func (c *Client) Upload(ctx context.Context, bucket, key string, data []byte) (*UploadResult, error) {
	start := time.Now()

	if err := validation.ValidateBucketName(bucket); err != nil {
		return nil, err
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return nil, err
	}

	contentType := c.detectContentType(key, data)
	if c.cfg.gzip {
		compressed, err := gzipBytes(data)
		if err != nil {
			return nil, errors.NewError("upload", err).WithBucket(bucket).WithKey(key).
				WithMessage("compress")
		}
		data = compressed
		key += ".gz"
		contentType = "application/gzip"
	}

	size := int64(len(data))
	input := &awss3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	}
	if c.cfg.sseKMS {
		input.ServerSideEncryption = awstypes.ServerSideEncryptionAwsKms
		if c.cfg.kmsKeyID != "" {
			input.SSEKMSKeyId = aws.String(c.cfg.kmsKeyID)
		}
	}

	var output *awss3.PutObjectOutput
	attempt := 0
	op := func() error {
		attempt++
		input.Body = bytes.NewReader(data)
		var err error
		output, err = c.api.PutObject(ctx, input)
		if err == nil {
			return nil
		}
		if isPermanent(err) {
			return backoff.Permanent(err)
		}
		c.log.Warn("upload attempt failed, retrying",
			zap.String("bucket", bucket),
			zap.String("key", key),
			zap.Int("attempt", attempt),
			zap.Error(err))
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.cfg.uploadRetries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, errors.NewError("upload", err).WithBucket(bucket).WithKey(key)
	}

	result := &UploadResult{
		Key:      key,
		Size:     size,
		ETag:     aws.ToString(output.ETag),
		Duration: time.Since(start),
	}
	c.log.Info("uploaded",
		zap.String("bucket", bucket),
		zap.String("key", result.Key),
		zap.Int64("bytes", result.Size),
		zap.Duration("duration", result.Duration))
	return result, nil
}

// UploadFile reads a local file and uploads it to s3://bucket/key.
// Stream batch files are bounded by batch_size, so buffering one file in
// memory keeps the PutObject body seekable for SDK retries.
func (c *Client) UploadFile(ctx context.Context, bucket, key, path string) (*UploadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewError("uploadFile", err).WithBucket(bucket).WithKey(key)
	}
	return c.Upload(ctx, bucket, key, data)
}

// isPermanent reports whether retrying the upload cannot help.
func isPermanent(err error) bool {
	return stderrors.Is(err, context.Canceled) ||
		stderrors.Is(err, context.DeadlineExceeded) ||
		errors.IsInvalidInput(err) ||
		errors.IsAccessDenied(err)
}

// detectContentType determines the content type from the key's extension
// first, falling back to content sniffing with mimetype.
func (c *Client) detectContentType(key string, data []byte) string {
	if ext := filepath.Ext(key); ext != "" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			return byExt
		}
	}
	if mt := mimetype.Detect(data); mt != nil {
		return mt.String()
	}
	return DefaultContentType
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(data); err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	if err := gw.Close(); err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	return buf.Bytes(), nil
}
