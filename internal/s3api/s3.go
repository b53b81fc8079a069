// Package s3api defines the interface over the AWS S3 client used by
// this module, so tests can substitute a mock.
package s3api

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the slice of the AWS S3 surface the uploader needs.
type S3API interface {
	// PutObject uploads an object to S3.
	PutObject(
		ctx context.Context,
		params *s3.PutObjectInput,
		optFns ...func(*s3.Options),
	) (*s3.PutObjectOutput, error)

	// HeadBucket checks that a bucket exists and is reachable with the
	// current credentials.
	HeadBucket(
		ctx context.Context,
		params *s3.HeadBucketInput,
		optFns ...func(*s3.Options),
	) (*s3.HeadBucketOutput, error)
}
