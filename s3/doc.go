// Package s3 uploads finished stream files to Amazon S3 or an
// S3-compatible endpoint.
//
// The client wraps aws-sdk-go-v2 with the small surface this target
// needs: bucket verification and retried, optionally gzip-compressed and
// SSE-KMS encrypted file uploads.
package s3
