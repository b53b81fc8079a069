package s3

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/singer-contrib/target-s3-csv/errors"
	"github.com/singer-contrib/target-s3-csv/internal/testutil"
)

func TestNew_WithCustomAWSConfig(t *testing.T) {
	cfg := aws.Config{Region: "eu-west-1"}
	client, err := New(context.Background(), WithAWSConfig(&cfg))
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestNew_DefaultsRegion(t *testing.T) {
	cfg := aws.Config{}
	client, err := New(context.Background(), WithAWSConfig(&cfg))
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestClient_VerifyBucket(t *testing.T) {
	t.Run("existing bucket", func(t *testing.T) {
		var headedBucket string
		mock := &testutil.MockS3Client{
			HeadBucketFunc: func(ctx context.Context, params *awss3.HeadBucketInput, _ ...func(*awss3.Options)) (*awss3.HeadBucketOutput, error) {
				headedBucket = aws.ToString(params.Bucket)
				return &awss3.HeadBucketOutput{}, nil
			},
		}
		client := NewWithAPI(mock)

		require.NoError(t, client.VerifyBucket(context.Background(), "exports"))
		assert.Equal(t, "exports", headedBucket)
	})

	t.Run("missing bucket", func(t *testing.T) {
		mock := &testutil.MockS3Client{
			HeadBucketFunc: func(ctx context.Context, params *awss3.HeadBucketInput, _ ...func(*awss3.Options)) (*awss3.HeadBucketOutput, error) {
				return nil, stderrors.New("NotFound: 404")
			},
		}
		client := NewWithAPI(mock)

		err := client.VerifyBucket(context.Background(), "exports")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exports")
	})

	t.Run("invalid bucket name fails before the request", func(t *testing.T) {
		client := NewWithAPI(&testutil.MockS3Client{
			HeadBucketFunc: func(ctx context.Context, params *awss3.HeadBucketInput, _ ...func(*awss3.Options)) (*awss3.HeadBucketOutput, error) {
				t.Fatal("HeadBucket must not be called for an invalid name")
				return nil, nil
			},
		})

		err := client.VerifyBucket(context.Background(), "Invalid_Bucket")
		require.Error(t, err)
		assert.True(t, errors.IsInvalidInput(err))
	})
}
