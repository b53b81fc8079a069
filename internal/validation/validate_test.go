package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/singer-contrib/target-s3-csv/errors"
)

func TestValidateBucketName(t *testing.T) {
	tests := []struct {
		name    string
		bucket  string
		wantErr bool
	}{
		{"valid simple", "my-bucket", false},
		{"valid with dots", "my.bucket.name", false},
		{"empty", "", true},
		{"too short", "ab", true},
		{"too long", strings.Repeat("a", 64), true},
		{"uppercase", "MyBucket", true},
		{"underscore", "my_bucket", true},
		{"leading hyphen", "-bucket", true},
		{"trailing dot", "bucket.", true},
		{"adjacent dots", "my..bucket", true},
		{"adjacent hyphens", "my--bucket", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBucketName(tt.bucket)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.IsInvalidInput(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateObjectKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"valid", "exports/2024-06-01/users.csv", false},
		{"valid with prefix", "nightly_users-20240601T120000.csv.gz", false},
		{"empty", "", true},
		{"too long", strings.Repeat("k", 1025), true},
		{"absolute path", "/etc/passwd", true},
		{"path traversal", "a/../../b.csv", true},
		{"control characters", "users\x00.csv", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateObjectKey(tt.key)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.IsInvalidInput(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
