package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sc "github.com/dmitrijs2005/mediavault/internal/server/config"
)

func testConfig() *sc.Config {
	return &sc.Config{
		S3Region:       "us-east-1",
		S3RootUser:     "minioadmin",
		S3RootPassword: "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000/",
		S3Bucket:       "mediavault",
	}
}

// stubAWS replaces the AWS seams; put receives every presign request.
func stubAWS(t *testing.T, put func(in *s3.PutObjectInput) (*v4.PresignedHTTPRequest, error)) *string {
	t.Helper()
	origLoad, origNewS3, origNewPre, origPut, origNow :=
		loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient, presignPutObject, now
	t.Cleanup(func() {
		loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient, presignPutObject, now =
			origLoad, origNewS3, origNewPre, origPut, origNow
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		if lo.Region != "us-east-1" {
			t.Fatalf("region not applied: %q", lo.Region)
		}
		return aws.Config{}, nil
	}

	var baseEndpoint string
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		require.NotNil(t, opts.BaseEndpoint)
		assert.True(t, opts.UsePathStyle)
		baseEndpoint = *opts.BaseEndpoint
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient { return &s3.PresignClient{} }
	presignPutObject = func(_ *s3.PresignClient, _ context.Context, in *s3.PutObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return put(in)
	}
	now = func() time.Time { return time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC) }
	return &baseEndpoint
}

func TestPresignUpload_Success(t *testing.T) {
	var got *s3.PutObjectInput
	base := stubAWS(t, func(in *s3.PutObjectInput) (*v4.PresignedHTTPRequest, error) {
		got = in
		return &v4.PresignedHTTPRequest{URL: "http://127.0.0.1:9000/mediavault/" + *in.Key + "?X-Amz-Signature=abc"}, nil
	})

	up, err := NewPresigner(testConfig()).PresignUpload(context.Background(), "my photo.png", "image/png")
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:9000/", *base)
	require.NotNil(t, got)
	assert.Equal(t, "mediavault", *got.Bucket)
	assert.Equal(t, "image/png", *got.ContentType)
	assert.True(t, strings.HasPrefix(up.Key, "uploads/2024/03/07/"), up.Key)
	assert.True(t, strings.HasSuffix(up.Key, "/my photo.png"), up.Key)
	assert.Contains(t, up.UploadURL, "X-Amz-Signature")
	assert.True(t, strings.HasPrefix(up.URL, "http://127.0.0.1:9000/mediavault/uploads/2024/03/07/"), up.URL)
	assert.True(t, strings.HasSuffix(up.URL, "/my%20photo.png"), up.URL)
}

func TestPresignUpload_PresignError(t *testing.T) {
	stubAWS(t, func(*s3.PutObjectInput) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("sign-fail")
	})

	_, err := NewPresigner(testConfig()).PresignUpload(context.Background(), "a.bin", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sign-fail")
}

func TestPresignUpload_LoadConfigError(t *testing.T) {
	stubAWS(t, nil)
	loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}

	_, err := NewPresigner(testConfig()).PresignUpload(context.Background(), "a.bin", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load-fail")
}

func TestPublicURL_UsesConfiguredBase(t *testing.T) {
	cfg := testConfig()
	cfg.PublicBaseURL = "https://cdn.example.com/"
	assert.Equal(t, "https://cdn.example.com/uploads/a%20b.png", NewPresigner(cfg).PublicURL("uploads/a b.png"))
}

func TestStorageKey_SanitizesName(t *testing.T) {
	stubAWS(t, nil)
	tests := map[string]string{
		"../../etc/passwd": "/passwd",
		`C:\docs\plan.pdf`: "/plan.pdf",
		"":                 "/object",
	}
	for in, suffix := range tests {
		key := StorageKey(in)
		assert.True(t, strings.HasSuffix(key, suffix), "%q -> %q", in, key)
		assert.False(t, strings.Contains(key, ".."), key)
	}
}
