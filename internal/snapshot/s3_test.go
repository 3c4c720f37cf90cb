package snapshot

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
	putErr  error
}

func newFakeS3() *fakeS3 { return &fakeS3{objects: make(map[string][]byte)} }

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestS3Target_RoundTrip(t *testing.T) {
	src := newFixture(t)
	src.seed(t)
	ctx := context.Background()

	client := newFakeS3()
	target := S3Target{Client: client, Bucket: "backups", Key: "medibook/2030-06-10.json"}
	assert.Equal(t, "s3://backups/medibook/2030-06-10.json", target.String())

	_, err := src.svc.Export(ctx, target, "")
	require.NoError(t, err)
	assert.Contains(t, client.objects, "backups/medibook/2030-06-10.json")

	dst := newFixture(t)
	sum, err := dst.svc.Import(ctx, target, "", false)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Users)
}

func TestS3Target_Errors(t *testing.T) {
	ctx := context.Background()
	client := newFakeS3()
	client.putErr = errors.New("AccessDenied")

	f := newFixture(t)
	_, err := f.svc.Export(ctx, S3Target{Client: client, Bucket: "b", Key: "k"}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AccessDenied")

	_, err = f.svc.Import(ctx, S3Target{Client: client, Bucket: "b", Key: "missing"}, "", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NoSuchKey")
}

func TestParseS3URL(t *testing.T) {
	tests := []struct {
		in          string
		bucket, key string
		ok          bool
	}{
		{"s3://b/k.json", "b", "k.json", true},
		{"s3://b/dir/k.json", "b", "dir/k.json", true},
		{"s3://b", "", "", false},
		{"s3:///k", "", "", false},
		{"s3://b/", "", "", false},
		{"/tmp/x.json", "", "", false},
	}
	for _, tt := range tests {
		b, k, ok := ParseS3URL(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.bucket, b, tt.in)
		assert.Equal(t, tt.key, k, tt.in)
	}
}

func TestResolveTarget(t *testing.T) {
	origLoad, origNew := loadDefaultAWSConfig, newS3ClientFromConfig
	t.Cleanup(func() { loadDefaultAWSConfig, newS3ClientFromConfig = origLoad, origNew })

	var gotOpts s3.Options
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		var lo config.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		assert.NotNil(t, lo.Credentials)
		return aws.Config{Region: lo.Region}, nil
	}
	fake := newFakeS3()
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) S3API {
		for _, fn := range optFns {
			fn(&gotOpts)
		}
		return fake
	}

	ctx := context.Background()
	cfg := S3Config{Region: "us-east-1", Endpoint: "http://localhost:9000", AccessKey: "minio", SecretKey: "minio123"}

	target, err := ResolveTarget(ctx, "s3://backups/snap.json", cfg)
	require.NoError(t, err)
	s3t, ok := target.(S3Target)
	require.True(t, ok)
	assert.Equal(t, "backups", s3t.Bucket)
	assert.Equal(t, "snap.json", s3t.Key)
	assert.Equal(t, "http://localhost:9000", aws.ToString(gotOpts.BaseEndpoint))
	assert.True(t, gotOpts.UsePathStyle)

	target, err = ResolveTarget(ctx, "./snap.json", cfg)
	require.NoError(t, err)
	assert.Equal(t, FileTarget{Path: "./snap.json"}, target)

	_, err = ResolveTarget(ctx, "s3://nokey", cfg)
	assert.Error(t, err)
	_, err = ResolveTarget(ctx, "", cfg)
	assert.Error(t, err)
}

func TestResolveTarget_ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no profile")
	}

	_, err := ResolveTarget(context.Background(), "s3://b/k", S3Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no profile")
}
