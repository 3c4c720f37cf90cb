package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds connection settings for S3 or an S3-compatible server such
// as MinIO.
type S3Config struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// S3API is the subset of *s3.Client used here.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) S3API {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// NewS3Client builds a client from cfg. Static credentials are used when an
// access key is configured, the default AWS chain otherwise.
func NewS3Client(ctx context.Context, cfg S3Config) (S3API, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// S3Target stores the document as one object.
type S3Target struct {
	Client S3API
	Bucket string
	Key    string
}

func (t S3Target) Write(ctx context.Context, data []byte) error {
	_, err := t.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(t.Bucket),
		Key:         aws.String(t.Key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	return err
}

func (t S3Target) Read(ctx context.Context) ([]byte, error) {
	out, err := t.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(t.Bucket),
		Key:    aws.String(t.Key),
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

func (t S3Target) String() string { return "s3://" + t.Bucket + "/" + t.Key }

// ParseS3URL splits "s3://bucket/key" into bucket and key.
func ParseS3URL(loc string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(loc, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

// ResolveTarget maps a location to a target: "s3://bucket/key" becomes an
// S3Target built from cfg, an http(s) URL an HTTPTarget and anything else a
// FileTarget.
func ResolveTarget(ctx context.Context, loc string, cfg S3Config) (Target, error) {
	switch {
	case loc == "":
		return nil, fmt.Errorf("snapshot location is empty")
	case strings.HasPrefix(loc, "http://"), strings.HasPrefix(loc, "https://"):
		return HTTPTarget{URL: loc}, nil
	case !strings.HasPrefix(loc, "s3://"):
		return FileTarget{Path: loc}, nil
	}

	bucket, key, ok := ParseS3URL(loc)
	if !ok {
		return nil, fmt.Errorf("invalid s3 location %q, want s3://bucket/key", loc)
	}
	client, err := NewS3Client(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return S3Target{Client: client, Bucket: bucket, Key: key}, nil
}
