// Package storage issues presigned S3 upload URLs for binary payloads that
// archives upgrade to durable references.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	sc "github.com/dmitrijs2005/mediavault/internal/server/config"
)

// UploadExpiry bounds how long a presigned PUT stays valid.
const UploadExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}

	now = time.Now
)

// Upload describes where a client PUTs a payload and where it can be read
// afterwards.
type Upload struct {
	Key       string
	UploadURL string
	URL       string
}

type Presigner struct {
	config *sc.Config
}

func NewPresigner(c *sc.Config) *Presigner {
	return &Presigner{config: c}
}

// StorageKey builds a date-partitioned object key ending in the sanitized
// file name.
func StorageKey(fileName string) string {
	d := now().UTC()
	return fmt.Sprintf("uploads/%d/%02d/%02d/%s/%s", d.Year(), d.Month(), d.Day(), uuid.New(), sanitize(fileName))
}

func sanitize(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "object"
	}
	return name
}

func (p *Presigner) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(p.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			p.config.S3RootUser,
			p.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(p.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// PresignUpload returns a presigned PUT for a new object and the durable URL
// the object will be served from.
func (p *Presigner) PresignUpload(ctx context.Context, fileName, contentType string) (Upload, error) {
	presignClient, err := p.getPresignClient(ctx)
	if err != nil {
		return Upload{}, fmt.Errorf("presign client: %w", err)
	}

	bucket := p.config.S3Bucket
	key := StorageKey(fileName)

	in := &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	req, err := presignPutObject(presignClient, ctx, in, s3.WithPresignExpires(UploadExpiry))
	if err != nil {
		return Upload{}, fmt.Errorf("presign put %s: %w", key, err)
	}

	return Upload{Key: key, UploadURL: req.URL, URL: p.PublicURL(key)}, nil
}

// PublicURL is the durable address of key.
func (p *Presigner) PublicURL(key string) string {
	base := strings.TrimRight(p.config.PublicBaseURL, "/")
	if base == "" {
		base = strings.TrimRight(p.config.S3BaseEndpoint, "/") + "/" + p.config.S3Bucket
	}
	segs := strings.Split(key, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return base + "/" + strings.Join(segs, "/")
}
