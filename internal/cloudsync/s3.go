package cloudsync

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"olistdw/internal/config"
)

// Uploader pushes exported CSV files to an S3 bucket.
type Uploader struct {
	client *s3.Client
	bucket string
	log    *slog.Logger
}

// NewUploader builds an S3 client from static credentials. A non-empty
// endpoint switches to path-style addressing so MinIO-style services work.
func NewUploader(ctx context.Context, cfg config.S3Config, log *slog.Logger) (*Uploader, error) {
	creds := credentials.NewStaticCredentialsProvider(
		cfg.AccessKeyID,
		cfg.SecretAccessKey,
		"",
	)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var client *s3.Client
	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = &endpoint
			o.UsePathStyle = true
		})
		log.Info("using custom S3 endpoint", "endpoint", endpoint)
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	return &Uploader{client: client, bucket: cfg.Bucket, log: log}, nil
}

// UploadFile puts a local file at the given key. The MD5 header lets the
// server reject a corrupted body instead of storing it.
func (u *Uploader) UploadFile(ctx context.Context, path, key string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	sum := md5.Sum(data)
	contentMD5 := base64.StdEncoding.EncodeToString(sum[:])

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:     &u.bucket,
		Key:        &key,
		Body:       bytes.NewReader(data),
		ContentMD5: &contentMD5,
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", u.bucket, key, err)
	}
	u.log.Info("uploaded object", "bucket", u.bucket, "key", key, "bytes", len(data))
	return nil
}
