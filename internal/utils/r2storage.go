package utils

import (
	"context"
	"io"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// R2Storage saves and deletes photos on Cloudflare R2 (S3-compatible).
type R2Storage struct {
	client     *s3.Client
	bucketName string
}

// NewR2Storage creates an R2Storage client.
// endpoint should be "https://<account-id>.r2.cloudflarestorage.com".
func NewR2Storage(accessKeyID, secretAccessKey, endpoint, bucketName string) *R2Storage {
	cfg := aws.Config{
		Region: "auto",
		Credentials: credentials.NewStaticCredentialsProvider(
			accessKeyID,
			secretAccessKey,
			"", // session token, not used for R2
		),
		BaseEndpoint: aws.String(endpoint),
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		// R2 requires path-style addressing
		o.UsePathStyle = true
	})

	return &R2Storage{client: client, bucketName: bucketName}
}

// SaveFile uploads reader to <subDir>/<uuid><ext> and returns the object key.
func (rs *R2Storage) SaveFile(ctx context.Context, subDir, originalFilename string, reader io.Reader) (string, error) {
	ext := filepath.Ext(originalFilename)
	objectKey := subDir + "/" + uuid.NewString() + ext

	_, err := rs.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(rs.bucketName),
		Key:    aws.String(objectKey),
		Body:   reader,
	})
	if err != nil {
		return "", err
	}
	return objectKey, nil
}

// DeleteFile removes the object at key.
func (rs *R2Storage) DeleteFile(ctx context.Context, key string) error {
	_, err := rs.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(rs.bucketName),
		Key:    aws.String(key),
	})
	return err
}
