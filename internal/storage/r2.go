package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// R2Store uploads images to Cloudflare R2 over its S3-compatible API,
// grounded on original_source/src/infrastructure/r2_client.rs's R2Client
// (there hand-rolled over raw HTTP + AWS SigV4; here delegated to
// aws-sdk-go-v2, which speaks the same S3-compatible protocol against any
// custom endpoint).
type R2Store struct {
	client       *s3.Client
	bucket       string
	publicURLBase string
}

// NewR2Store builds an R2-backed ObjectStore. accountID selects the R2
// account endpoint; publicURLBase is the public bucket domain images are
// served from.
func NewR2Store(accountID, accessKeyID, secretAccessKey, bucket, publicURLBase string) *R2Store {
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)

	client := s3.New(s3.Options{
		Region:       "auto",
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
	})

	return &R2Store{client: client, bucket: bucket, publicURLBase: publicURLBase}
}

// Put uploads content under key and returns its public URL.
func (r *R2Store) Put(ctx context.Context, key string, content []byte, contentType string) (string, error) {
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object to r2: %w", err)
	}
	return fmt.Sprintf("%s/%s", r.publicURLBase, key), nil
}

// Delete removes the object at key.
func (r *R2Store) Delete(ctx context.Context, key string) error {
	_, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object from r2: %w", err)
	}
	return nil
}
