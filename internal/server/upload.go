package server

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Uploader stores a media payload under a key and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// SpacesUploader writes to an S3-compatible bucket (DigitalOcean Spaces) and
// serves objects through the Spaces CDN.
type SpacesUploader struct {
	client *s3.Client
	bucket string
	region string
}

func NewSpacesUploader(ctx context.Context, bucket, region, endpoint, key, secret string) (*SpacesUploader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(key, secret, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("loading object-storage config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	return &SpacesUploader{client: client, bucket: bucket, region: region}, nil
}

func (u *SpacesUploader) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("putting object %s: %w", key, err)
	}

	return fmt.Sprintf("https://%s.%s.cdn.digitaloceanspaces.com/%s", u.bucket, u.region, key), nil
}
