// Package storage talks to the S3-compatible object store that hosts
// uploaded images.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type Client struct {
	client   *s3.Client
	bucket   string
	endpoint string
}

// NewClient creates an S3 client pointed at an S3-compatible endpoint
// (DigitalOcean Spaces, MinIO, plain S3).
func NewClient(endpoint, region, bucket, accessKeyID, secretAccessKey string) (*Client, error) {
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if service == s3.ServiceID {
			return aws.Endpoint{
				URL:           endpoint,
				SigningRegion: region,
			}, nil
		}
		return aws.Endpoint{}, fmt.Errorf("unknown endpoint requested")
	})

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithEndpointResolverWithOptions(customResolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID, secretAccessKey, "",
		)),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	return &Client{
		client:   client,
		bucket:   bucket,
		endpoint: strings.TrimSuffix(endpoint, "/"),
	}, nil
}

// Upload stores an object under key and returns its public URL. Keys are
// extension-free public ids; the content type carries the image format.
func (c *Client) Upload(ctx context.Context, key string, reader io.Reader, contentType string) (string, error) {
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        reader,
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", c.endpoint, c.bucket, key), nil
}

// DeleteAsset removes a single object by its public id.
func (c *Client) DeleteAsset(ctx context.Context, publicID string) error {
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", publicID, err)
	}
	return nil
}

// DeleteAssets removes a batch of objects in one request.
func (c *Client) DeleteAssets(ctx context.Context, publicIDs []string) error {
	if len(publicIDs) == 0 {
		return nil
	}

	objects := make([]types.ObjectIdentifier, 0, len(publicIDs))
	for _, id := range publicIDs {
		objects = append(objects, types.ObjectIdentifier{Key: aws.String(id)})
	}

	_, err := c.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(c.bucket),
		Delete: &types.Delete{
			Objects: objects,
			Quiet:   aws.Bool(true),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete %d objects: %w", len(publicIDs), err)
	}
	return nil
}

// PublicIDFromURL derives the storage identifier for an asset URL: the last
// path segment with its file extension stripped, prefixed by the segment
// before it (the folder), joined with "/".
func PublicIDFromURL(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		p = u.Path
	}

	segments := strings.Split(strings.Trim(p, "/"), "/")
	last := segments[len(segments)-1]
	name := strings.TrimSuffix(last, path.Ext(last))

	if len(segments) < 2 {
		return name
	}
	return segments[len(segments)-2] + "/" + name
}
