// Package upload handles S3 object upload operations.
//
// Every upload is a single PutObject request. Multipart and resumable
// uploads are not supported: trigger files are a handful of bytes.
package upload

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awstypes "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/awslabs/aws-lambda-redshift-loader/s3/errors"
	"github.com/awslabs/aws-lambda-redshift-loader/s3/internal/s3api"
	"github.com/awslabs/aws-lambda-redshift-loader/s3/s3types"
)

// Uploader performs PutObject uploads.
type Uploader struct {
	s3Client s3api.S3API
}

// New creates a new Uploader instance.
func New(s3Client s3api.S3API) *Uploader {
	return &Uploader{
		s3Client: s3Client,
	}
}

// UploadStream streams size bytes from body to bucket/key. When body also
// implements io.Seeker the SDK can rewind it to compute checksums.
func (u *Uploader) UploadStream(
	ctx context.Context,
	bucket, key string,
	body io.Reader,
	size int64,
	config *s3types.UploadConfig,
	startTime time.Time,
) (*s3types.UploadResult, error) {
	return u.put(ctx, "uploadStream", bucket, key, body, size, config, startTime)
}

// UploadSimple uploads an in-memory payload.
func (u *Uploader) UploadSimple(
	ctx context.Context,
	bucket, key string,
	data []byte,
	config *s3types.UploadConfig,
	startTime time.Time,
) (*s3types.UploadResult, error) {
	return u.put(ctx, "uploadSimple", bucket, key, bytes.NewReader(data), int64(len(data)), config, startTime)
}

func (u *Uploader) put(
	ctx context.Context,
	op, bucket, key string,
	body io.Reader,
	size int64,
	config *s3types.UploadConfig,
	startTime time.Time,
) (*s3types.UploadResult, error) {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
	}

	if config.ContentType != "" {
		input.ContentType = aws.String(config.ContentType)
	}

	if config.StorageClass != "" {
		input.StorageClass = awstypes.StorageClass(config.StorageClass)
	}

	if len(config.Metadata) > 0 {
		input.Metadata = config.Metadata
	}

	output, err := u.s3Client.PutObject(ctx, input)
	if err != nil {
		return nil, errors.NewError(op, err).WithBucket(bucket).WithKey(key)
	}

	return &s3types.UploadResult{
		Bucket:    bucket,
		Key:       key,
		Size:      size,
		ETag:      aws.ToString(output.ETag),
		VersionID: aws.ToString(output.VersionId),
		Duration:  time.Since(startTime),
	}, nil
}
