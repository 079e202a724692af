package s3

import (
	"context"
	stderrors "errors"
	"fmt"
	"mime"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/gabriel-vasile/mimetype"

	s3errors "github.com/awslabs/aws-lambda-redshift-loader/s3/errors"
	"github.com/awslabs/aws-lambda-redshift-loader/s3/internal/operations/upload"
	"github.com/awslabs/aws-lambda-redshift-loader/s3/internal/validation"
	"github.com/awslabs/aws-lambda-redshift-loader/s3/s3types"
)

// DefaultContentType is used when no content type can be detected.
const DefaultContentType = "application/octet-stream"

// sniffLen is the number of leading bytes inspected for content detection.
const sniffLen = 512

// LookupBucket verifies that bucket exists and that the caller may access it.
//
// Errors:
//   - ErrInvalidBucketName: If bucket is empty or malformed
//   - ErrBucketNotFound: If the bucket does not exist
//   - ErrAccessDenied: If the credentials lack permission on the bucket
//   - ErrRegionMismatch: If the bucket lives in another region
//   - ErrInvalidCredentials, ErrConnection: If the request could not be made
func (c *Client) LookupBucket(ctx context.Context, bucket string) error {
	if err := validation.ValidateBucketName(bucket); err != nil {
		return err
	}

	_, err := c.s3Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		c.logger.Debug().Err(err).Str("bucket", bucket).Msg("head bucket failed")
		return s3errors.NewBucketError("lookupBucket", bucket, c.convertAWSError(err))
	}

	c.logger.Debug().Str("bucket", bucket).Msg("bucket found")
	return nil
}

// UploadFile uploads a local file to S3 in a single PutObject request,
// overwriting any existing object at key. The key is used verbatim.
//
// Returns:
//   - *UploadResult: Contains upload details like ETag and size
//   - error: Returns nil on success, or an error if the upload fails
//
// Errors:
//   - ErrInvalidInput: If bucket, key or path is empty, or path is a directory
//   - ErrAccessDenied: If the credentials lack permission to upload
//   - ErrBucketNotFound: If the specified bucket doesn't exist
//   - fs.ErrNotExist: If the local file doesn't exist
//
// Example:
//
//	result, err := client.UploadFile(ctx, "my-bucket", "input/trigger.dummy", "/tmp/trigger.dummy",
//	    s3.WithContentType("text/plain"),
//	)
func (c *Client) UploadFile(
	ctx context.Context,
	bucket, key, path string,
	opts ...s3types.UploadOption,
) (*s3types.UploadResult, error) {
	if err := c.validateTarget("uploadFile", bucket, key); err != nil {
		return nil, err
	}
	if path == "" {
		return nil, s3errors.NewObjectError("uploadFile", bucket, key, s3errors.ErrInvalidInput).
			WithMessage("path cannot be empty")
	}

	filesystem := c.filesystem()

	info, err := filesystem.Stat(path)
	if err != nil {
		return nil, s3errors.NewObjectError("uploadFile", bucket, key, err)
	}
	if info.IsDir() {
		return nil, s3errors.NewObjectError("uploadFile", bucket, key, s3errors.ErrInvalidInput).
			WithMessage("path points to a directory, not a file")
	}

	config, err := c.uploadConfig(opts)
	if err != nil {
		return nil, s3errors.NewObjectError("uploadFile", bucket, key, err)
	}
	if config.ContentType == "" {
		config.ContentType = c.detectContentType(path)
	}

	file, err := filesystem.Open(path)
	if err != nil {
		return nil, s3errors.NewObjectError("uploadFile", bucket, key, err)
	}
	defer file.Close()

	startTime := time.Now()
	result, err := upload.New(c.s3Client).UploadStream(ctx, bucket, key, file, info.Size(), config, startTime)
	if err != nil {
		return nil, c.uploadError("uploadFile", bucket, key, err)
	}

	c.logger.Debug().
		Str("bucket", bucket).
		Str("key", key).
		Int64("size", result.Size).
		Dur("duration", result.Duration).
		Msg("file uploaded")

	return result, nil
}

// Put uploads in-memory data to S3 in a single request.
//
// Errors:
//   - ErrInvalidInput: If bucket is empty or key is invalid
//   - ErrAccessDenied: If the credentials lack permission to upload
//   - ErrBucketNotFound: If the specified bucket doesn't exist
func (c *Client) Put(ctx context.Context, bucket, key string, data []byte, opts ...s3types.UploadOption) error {
	if err := c.validateTarget("put", bucket, key); err != nil {
		return err
	}

	config, err := c.uploadConfig(opts)
	if err != nil {
		return s3errors.NewObjectError("put", bucket, key, err)
	}
	if config.ContentType == "" {
		config.ContentType = detectContentTypeFromData(key, data)
	}

	result, err := upload.New(c.s3Client).UploadSimple(ctx, bucket, key, data, config, time.Now())
	if err != nil {
		return c.uploadError("put", bucket, key, err)
	}

	c.logger.Debug().
		Str("bucket", bucket).
		Str("key", key).
		Int64("size", result.Size).
		Msg("object written")

	return nil
}

func (c *Client) validateTarget(op, bucket, key string) error {
	if bucket == "" {
		return s3errors.NewObjectError(op, bucket, key, s3errors.ErrInvalidInput).
			WithMessage("bucket name cannot be empty")
	}
	if err := validation.ValidateObjectKey(key); err != nil {
		return s3errors.NewObjectError(op, bucket, key, s3errors.ErrInvalidInput).
			WithMessage(err.Error())
	}
	return nil
}

func (c *Client) uploadConfig(opts []s3types.UploadOption) (*s3types.UploadConfig, error) {
	optCfg := &s3types.UploadOptionConfig{}
	for _, opt := range opts {
		opt(optCfg)
	}

	if err := validation.ValidateMetadata(optCfg.Metadata); err != nil {
		return nil, err
	}

	return &s3types.UploadConfig{
		ContentType:  optCfg.ContentType,
		Metadata:     optCfg.Metadata,
		StorageClass: optCfg.StorageClass,
	}, nil
}

// credentialFailures are substrings the SDK uses when no usable
// credentials could be resolved before a request was signed.
var credentialFailures = []string{
	"failed to retrieve credentials",
	"failed to refresh cached credentials",
	"no EC2 IMDS role found",
	"get credentials",
}

// uploadError renames the upload path's error to op and maps its cause
// onto the package sentinels, so bucket and key appear once.
func (c *Client) uploadError(op, bucket, key string, err error) error {
	var opErr *s3errors.Error
	if stderrors.As(err, &opErr) {
		opErr.Op = op
		opErr.Err = c.convertAWSError(opErr.Err)
		return opErr
	}
	return s3errors.NewObjectError(op, bucket, key, c.convertAWSError(err))
}

// convertAWSError maps SDK failures onto the package sentinels. The
// original error stays in the chain so its text reaches the log.
func (c *Client) convertAWSError(err error) error {
	if err == nil {
		return nil
	}

	var noSuchBucket *types.NoSuchBucket
	if stderrors.As(err, &noSuchBucket) {
		return fmt.Errorf("%w: %w", s3errors.ErrBucketNotFound, err)
	}

	var notFound *types.NotFound
	if stderrors.As(err, &notFound) {
		return fmt.Errorf("%w: %w", s3errors.ErrBucketNotFound, err)
	}

	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchBucket", "NotFound":
			return fmt.Errorf("%w: %w", s3errors.ErrBucketNotFound, err)
		case "AccessDenied", "Forbidden", "AllAccessDisabled":
			return fmt.Errorf("%w: %w", s3errors.ErrAccessDenied, err)
		case "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken", "InvalidToken":
			return fmt.Errorf("%w: %w", s3errors.ErrInvalidCredentials, err)
		case "PermanentRedirect", "AuthorizationHeaderMalformed", "IllegalLocationConstraintException":
			return fmt.Errorf("%w: %w", s3errors.ErrRegionMismatch, err)
		case "RequestTimeout":
			return fmt.Errorf("%w: %w", s3errors.ErrTimeout, err)
		}
	}

	// HeadBucket responses carry no body, so only the status code is known.
	var respErr *awshttp.ResponseError
	if stderrors.As(err, &respErr) {
		switch respErr.HTTPStatusCode() {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %w", s3errors.ErrBucketNotFound, err)
		case http.StatusForbidden:
			return fmt.Errorf("%w: %w", s3errors.ErrAccessDenied, err)
		case http.StatusMovedPermanently:
			return fmt.Errorf("%w: %w", s3errors.ErrRegionMismatch, err)
		}
	}

	msg := err.Error()
	for _, s := range credentialFailures {
		if strings.Contains(msg, s) {
			return fmt.Errorf("%w: %w", s3errors.ErrInvalidCredentials, err)
		}
	}

	if stderrors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", s3errors.ErrTimeout, err)
	}

	var sendErr *smithyhttp.RequestSendError
	if stderrors.As(err, &sendErr) {
		return fmt.Errorf("%w: %w", s3errors.ErrConnection, err)
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) {
		if netErr.Timeout() {
			return fmt.Errorf("%w: %w", s3errors.ErrTimeout, err)
		}
		return fmt.Errorf("%w: %w", s3errors.ErrConnection, err)
	}

	return err
}

// detectContentType sniffs the head of a local file, falling back to the
// file extension.
func (c *Client) detectContentType(path string) string {
	file, err := c.filesystem().Open(path)
	if err != nil {
		return detectContentTypeFromExtension(path)
	}
	defer file.Close()

	buf := make([]byte, sniffLen)
	n, _ := file.Read(buf)
	return detectContentTypeFromData(path, buf[:n])
}

func detectContentTypeFromData(name string, data []byte) string {
	if len(data) > sniffLen {
		data = data[:sniffLen]
	}
	if len(data) > 0 {
		if mt := mimetype.Detect(data); mt != nil {
			return mt.String()
		}
	}
	return detectContentTypeFromExtension(name)
}

func detectContentTypeFromExtension(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			return byExt
		}
	}
	return DefaultContentType
}
