package s3

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awslabs/aws-lambda-redshift-loader/fs/billy"
	s3errors "github.com/awslabs/aws-lambda-redshift-loader/s3/errors"
	"github.com/awslabs/aws-lambda-redshift-loader/s3/internal/testutil"
	"github.com/awslabs/aws-lambda-redshift-loader/s3/s3types"
)

func TestClient_LookupBucket(t *testing.T) {
	tests := []struct {
		name    string
		bucket  string
		headErr error
		wantErr error
	}{
		{
			name:   "bucket exists",
			bucket: "input-bucket",
		},
		{
			name:    "typed not found",
			bucket:  "missing",
			headErr: &types.NotFound{},
			wantErr: s3errors.ErrBucketNotFound,
		},
		{
			name:    "no such bucket code",
			bucket:  "missing",
			headErr: testutil.APIError("NoSuchBucket", "The specified bucket does not exist"),
			wantErr: s3errors.ErrBucketNotFound,
		},
		{
			name:    "bare 404",
			bucket:  "missing",
			headErr: testutil.HTTPError(http.StatusNotFound, errors.New("not found")),
			wantErr: s3errors.ErrBucketNotFound,
		},
		{
			name:    "access denied code",
			bucket:  "locked",
			headErr: testutil.APIError("AccessDenied", "Access Denied"),
			wantErr: s3errors.ErrAccessDenied,
		},
		{
			name:    "bare 403",
			bucket:  "locked",
			headErr: testutil.HTTPError(http.StatusForbidden, errors.New("forbidden")),
			wantErr: s3errors.ErrAccessDenied,
		},
		{
			name:    "wrong region",
			bucket:  "elsewhere",
			headErr: testutil.HTTPError(http.StatusMovedPermanently, errors.New("moved")),
			wantErr: s3errors.ErrRegionMismatch,
		},
		{
			name:    "bad access key",
			bucket:  "input-bucket",
			headErr: testutil.APIError("InvalidAccessKeyId", "The AWS Access Key Id you provided does not exist"),
			wantErr: s3errors.ErrInvalidCredentials,
		},
		{
			name:    "no credentials",
			bucket:  "input-bucket",
			headErr: errors.New("operation error S3: HeadBucket, get identity: get credentials: failed to refresh cached credentials"),
			wantErr: s3errors.ErrInvalidCredentials,
		},
		{
			name:   "endpoint unreachable",
			bucket: "input-bucket",
			headErr: &smithyhttp.RequestSendError{
				Err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")},
			},
			wantErr: s3errors.ErrConnection,
		},
		{
			name:    "empty bucket",
			bucket:  "",
			wantErr: s3errors.ErrInvalidBucketName,
		},
		{
			name:    "bucket with slash",
			bucket:  "bucket/prefix",
			wantErr: s3errors.ErrInvalidBucketName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int
			mock := &testutil.MockS3Client{
				HeadBucketFunc: func(ctx context.Context, input *s3.HeadBucketInput, opts ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
					calls++
					assert.Equal(t, tt.bucket, aws.ToString(input.Bucket))
					if tt.headErr != nil {
						return nil, tt.headErr
					}
					return &s3.HeadBucketOutput{}, nil
				},
			}

			err := NewWithClient(mock).LookupBucket(context.Background(), tt.bucket)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, 1, calls)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.headErr != nil {
				assert.ErrorIs(t, err, tt.headErr)
				assert.Equal(t, 1, calls, "lookup must not retry")
			} else {
				assert.Zero(t, calls)
			}
		})
	}
}

func TestClient_UploadFile(t *testing.T) {
	tests := []struct {
		name        string
		key         string
		path        string
		setup       func(t *testing.T, fs *billy.FS)
		opts        []s3types.UploadOption
		putErr      error
		wantErr     error
		wantErrText string
		wantBody    string
		wantType    string
		wantPutCall bool
	}{
		{
			name: "streams file verbatim",
			key:  "incoming/lambda-redshift-trigger-file.dummy",
			path: "/work/lambda-redshift-trigger-file.dummy",
			setup: func(t *testing.T, fs *billy.FS) {
				require.NoError(t, fs.WriteFile("/work/lambda-redshift-trigger-file.dummy", []byte("\n"), 0o644))
			},
			wantBody:    "\n",
			wantType:    "text/plain; charset=utf-8",
			wantPutCall: true,
		},
		{
			name: "double slash key kept",
			key:  "incoming//lambda-redshift-trigger-file.dummy",
			path: "/work/f.dummy",
			setup: func(t *testing.T, fs *billy.FS) {
				require.NoError(t, fs.WriteFile("/work/f.dummy", []byte("\n"), 0o644))
			},
			wantBody:    "\n",
			wantType:    "text/plain; charset=utf-8",
			wantPutCall: true,
		},
		{
			name: "explicit content type",
			key:  "k.json",
			path: "/work/data.json",
			setup: func(t *testing.T, fs *billy.FS) {
				require.NoError(t, fs.WriteFile("/work/data.json", []byte(`{"a":1}`), 0o644))
			},
			opts:        []s3types.UploadOption{WithContentType("application/x-custom")},
			wantBody:    `{"a":1}`,
			wantType:    "application/x-custom",
			wantPutCall: true,
		},
		{
			name:    "missing local file",
			key:     "k",
			path:    "/work/absent",
			setup:   func(t *testing.T, fs *billy.FS) {},
			wantErr: os.ErrNotExist,
		},
		{
			name: "directory rejected",
			key:  "k",
			path: "/work",
			setup: func(t *testing.T, fs *billy.FS) {
				require.NoError(t, fs.MkdirAll("/work", 0o755))
			},
			wantErr: s3errors.ErrInvalidInput,
		},
		{
			name:    "empty path",
			key:     "k",
			path:    "",
			setup:   func(t *testing.T, fs *billy.FS) {},
			wantErr: s3errors.ErrInvalidInput,
		},
		{
			name:    "empty key",
			key:     "",
			path:    "/work/f",
			setup:   func(t *testing.T, fs *billy.FS) {},
			wantErr: s3errors.ErrInvalidInput,
		},
		{
			name: "invalid metadata",
			key:  "k",
			path: "/work/f",
			setup: func(t *testing.T, fs *billy.FS) {
				require.NoError(t, fs.WriteFile("/work/f", []byte("\n"), 0o644))
			},
			opts:    []s3types.UploadOption{WithMetadata(map[string]string{"x-amz-meta": "v"})},
			wantErr: s3errors.ErrInvalidInput,
		},
		{
			name: "put denied",
			key:  "k",
			path: "/work/f",
			setup: func(t *testing.T, fs *billy.FS) {
				require.NoError(t, fs.WriteFile("/work/f", []byte("\n"), 0o644))
			},
			putErr:      testutil.APIError("AccessDenied", "Access Denied"),
			wantErr:     s3errors.ErrAccessDenied,
			wantErrText: "s3.uploadFile input-bucket/k: s3: access denied",
			wantPutCall: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			memfs := billy.NewInMemoryFS()
			tt.setup(t, memfs)

			var putCalled bool
			mock := &testutil.MockS3Client{
				PutObjectFunc: func(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
					putCalled = true
					assert.Equal(t, "input-bucket", aws.ToString(input.Bucket))
					assert.Equal(t, tt.key, aws.ToString(input.Key))
					if tt.putErr != nil {
						return nil, tt.putErr
					}
					body, err := io.ReadAll(input.Body)
					require.NoError(t, err)
					assert.Equal(t, tt.wantBody, string(body))
					assert.Equal(t, int64(len(tt.wantBody)), aws.ToInt64(input.ContentLength))
					assert.Equal(t, tt.wantType, aws.ToString(input.ContentType))
					assert.Empty(t, input.StorageClass)
					return &s3.PutObjectOutput{ETag: aws.String(`"etag"`)}, nil
				},
			}

			client := NewWithClient(mock, WithFilesystem(memfs))
			result, err := client.UploadFile(context.Background(), "input-bucket", tt.key, tt.path, tt.opts...)
			assert.Equal(t, tt.wantPutCall, putCalled)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, result)
				if tt.wantErrText != "" {
					assert.Contains(t, err.Error(), tt.wantErrText)
					assert.Equal(t, 1, strings.Count(err.Error(), "input-bucket/k"))
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.key, result.Key)
			assert.Equal(t, "input-bucket", result.Bucket)
			assert.Equal(t, int64(len(tt.wantBody)), result.Size)
			assert.Equal(t, `"etag"`, result.ETag)
		})
	}
}

func TestClient_Put(t *testing.T) {
	var got *s3.PutObjectInput
	var body []byte
	mock := &testutil.MockS3Client{
		PutObjectFunc: func(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
			got = input
			var err error
			body, err = io.ReadAll(input.Body)
			require.NoError(t, err)
			return &s3.PutObjectOutput{}, nil
		},
	}

	err := NewWithClient(mock).Put(context.Background(), "bucket", "path/lambda-redshift-trigger-file.dummy",
		[]byte("AWS Lambda Redshift Loader Event Trigger File"),
		WithStorageClass(s3types.StorageClassStandard),
		WithMetadata(map[string]string{"origin": "config-table"}),
	)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "path/lambda-redshift-trigger-file.dummy", aws.ToString(got.Key))
	assert.Equal(t, "AWS Lambda Redshift Loader Event Trigger File", string(body))
	assert.Equal(t, "text/plain; charset=utf-8", aws.ToString(got.ContentType))
	assert.Equal(t, types.StorageClassStandard, got.StorageClass)
	assert.Equal(t, "config-table", got.Metadata["origin"])
}

func TestClient_Put_DefaultsLeaveStorageClassUnset(t *testing.T) {
	var got *s3.PutObjectInput
	mock := &testutil.MockS3Client{
		PutObjectFunc: func(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
			got = input
			return &s3.PutObjectOutput{}, nil
		},
	}

	require.NoError(t, NewWithClient(mock).Put(context.Background(), "bucket", "k", []byte("x")))
	require.NotNil(t, got)
	assert.Empty(t, got.StorageClass)
	assert.Nil(t, got.Metadata)
}

func TestClient_Put_Errors(t *testing.T) {
	t.Run("empty bucket", func(t *testing.T) {
		err := NewWithClient(&testutil.MockS3Client{}).Put(context.Background(), "", "k", []byte("x"))
		assert.ErrorIs(t, err, s3errors.ErrInvalidInput)
	})

	t.Run("missing bucket", func(t *testing.T) {
		mock := &testutil.MockS3Client{
			PutObjectFunc: func(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
				return nil, &types.NoSuchBucket{}
			},
		}
		err := NewWithClient(mock).Put(context.Background(), "gone", "k", []byte("x"))
		assert.ErrorIs(t, err, s3errors.ErrBucketNotFound)
		assert.Contains(t, err.Error(), "s3.put gone/k: s3: bucket not found")
		assert.Equal(t, 1, strings.Count(err.Error(), "gone/k"))
	})
}

func TestDetectContentType(t *testing.T) {
	memfs := billy.NewInMemoryFS()
	require.NoError(t, memfs.WriteFile("/a.dummy", []byte("\n"), 0o644))
	require.NoError(t, memfs.WriteFile("/empty.json", nil, 0o644))

	client := NewWithClient(&testutil.MockS3Client{}, WithFilesystem(memfs))

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "sniffed text", path: "/a.dummy", want: "text/plain; charset=utf-8"},
		{name: "empty file uses extension", path: "/empty.json", want: "application/json"},
		{name: "missing file uses extension", path: "/nope.html", want: "text/html; charset=utf-8"},
		{name: "unknown extension", path: "/nope.zzz", want: DefaultContentType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, client.detectContentType(tt.path))
		})
	}
}
