// Package trigger writes the Redshift loader trigger file locally and
// uploads it to S3, where its arrival fires the loader for a prefix.
package trigger

import (
	"context"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/awslabs/aws-lambda-redshift-loader/errors"
	"github.com/awslabs/aws-lambda-redshift-loader/fs"
	"github.com/awslabs/aws-lambda-redshift-loader/s3"
	"github.com/awslabs/aws-lambda-redshift-loader/s3/s3types"
)

const (
	// FileName is the name of the trigger file, locally and in S3.
	FileName = "lambda-redshift-trigger-file.dummy"

	// Contents is the body of the trigger file.
	Contents = "\n"

	// ContentType is sent with the upload. The .dummy extension has no
	// registered type.
	ContentType = s3.DefaultContentType
)

// Store is the object storage the trigger file is written to.
// *s3.Client satisfies it.
type Store interface {
	LookupBucket(ctx context.Context, bucket string) error
	UploadFile(ctx context.Context, bucket, key, path string, opts ...s3types.UploadOption) (*s3types.UploadResult, error)
}

// Result describes a completed run.
type Result struct {
	Bucket    string
	Key       string
	LocalPath string
	Size      int64
	ETag      string
}

// Uploader writes and uploads trigger files.
type Uploader struct {
	store  Store
	fs     fs.Filesystem
	stdout io.Writer
	logger zerolog.Logger
}

// Option configures an Uploader.
type Option func(*Uploader)

// WithStdout sets where the confirmation line is written. Defaults to os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(u *Uploader) {
		u.stdout = w
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(u *Uploader) {
		u.logger = logger
	}
}

// NewUploader creates an Uploader that writes the local file through
// filesystem and uploads it to store.
func NewUploader(store Store, filesystem fs.Filesystem, opts ...Option) *Uploader {
	u := &Uploader{
		store:  store,
		fs:     filesystem,
		stdout: os.Stdout,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Run checks that the bucket is reachable, writes the trigger file into
// args.LocalDir and uploads it under args.Prefix, overwriting any object
// already there. The local file is left in place whether or not the
// upload succeeds.
func (u *Uploader) Run(ctx context.Context, args Args) (*Result, error) {
	log := u.logger.With().
		Str("bucket", args.Bucket).
		Str("prefix", args.Prefix).
		Logger()

	if err := u.store.LookupBucket(ctx, args.Bucket); err != nil {
		return nil, errors.Wrapf(err, errors.Classify(err), "look up bucket %s", args.Bucket)
	}
	log.Debug().Msg("bucket reachable")

	localPath := LocalPath(args.LocalDir)
	if err := u.writeLocal(args.LocalDir, localPath); err != nil {
		return nil, errors.Wrapf(err, errors.CodeFilesystem, "write trigger file %s", localPath)
	}
	log.Debug().Str("path", localPath).Msg("trigger file written")

	key := ObjectKey(args.Prefix)
	uploaded, err := u.store.UploadFile(ctx, args.Bucket, key, localPath, s3.WithContentType(ContentType))
	if err != nil {
		return nil, errors.Wrapf(err, errors.Classify(err), "upload %s to %s/%s", localPath, args.Bucket, key)
	}

	log.Debug().
		Str("key", key).
		Str("etag", uploaded.ETag).
		Dur("duration", uploaded.Duration).
		Msg("trigger file uploaded")

	if _, err := fmt.Fprintf(u.stdout, "Wrote Dummy Trigger File to %s/%s\n", args.Bucket, key); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "write confirmation")
	}

	return &Result{
		Bucket:    args.Bucket,
		Key:       key,
		LocalPath: localPath,
		Size:      uploaded.Size,
		ETag:      uploaded.ETag,
	}, nil
}

// writeLocal creates or truncates path and makes Contents durable before
// returning. dir must already exist: billy filesystems create missing
// parents on Create.
func (u *Uploader) writeLocal(dir, path string) (err error) {
	info, err := u.fs.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &iofs.PathError{Op: "create", Path: path, Err: syscall.ENOTDIR}
	}

	f, err := u.fs.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if _, err := io.WriteString(f, Contents); err != nil {
		return err
	}
	return f.Sync()
}
