// Package errors describes how the S3 client fails: which operation, on
// which bucket and key, and a sentinel naming the cause.
package errors

import (
	"errors"
	"fmt"
)

// Error is a failed S3 call. Bucket and Key are empty when the call
// failed before a target was known.
type Error struct {
	Op     string
	Bucket string
	Key    string
	Err    error
}

func (e *Error) target() string {
	switch {
	case e.Bucket != "" && e.Key != "":
		return " " + e.Bucket + "/" + e.Key
	case e.Bucket != "":
		return " bucket " + e.Bucket
	case e.Key != "":
		return " object " + e.Key
	}
	return ""
}

func (e *Error) Error() string {
	return fmt.Sprintf("s3.%s%s: %v", e.Op, e.target(), e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithBucket sets the bucket the call was made against.
func (e *Error) WithBucket(bucket string) *Error {
	e.Bucket = bucket
	return e
}

// WithKey sets the object key the call was made against.
func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}

// WithMessage appends detail to the cause. The sentinel stays matchable
// with errors.Is.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%w: %s", e.Err, message)
	return e
}

// NewError returns an Error for op with no target.
func NewError(op string, err error) *Error {
	return &Error{Op: op, Err: err}
}

// NewBucketError returns an Error for op against bucket.
func NewBucketError(op, bucket string, err error) *Error {
	return &Error{Op: op, Bucket: bucket, Err: err}
}

// NewObjectError returns an Error for op against bucket/key.
func NewObjectError(op, bucket, key string, err error) *Error {
	return &Error{Op: op, Bucket: bucket, Key: key, Err: err}
}

// The bucket.
var (
	ErrBucketNotFound = errors.New("s3: bucket not found")
	// ErrRegionMismatch is a bucket that lives outside the client's region.
	ErrRegionMismatch = errors.New("s3: region mismatch")
)

// The caller.
var (
	ErrAccessDenied       = errors.New("s3: access denied")
	ErrInvalidCredentials = errors.New("s3: invalid credentials")
)

// The request, rejected before it was sent.
var (
	ErrInvalidInput      = errors.New("s3: invalid input")
	ErrInvalidBucketName = errors.New("s3: invalid bucket name")
	ErrInvalidObjectKey  = errors.New("s3: invalid object key")
)

// The transport.
var (
	ErrConnection = errors.New("s3: connection error")
	ErrTimeout    = errors.New("s3: operation timeout")
)

// IsBucketNotFound reports whether err is a missing bucket.
func IsBucketNotFound(err error) bool {
	return errors.Is(err, ErrBucketNotFound)
}

// IsAccessDenied reports whether the credentials lacked permission.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}

// IsInvalidInput reports whether the request was rejected locally,
// including malformed bucket names and keys.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidBucketName) ||
		errors.Is(err, ErrInvalidObjectKey)
}

// IsUnreachable reports whether the endpoint could not be reached in
// time or at all.
func IsUnreachable(err error) bool {
	return errors.Is(err, ErrConnection) || errors.Is(err, ErrTimeout)
}
