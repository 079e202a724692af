package errors

import (
	"context"
	stderrors "errors"
	iofs "io/fs"
	"net"

	s3errors "github.com/awslabs/aws-lambda-redshift-loader/s3/errors"
)

// CodeOf returns the code of the outermost PlatformError in err's chain, or
// CodeUnknown when there is none.
func CodeOf(err error) ErrorCode {
	var pe *PlatformError
	if stderrors.As(err, &pe) {
		return pe.Code
	}
	return CodeUnknown
}

// Classify derives an ErrorCode from err. Explicit PlatformError codes win;
// otherwise storage sentinels, filesystem errors and network errors are
// recognised.
func Classify(err error) ErrorCode {
	if err == nil {
		return ""
	}
	if code := CodeOf(err); code != CodeUnknown {
		return code
	}

	switch {
	case s3errors.IsBucketNotFound(err):
		return CodeNotFound
	case s3errors.IsAccessDenied(err):
		return CodeForbidden
	case stderrors.Is(err, s3errors.ErrInvalidCredentials):
		return CodeUnauthorized
	case stderrors.Is(err, s3errors.ErrRegionMismatch):
		return CodeInvalidConfig
	case s3errors.IsInvalidInput(err):
		return CodeInvalidInput
	case stderrors.Is(err, s3errors.ErrTimeout), stderrors.Is(err, context.DeadlineExceeded):
		return CodeTimeout
	case s3errors.IsUnreachable(err):
		return CodeNetwork
	case stderrors.Is(err, iofs.ErrNotExist), stderrors.Is(err, iofs.ErrPermission),
		stderrors.Is(err, iofs.ErrExist):
		return CodeFilesystem
	}

	var pathErr *iofs.PathError
	if stderrors.As(err, &pathErr) {
		return CodeFilesystem
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) {
		if netErr.Timeout() {
			return CodeTimeout
		}
		return CodeNetwork
	}

	return CodeUnknown
}

// IsUsage reports whether err is an invocation error.
func IsUsage(err error) bool {
	return Classify(err) == CodeUsage
}

// ExitCode maps err to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case IsUsage(err):
		return ExitUsage
	default:
		return ExitFailure
	}
}
