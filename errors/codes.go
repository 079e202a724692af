// Package errors provides the error taxonomy shared by the trigger file
// tools. It extends Go's standard error handling with structured error
// codes and the mapping from those codes to process exit statuses.
package errors

// ErrorCode represents a specific failure condition.
// Error codes are string-based for debuggability and log readability.
type ErrorCode string

const (
	// Invocation errors.

	// CodeUsage indicates the program was invoked with the wrong arguments.
	CodeUsage ErrorCode = "USAGE"

	// CodeInvalidInput indicates a supplied value is invalid or malformed.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeInvalidConfig indicates the environment configuration is unusable.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// Resource errors.

	// CodeNotFound indicates the bucket or another remote resource does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// Permission errors.

	// CodeUnauthorized indicates credentials are missing or invalid.
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// CodeForbidden indicates the caller lacks permission on the bucket or key.
	CodeForbidden ErrorCode = "FORBIDDEN"

	// Infrastructure errors.

	// CodeNetwork indicates the storage endpoint could not be reached.
	CodeNetwork ErrorCode = "NETWORK_ERROR"

	// CodeTimeout indicates an operation exceeded its time limit.
	CodeTimeout ErrorCode = "TIMEOUT"

	// CodeFilesystem indicates a local filesystem operation failed.
	CodeFilesystem ErrorCode = "FILESYSTEM_ERROR"

	// System errors.

	// CodeInternal indicates an internal error occurred.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeUnknown indicates an unclassified error.
	CodeUnknown ErrorCode = "UNKNOWN"
)

// Exit statuses returned by the command line tools.
const (
	// ExitOK is returned when the run reached its end.
	ExitOK = 0

	// ExitFailure is returned for any backend or filesystem failure.
	ExitFailure = 1

	// ExitUsage is the status of os.Exit(-1) on POSIX systems.
	ExitUsage = 255
)
