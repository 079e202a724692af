// Package validation checks caller-supplied values before any request is sent.
//
// Checks are deliberately permissive where S3 is: object keys are accepted
// verbatim (duplicate slashes, dots and so on are legal key bytes), and
// legacy bucket names outside the DNS rules are still allowed.
package validation

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/awslabs/aws-lambda-redshift-loader/s3/errors"
)

const (
	maxBucketNameLength = 255
	maxObjectKeyBytes   = 1024
	maxMetadataKeyLen   = 128
	maxMetadataValueLen = 2048
)

// ValidateRegion checks that region looks like an AWS region identifier.
func ValidateRegion(region string) error {
	if region == "" {
		return errors.NewError("validateRegion", errors.ErrInvalidInput).
			WithMessage("region cannot be empty")
	}
	for _, char := range region {
		if !(char >= 'a' && char <= 'z') && !(char >= '0' && char <= '9') && char != '-' {
			return errors.NewError("validateRegion", errors.ErrInvalidInput).
				WithMessage("region can only contain lowercase letters, numbers, and hyphens")
		}
	}
	return nil
}

// ValidateBucketName rejects bucket names that can never address a bucket.
func ValidateBucketName(bucket string) error {
	if bucket == "" {
		return errors.NewError("validateBucketName", errors.ErrInvalidBucketName).
			WithMessage("bucket name cannot be empty")
	}

	if len(bucket) > maxBucketNameLength {
		return errors.NewError("validateBucketName", errors.ErrInvalidBucketName).
			WithBucket(bucket).
			WithMessage("bucket name cannot exceed 255 characters")
	}

	for _, char := range bucket {
		if char == '/' || unicode.IsSpace(char) || unicode.IsControl(char) {
			return errors.NewError("validateBucketName", errors.ErrInvalidBucketName).
				WithBucket(bucket).
				WithMessage("bucket name cannot contain slashes, whitespace, or control characters")
		}
	}

	return nil
}

// ValidateObjectKey checks the hard limits S3 places on object keys.
// The key is otherwise used exactly as given.
func ValidateObjectKey(key string) error {
	if key == "" {
		return errors.NewError("validateObjectKey", errors.ErrInvalidObjectKey).
			WithMessage("object key cannot be empty")
	}

	if len(key) > maxObjectKeyBytes {
		return errors.NewError("validateObjectKey", errors.ErrInvalidObjectKey).
			WithKey(key).
			WithMessage("object key cannot exceed 1024 bytes")
	}

	if !utf8.ValidString(key) {
		return errors.NewError("validateObjectKey", errors.ErrInvalidObjectKey).
			WithKey(key).
			WithMessage("object key must be valid UTF-8")
	}

	return nil
}

// ValidateMetadata validates metadata keys and values according to S3 rules.
func ValidateMetadata(metadata map[string]string) error {
	for key, value := range metadata {
		if err := validateMetadataKey(key); err != nil {
			return err
		}
		if err := validateMetadataValue(value); err != nil {
			return err
		}
	}
	return nil
}

func validateMetadataKey(key string) error {
	if key == "" {
		return errors.NewError("validateMetadata", errors.ErrInvalidInput).
			WithMessage("metadata key cannot be empty")
	}

	if len(key) > maxMetadataKeyLen {
		return errors.NewError("validateMetadata", errors.ErrInvalidInput).
			WithMessage("metadata key cannot exceed 128 characters")
	}

	lower := strings.ToLower(key)
	for _, prefix := range []string{"aws:", "x-amz-", "x-amz:"} {
		if strings.HasPrefix(lower, prefix) {
			return errors.NewError("validateMetadata", errors.ErrInvalidInput).
				WithMessage("metadata key cannot start with reserved prefix: " + prefix)
		}
	}

	for _, char := range key {
		if char < 33 || char > 126 {
			return errors.NewError("validateMetadata", errors.ErrInvalidInput).
				WithMessage("metadata key can only contain printable ASCII characters")
		}
	}

	return nil
}

func validateMetadataValue(value string) error {
	if len(value) > maxMetadataValueLen {
		return errors.NewError("validateMetadata", errors.ErrInvalidInput).
			WithMessage("metadata value cannot exceed 2048 characters")
	}

	for _, char := range value {
		if !unicode.IsPrint(char) && char != '\t' {
			return errors.NewError("validateMetadata", errors.ErrInvalidInput).
				WithMessage("metadata value can only contain printable characters")
		}
	}

	return nil
}
