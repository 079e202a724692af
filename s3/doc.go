// Package s3 provides the storage client used by the trigger file tools.
// It wraps AWS SDK v2 behind a small API: look up a bucket, stream a
// local file to a key, or put an in-memory payload.
//
// The client never retries. Every operation is a single request and any
// failure is returned to the caller classified against the sentinels in
// the errors subpackage.
//
// Example usage:
//
//	client, err := s3.New(ctx, s3.WithRegion("us-east-1"))
//	if err != nil {
//	    return err
//	}
//
//	if err := client.LookupBucket(ctx, "my-bucket"); err != nil {
//	    return err
//	}
//
//	result, err := client.UploadFile(ctx, "my-bucket", "input/file.dummy", "/tmp/file.dummy")
//	if err != nil {
//	    return err
//	}
package s3
