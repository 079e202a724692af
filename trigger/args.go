package trigger

import (
	"fmt"
	"path/filepath"

	"github.com/awslabs/aws-lambda-redshift-loader/errors"
)

// Usage is printed when the tool is invoked with the wrong number of arguments.
const Usage = "Usage: generate-trigger-file <region> <input-bucket> <input-prefix> <local-directory>\n" +
	"Writes " + FileName + " to <local-directory> and uploads it to <input-bucket>/<input-prefix>/" + FileName + "\n"

// argCount is the expected argv length, program name included.
const argCount = 5

// Args are the positional arguments of a run, in invocation order.
type Args struct {
	Region   string
	Bucket   string
	Prefix   string
	LocalDir string
}

// ParseArgs reads Args from argv, where argv[0] is the program name.
// Values are taken verbatim. Any count other than four arguments yields a
// CodeUsage error.
func ParseArgs(argv []string) (Args, error) {
	if len(argv) != argCount {
		return Args{}, errors.New(errors.CodeUsage,
			fmt.Sprintf("expected %d arguments, got %d", argCount-1, max(len(argv)-1, 0)))
	}
	return Args{
		Region:   argv[1],
		Bucket:   argv[2],
		Prefix:   argv[3],
		LocalDir: argv[4],
	}, nil
}

// LocalPath returns the location of the trigger file inside dir.
func LocalPath(dir string) string {
	return filepath.Join(dir, FileName)
}

// ObjectKey returns the object key for prefix. The prefix is not
// normalised: a trailing slash produces a double slash in the key.
func ObjectKey(prefix string) string {
	return prefix + "/" + FileName
}
