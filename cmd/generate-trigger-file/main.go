// Command generate-trigger-file writes the Redshift loader trigger file into
// a local directory and uploads it to an S3 prefix.
//
// Usage:
//
//	generate-trigger-file <region> <input-bucket> <input-prefix> <local-directory>
package main

import (
	"os"

	"github.com/awslabs/aws-lambda-redshift-loader/internal/cli"
)

func main() {
	os.Exit(cli.Run(cli.DefaultEnv(), cli.NewGenerateCommand, os.Args[1:]))
}
