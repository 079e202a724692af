// Command create-s3-trigger-files writes a trigger file under every input
// prefix in the loader configuration table that has a filename filter.
//
// Usage:
//
//	create-s3-trigger-files --region <region> [--table <name>] [--concurrency N] [-v]
package main

import (
	"os"

	"github.com/awslabs/aws-lambda-redshift-loader/internal/cli"
)

func main() {
	os.Exit(cli.Run(cli.DefaultEnv(), cli.NewFanoutCommand, os.Args[1:]))
}
