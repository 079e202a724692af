// Package cli holds the cobra commands behind the trigger file binaries.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/awslabs/aws-lambda-redshift-loader/configtable"
	"github.com/awslabs/aws-lambda-redshift-loader/fanout"
	"github.com/awslabs/aws-lambda-redshift-loader/fs"
	"github.com/awslabs/aws-lambda-redshift-loader/fs/billy"
	"github.com/awslabs/aws-lambda-redshift-loader/s3"
	"github.com/awslabs/aws-lambda-redshift-loader/trigger"
)

// Store is the S3 surface both commands share.
type Store interface {
	trigger.Store
	fanout.Putter
}

var _ Store = (*s3.Client)(nil)

// Env carries everything a command touches outside the process, so tests
// can substitute fakes.
type Env struct {
	Stdout io.Writer
	Stderr io.Writer
	Viper  *viper.Viper

	// Filesystem is where the local trigger file is written.
	Filesystem fs.Filesystem

	// NewStore connects to S3 in region.
	NewStore func(ctx context.Context, region string, cfg *Config, logger zerolog.Logger) (Store, error)

	// NewScanAPI connects to DynamoDB in region.
	NewScanAPI func(ctx context.Context, region string, cfg *Config) (configtable.ScanAPI, error)
}

// DefaultEnv wires the real AWS clients, the OS filesystem and the
// process streams.
func DefaultEnv() Env {
	return Env{
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Viper:      NewViper(),
		Filesystem: billy.NewBaseOSFS(),
		NewStore:   newS3Store,
		NewScanAPI: newDynamoDB,
	}
}

func newS3Store(ctx context.Context, region string, cfg *Config, logger zerolog.Logger) (Store, error) {
	return s3.New(ctx,
		s3.WithRegion(region),
		s3.WithEndpoint(cfg.Endpoint),
		s3.WithForcePathStyle(cfg.ForcePathStyle),
		s3.WithTimeout(cfg.Timeout),
		s3.WithFilesystem(billy.NewBaseOSFS()),
		s3.WithLogger(logger),
	)
}

func newDynamoDB(ctx context.Context, region string, cfg *Config) (configtable.ScanAPI, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithRetryer(func() aws.Retryer {
			return aws.NopRetryer{}
		}),
	)
	if err != nil {
		return nil, err
	}

	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}
