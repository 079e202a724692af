package s3

import (
	"context"
	"net/http"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/awslabs/aws-lambda-redshift-loader/fs"
	"github.com/awslabs/aws-lambda-redshift-loader/fs/billy"
	"github.com/awslabs/aws-lambda-redshift-loader/s3/errors"
	"github.com/awslabs/aws-lambda-redshift-loader/s3/internal/s3api"
	"github.com/awslabs/aws-lambda-redshift-loader/s3/internal/validation"
	"github.com/awslabs/aws-lambda-redshift-loader/s3/s3types"
)

// Client is an S3 client bound to a single region.
// It is safe for concurrent use.
type Client struct {
	// s3Client is the underlying AWS SDK S3 client
	s3Client s3api.S3API

	// config holds the AWS configuration
	config aws.Config

	// mu protects fs
	mu sync.RWMutex

	// fs is the filesystem local files are read from
	fs fs.Filesystem

	logger zerolog.Logger
}

// New creates a new S3 client with the provided options.
// Credentials come from the default chain. A region is required and
// the SDK retryer is replaced by aws.NopRetryer, so a failed request
// surfaces immediately.
//
// Example:
//
//	client, err := s3.New(ctx,
//	    s3.WithRegion("eu-west-1"),
//	    s3.WithEndpoint("http://localhost:4566"),
//	    s3.WithForcePathStyle(true),
//	)
func New(ctx context.Context, opts ...s3types.Option) (*Client, error) {
	clientCfg := &s3types.ClientConfig{}
	for _, opt := range opts {
		opt(clientCfg)
	}

	var cfg aws.Config
	if clientCfg.CustomAWSConfig != nil {
		cfg = clientCfg.CustomAWSConfig.Copy()
		if clientCfg.Region != "" {
			cfg.Region = clientCfg.Region
		}
		if err := validation.ValidateRegion(cfg.Region); err != nil {
			return nil, err
		}
	} else {
		if err := validation.ValidateRegion(clientCfg.Region); err != nil {
			return nil, err
		}
		var err error
		cfg, err = config.LoadDefaultConfig(ctx, config.WithRegion(clientCfg.Region))
		if err != nil {
			return nil, errors.NewError("client initialization", err)
		}
	}

	cfg.Retryer = func() aws.Retryer {
		return aws.NopRetryer{}
	}

	var s3Opts []func(*s3.Options)

	if clientCfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(clientCfg.Endpoint)
		})
	}

	if clientCfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	switch {
	case clientCfg.CustomHTTPClient != nil:
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.HTTPClient = clientCfg.CustomHTTPClient
		})
	case clientCfg.Timeout > 0:
		httpClient := &http.Client{
			Timeout: clientCfg.Timeout,
		}
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.HTTPClient = httpClient
		})
	}

	client := &Client{
		s3Client: s3.NewFromConfig(cfg, s3Opts...),
		config:   cfg,
		fs:       clientCfg.Filesystem,
		logger:   zerolog.Nop(),
	}

	if client.fs == nil {
		client.fs = billy.NewBaseOSFS()
	}
	if clientCfg.Logger != nil {
		client.logger = *clientCfg.Logger
	}

	client.logger.Debug().
		Str("region", cfg.Region).
		Str("endpoint", clientCfg.Endpoint).
		Bool("path_style", clientCfg.ForcePathStyle).
		Msg("s3 client configured")

	return client, nil
}

// NewWithClient creates a client around a custom S3API implementation.
// This is primarily used for testing with mocked clients.
func NewWithClient(s3Client s3api.S3API, opts ...s3types.Option) *Client {
	clientCfg := &s3types.ClientConfig{}
	for _, opt := range opts {
		opt(clientCfg)
	}

	client := &Client{
		s3Client: s3Client,
		config:   aws.Config{Region: clientCfg.Region},
		fs:       clientCfg.Filesystem,
		logger:   zerolog.Nop(),
	}
	if client.fs == nil {
		client.fs = billy.NewBaseOSFS()
	}
	if clientCfg.Logger != nil {
		client.logger = *clientCfg.Logger
	}
	return client
}

// Region returns the region the client sends requests to.
func (c *Client) Region() string {
	return c.config.Region
}

// SetFilesystem sets the filesystem local files are read from.
func (c *Client) SetFilesystem(filesystem fs.Filesystem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fs = filesystem
}

func (c *Client) filesystem() fs.Filesystem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fs
}
