// Package fanout places a trigger file under every input location in the
// loader configuration table.
package fanout

import (
	"context"
	"sort"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/awslabs/aws-lambda-redshift-loader/configtable"
	"github.com/awslabs/aws-lambda-redshift-loader/errors"
	"github.com/awslabs/aws-lambda-redshift-loader/s3/s3types"
	"github.com/awslabs/aws-lambda-redshift-loader/trigger"
)

// Body is the content of trigger files written by the fan-out.
const Body = "AWS Lambda Redshift Loader Event Trigger File"

// DefaultConcurrency bounds the number of uploads in flight.
const DefaultConcurrency = 5

// Putter writes an in-memory object. *s3.Client satisfies it.
type Putter interface {
	Put(ctx context.Context, bucket, key string, data []byte, opts ...s3types.UploadOption) error
}

// Summary reports what a run did.
type Summary struct {
	// Written lists "<bucket>/<key>" for every trigger file created, sorted.
	Written []string

	// Skipped counts items without a filename filter.
	Skipped int
}

// Runner writes trigger files for configuration items.
type Runner struct {
	store       Putter
	concurrency int
	logger      zerolog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithConcurrency sets the upload limit. Values below one are ignored.
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// New creates a Runner writing through store.
func New(store Putter, opts ...Option) *Runner {
	r := &Runner{
		store:       store,
		concurrency: DefaultConcurrency,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run writes a trigger file under the prefix of every eligible item.
// A failed item does not stop the others; all failures are returned
// together once every upload has finished.
func (r *Runner) Run(ctx context.Context, items []configtable.Item) (*Summary, error) {
	summary := &Summary{}
	if len(items) == 0 {
		r.logger.Info().Msg("no configured prefix entries")
		return summary, nil
	}

	var (
		mu   sync.Mutex
		errs *multierror.Error
		g    errgroup.Group
	)
	g.SetLimit(r.concurrency)

	for _, item := range items {
		if !item.Eligible() {
			summary.Skipped++
			r.logger.Debug().Str("s3_prefix", item.S3Prefix).Msg("no filename filter, skipping")
			continue
		}

		g.Go(func() error {
			target, err := r.write(ctx, item)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = multierror.Append(errs, err)
				return nil
			}
			summary.Written = append(summary.Written, target)
			return nil
		})
	}

	_ = g.Wait()

	sort.Strings(summary.Written)
	return summary, errs.ErrorOrNil()
}

func (r *Runner) write(ctx context.Context, item configtable.Item) (string, error) {
	r.logger.Info().Str("s3_prefix", item.S3Prefix).Msg("processing config entry")

	bucket, path, err := configtable.SplitPrefix(item.S3Prefix)
	if err != nil {
		return "", err
	}

	key := trigger.ObjectKey(path)
	target := bucket + "/" + key

	if err := r.store.Put(ctx, bucket, key, []byte(Body)); err != nil {
		r.logger.Error().Err(err).Str("target", target).Msg("error uploading trigger file")
		return "", errors.Wrapf(err, errors.Classify(err), "put %s", target)
	}

	r.logger.Info().Msgf("Created Dummy file %s", target)
	return target, nil
}
