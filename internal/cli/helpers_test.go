package cli

import (
	"bytes"
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/rs/zerolog"

	"github.com/awslabs/aws-lambda-redshift-loader/configtable"
	"github.com/awslabs/aws-lambda-redshift-loader/fs/billy"
	s3errors "github.com/awslabs/aws-lambda-redshift-loader/s3/errors"
	"github.com/awslabs/aws-lambda-redshift-loader/s3/s3types"
)

type fakeStore struct {
	mu        sync.Mutex
	fs        *billy.FS
	buckets   map[string]bool
	objects   map[string][]byte
	uploadErr error
}

func (s *fakeStore) LookupBucket(ctx context.Context, bucket string) error {
	if !s.buckets[bucket] {
		return s3errors.NewBucketError("lookupBucket", bucket, s3errors.ErrBucketNotFound)
	}
	return nil
}

func (s *fakeStore) UploadFile(
	ctx context.Context, bucket, key, path string, opts ...s3types.UploadOption,
) (*s3types.UploadResult, error) {
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[bucket+"/"+key] = data
	return &s3types.UploadResult{Bucket: bucket, Key: key, Size: int64(len(data))}, nil
}

func (s *fakeStore) Put(ctx context.Context, bucket, key string, data []byte, opts ...s3types.UploadOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[bucket+"/"+key] = data
	return nil
}

type fakeScan struct {
	out *dynamodb.ScanOutput
	err error
}

func (f *fakeScan) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

// testEnv is an Env over an in-memory filesystem and fake AWS clients.
type testEnv struct {
	Env
	memfs      *billy.FS
	stdout     *bytes.Buffer
	stderr     *bytes.Buffer
	store      *fakeStore
	scan       *fakeScan
	storeCalls int
	regions    []string
	tables     []string
}

func newTestEnv(buckets ...string) *testEnv {
	memfs := billy.NewInMemoryFS()
	te := &testEnv{
		memfs:  memfs,
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		store: &fakeStore{
			fs:      memfs,
			buckets: make(map[string]bool),
			objects: make(map[string][]byte),
		},
		scan: &fakeScan{out: &dynamodb.ScanOutput{}},
	}
	for _, b := range buckets {
		te.store.buckets[b] = true
	}

	te.Env = Env{
		Stdout:     te.stdout,
		Stderr:     te.stderr,
		Viper:      NewViper(),
		Filesystem: memfs,
		NewStore: func(ctx context.Context, region string, cfg *Config, logger zerolog.Logger) (Store, error) {
			te.storeCalls++
			te.regions = append(te.regions, region)
			return te.store, nil
		},
		NewScanAPI: func(ctx context.Context, region string, cfg *Config) (configtable.ScanAPI, error) {
			te.tables = append(te.tables, cfg.ConfigTable)
			return te.scan, nil
		},
	}
	return te
}
