// Package configtable reads the loader configuration table in DynamoDB.
//
// Each item in the table configures one S3 input location as
// "<bucket>/<prefix>" in its s3Prefix attribute. Only the attributes needed
// to place trigger files are decoded.
package configtable

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"

	"github.com/awslabs/aws-lambda-redshift-loader/errors"
)

// DefaultTableName is the table the loader keeps its configuration in.
const DefaultTableName = "LambdaRedshiftBatchLoadConfig"

// ScanAPI is the subset of the DynamoDB API the scanner needs.
type ScanAPI interface {
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

var _ ScanAPI = (*dynamodb.Client)(nil)

// Item is one configured input location.
type Item struct {
	S3Prefix            string `dynamodbav:"s3Prefix"`
	FilenameFilterRegex string `dynamodbav:"filenameFilterRegex"`
}

// Eligible reports whether a trigger file may be placed under the item's
// prefix. Without a filename filter the loader would pick the trigger
// file up as data.
func (i Item) Eligible() bool {
	return i.FilenameFilterRegex != ""
}

// SplitPrefix splits an s3Prefix value into its bucket and the key path
// after the first slash.
func SplitPrefix(s3Prefix string) (bucket, path string, err error) {
	bucket, path, ok := strings.Cut(s3Prefix, "/")
	if !ok || bucket == "" {
		return "", "", errors.New(errors.CodeInvalidInput,
			fmt.Sprintf("s3Prefix %q is not of the form <bucket>/<path>", s3Prefix))
	}
	return bucket, path, nil
}

// Scanner lists the items of a configuration table.
type Scanner struct {
	client ScanAPI
	table  string
	logger zerolog.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithTable overrides DefaultTableName.
func WithTable(table string) Option {
	return func(s *Scanner) {
		if table != "" {
			s.table = table
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// NewScanner creates a Scanner reading through client.
func NewScanner(client ScanAPI, opts ...Option) *Scanner {
	s := &Scanner{
		client: client,
		table:  DefaultTableName,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Table returns the name of the table being scanned.
func (s *Scanner) Table() string {
	return s.table
}

// Items scans the whole table, following LastEvaluatedKey across pages.
func (s *Scanner) Items(ctx context.Context) ([]Item, error) {
	input := &dynamodb.ScanInput{
		TableName:            aws.String(s.table),
		ProjectionExpression: aws.String("s3Prefix, filenameFilterRegex"),
	}

	var items []Item
	for page := 1; ; page++ {
		out, err := s.client.Scan(ctx, input)
		if err != nil {
			return nil, errors.Wrapf(err, scanErrorCode(err), "scan table %s", s.table)
		}

		var decoded []Item
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &decoded); err != nil {
			return nil, errors.Wrapf(err, errors.CodeInternal, "decode items of table %s", s.table)
		}
		items = append(items, decoded...)

		s.logger.Debug().
			Str("table", s.table).
			Int("page", page).
			Int("items", len(decoded)).
			Msg("scanned config page")

		if len(out.LastEvaluatedKey) == 0 {
			return items, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func scanErrorCode(err error) errors.ErrorCode {
	var notFound *types.ResourceNotFoundException
	if stderrors.As(err, &notFound) {
		return errors.CodeNotFound
	}
	return errors.Classify(err)
}
