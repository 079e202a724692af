package trigger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awslabs/aws-lambda-redshift-loader/errors"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		argv    []string
		want    Args
		wantErr bool
	}{
		{
			name: "four arguments",
			argv: []string{"generate-trigger-file", "us-west-2", "my-bucket", "incoming/data", "/tmp/work"},
			want: Args{Region: "us-west-2", Bucket: "my-bucket", Prefix: "incoming/data", LocalDir: "/tmp/work"},
		},
		{
			name: "values kept verbatim",
			argv: []string{"generate-trigger-file", "eu-west-1", "b", "incoming/", "./rel dir"},
			want: Args{Region: "eu-west-1", Bucket: "b", Prefix: "incoming/", LocalDir: "./rel dir"},
		},
		{name: "no argv", argv: nil, wantErr: true},
		{name: "program only", argv: []string{"generate-trigger-file"}, wantErr: true},
		{name: "three arguments", argv: []string{"p", "r", "b", "x"}, wantErr: true},
		{name: "five arguments", argv: []string{"p", "r", "b", "x", "d", "extra"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseArgs(tt.argv)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsUsage(err))
				assert.Equal(t, errors.ExitUsage, errors.ExitCode(err))
				assert.Equal(t, Args{}, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestObjectKey(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{prefix: "incoming/data", want: "incoming/data/lambda-redshift-trigger-file.dummy"},
		{prefix: "incoming/data/", want: "incoming/data//lambda-redshift-trigger-file.dummy"},
		{prefix: "", want: "/lambda-redshift-trigger-file.dummy"},
		{prefix: "/leading", want: "/leading/lambda-redshift-trigger-file.dummy"},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			assert.Equal(t, tt.want, ObjectKey(tt.prefix))
		})
	}
}

func TestLocalPath(t *testing.T) {
	assert.Equal(t, "/tmp/work/lambda-redshift-trigger-file.dummy", LocalPath("/tmp/work"))
	assert.Equal(t, "/tmp/work/lambda-redshift-trigger-file.dummy", LocalPath("/tmp/work/"))
}

func TestUsage(t *testing.T) {
	lines := 0
	for _, r := range Usage {
		if r == '\n' {
			lines++
		}
	}
	assert.Equal(t, 2, lines)
	assert.Contains(t, Usage, "<region> <input-bucket> <input-prefix> <local-directory>")
}
