package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awslabs/aws-lambda-redshift-loader/errors"
	"github.com/awslabs/aws-lambda-redshift-loader/trigger"
)

// chdirWithDotEnv moves the test into a directory whose .env cannot be
// parsed.
func chdirWithDotEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(`FOO="unterminated`), 0o600))
	t.Chdir(dir)
}

func TestRun_WrongArgumentCountSkipsDotEnv(t *testing.T) {
	chdirWithDotEnv(t)
	te := newTestEnv("my-bucket")

	code := Run(te.Env, NewGenerateCommand, []string{"only-one-arg"})

	assert.Equal(t, errors.ExitUsage, code)
	assert.Equal(t, trigger.Usage, te.stdout.String())
	assert.Empty(t, te.stderr.String())
	assert.Zero(t, te.storeCalls)
}

func TestRun_MalformedDotEnv(t *testing.T) {
	tests := []struct {
		name       string
		newCommand func(Env) *cobra.Command
		args       []string
	}{
		{
			name:       "generate",
			newCommand: NewGenerateCommand,
			args:       []string{"us-west-2", "my-bucket", "p", "/work"},
		},
		{
			name:       "fanout",
			newCommand: NewFanoutCommand,
			args:       []string{"--region", "us-west-2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirWithDotEnv(t)
			te := newTestEnv("my-bucket")
			require.NoError(t, te.memfs.MkdirAll("/work", 0o755))

			code := Run(te.Env, tt.newCommand, tt.args)

			assert.Equal(t, errors.ExitFailure, code)
			assert.Empty(t, te.stdout.String())
			assert.Contains(t, te.stderr.String(), "load .env")
			assert.Contains(t, te.stderr.String(), string(errors.CodeInvalidConfig))
			assert.Zero(t, te.storeCalls)
			assert.Empty(t, te.tables)
		})
	}
}

func TestRun_Success(t *testing.T) {
	t.Chdir(t.TempDir())
	te := newTestEnv("my-bucket")
	require.NoError(t, te.memfs.MkdirAll("/work", 0o755))

	code := Run(te.Env, NewGenerateCommand, []string{"us-west-2", "my-bucket", "p", "/work"})

	assert.Equal(t, errors.ExitOK, code)
	assert.Equal(t, "Wrote Dummy Trigger File to my-bucket/p/lambda-redshift-trigger-file.dummy\n", te.stdout.String())
}
