package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/awslabs/aws-lambda-redshift-loader/errors"
)

// Execute runs cmd and returns the process exit status. Failures other
// than a usage error are reported on env.Stderr.
func Execute(ctx context.Context, cmd *cobra.Command, env Env, args []string) int {
	if args == nil {
		// cobra falls back to os.Args for a nil slice
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(env.Stdout)
	cmd.SetErr(env.Stderr)

	err := cmd.ExecuteContext(ctx)
	if err != nil && !errors.IsUsage(err) {
		reportError(env.Stderr, err)
	}
	return errors.ExitCode(err)
}

// Run builds the command over env and executes it until it finishes or
// the process is interrupted. Commands load .env themselves once their
// arguments are accepted.
func Run(env Env, newCommand func(Env) *cobra.Command, args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return Execute(ctx, newCommand(env), env, args)
}
