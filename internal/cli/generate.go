package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/awslabs/aws-lambda-redshift-loader/errors"
	"github.com/awslabs/aws-lambda-redshift-loader/fs"
	"github.com/awslabs/aws-lambda-redshift-loader/trigger"
)

// NewGenerateCommand builds the generate-trigger-file command.
//
// Flag parsing is disabled: the four positional arguments are counted
// exactly as given, and tuning comes from TRIGGER_* variables instead.
func NewGenerateCommand(env Env) *cobra.Command {
	return &cobra.Command{
		Use:   "generate-trigger-file <region> <input-bucket> <input-prefix> <local-directory>",
		Short: "Write a loader trigger file and upload it to an S3 prefix",
		Long: "generate-trigger-file writes " + trigger.FileName + " into a local directory and uploads it\n" +
			"to <input-bucket>/<input-prefix>/" + trigger.FileName + ", firing the Redshift loader for that prefix.",
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, argv []string) error {
			args, err := trigger.ParseArgs(append([]string{cmd.Name()}, argv...))
			if err != nil {
				fmt.Fprint(env.Stdout, trigger.Usage)
				return err
			}

			if err := LoadDotEnv(); err != nil {
				return err
			}
			cfg, err := LoadConfig(env.Viper)
			if err != nil {
				return err
			}

			logger, err := NewLogger(env.Stderr, 0, cfg.LogLevel)
			if err != nil {
				return err
			}

			localDir, err := fs.GetAbs(args.LocalDir)
			if err != nil {
				return errors.Wrap(err, errors.CodeFilesystem, "resolve local directory")
			}
			args.LocalDir = localDir

			ctx := cmd.Context()
			store, err := env.NewStore(ctx, args.Region, cfg, logger)
			if err != nil {
				return errors.Wrapf(err, errors.CodeNetwork, "connect to S3 in %s", args.Region)
			}

			uploader := trigger.NewUploader(store, env.Filesystem,
				trigger.WithStdout(env.Stdout),
				trigger.WithLogger(logger),
			)
			_, err = uploader.Run(ctx, args)
			return err
		},
	}
}
