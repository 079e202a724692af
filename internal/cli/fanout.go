package cli

import (
	"github.com/spf13/cobra"

	"github.com/awslabs/aws-lambda-redshift-loader/configtable"
	"github.com/awslabs/aws-lambda-redshift-loader/errors"
	"github.com/awslabs/aws-lambda-redshift-loader/fanout"
)

// NewFanoutCommand builds the create-s3-trigger-files command, which
// writes a trigger file under every filtered prefix in the loader
// configuration table.
func NewFanoutCommand(env Env) *cobra.Command {
	var verbosity int

	cmd := &cobra.Command{
		Use:           "create-s3-trigger-files",
		Short:         "Write a trigger file under every configured loader prefix",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := LoadDotEnv(); err != nil {
				return err
			}
			cfg, err := LoadConfig(env.Viper)
			if err != nil {
				return err
			}

			logger, err := NewLogger(env.Stderr, verbosity, cfg.LogLevel)
			if err != nil {
				return err
			}

			if cfg.Region == "" {
				return errors.New(errors.CodeInvalidConfig,
					"region is required (--region, "+EnvPrefix+"_REGION or AWS_REGION)")
			}

			ctx := cmd.Context()
			scanAPI, err := env.NewScanAPI(ctx, cfg.Region, cfg)
			if err != nil {
				return errors.Wrapf(err, errors.CodeNetwork, "connect to DynamoDB in %s", cfg.Region)
			}
			store, err := env.NewStore(ctx, cfg.Region, cfg, logger)
			if err != nil {
				return errors.Wrapf(err, errors.CodeNetwork, "connect to S3 in %s", cfg.Region)
			}

			items, err := configtable.NewScanner(scanAPI,
				configtable.WithTable(cfg.ConfigTable),
				configtable.WithLogger(logger),
			).Items(ctx)
			if err != nil {
				return err
			}

			summary, err := fanout.New(store,
				fanout.WithConcurrency(cfg.Concurrency),
				fanout.WithLogger(logger),
			).Run(ctx, items)

			logger.Info().
				Str("table", cfg.ConfigTable).
				Int("written", len(summary.Written)).
				Int("skipped", summary.Skipped).
				Msg("trigger files created")

			return err
		},
	}

	flags := cmd.Flags()
	flags.CountVarP(&verbosity, "verbose", "v", "verbose output")
	flags.String("region", "", "AWS region of the config table and buckets")
	flags.String("table", configtable.DefaultTableName, "loader configuration table")
	flags.Int("concurrency", fanout.DefaultConcurrency, "maximum uploads in flight")

	_ = env.Viper.BindPFlag(keyRegion, flags.Lookup("region"))
	_ = env.Viper.BindPFlag(keyConfigTable, flags.Lookup("table"))
	_ = env.Viper.BindPFlag(keyConcurrency, flags.Lookup("concurrency"))

	return cmd
}
