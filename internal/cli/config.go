package cli

import (
	stderrors "errors"
	iofs "io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/awslabs/aws-lambda-redshift-loader/configtable"
	"github.com/awslabs/aws-lambda-redshift-loader/errors"
	"github.com/awslabs/aws-lambda-redshift-loader/fanout"
)

// EnvPrefix prefixes every environment variable the tools read.
const EnvPrefix = "TRIGGER"

// Configuration keys. Environment names are EnvPrefix + "_" + the key
// upper-cased with dashes turned into underscores.
const (
	keyRegion         = "region"
	keyEndpoint       = "endpoint"
	keyForcePathStyle = "force-path-style"
	keyTimeout        = "timeout"
	keyLogLevel       = "log-level"
	keyConfigTable    = "config-table"
	keyConcurrency    = "concurrency"
)

// Config is the environment-derived configuration shared by both commands.
type Config struct {
	// Region is only read by create-s3-trigger-files; generate-trigger-file
	// takes it positionally.
	Region         string
	Endpoint       string
	ForcePathStyle bool
	Timeout        time.Duration
	LogLevel       string
	ConfigTable    string
	Concurrency    int
}

// NewViper returns a viper instance reading TRIGGER_* variables, with
// AWS_REGION as a fallback for the region.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(keyEndpoint, "")
	v.SetDefault(keyForcePathStyle, false)
	v.SetDefault(keyTimeout, time.Duration(0))
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyConfigTable, configtable.DefaultTableName)
	v.SetDefault(keyConcurrency, fanout.DefaultConcurrency)

	_ = v.BindEnv(keyRegion, EnvPrefix+"_REGION", "AWS_REGION")

	return v
}

// LoadDotEnv loads a .env file into the process environment when one
// exists. Variables already set are not overridden.
func LoadDotEnv(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil && !stderrors.Is(err, iofs.ErrNotExist) {
		return errors.Wrap(err, errors.CodeInvalidConfig, "load .env")
	}
	return nil
}

// LoadConfig reads Config from v.
func LoadConfig(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Region:         v.GetString(keyRegion),
		Endpoint:       v.GetString(keyEndpoint),
		ForcePathStyle: v.GetBool(keyForcePathStyle),
		Timeout:        v.GetDuration(keyTimeout),
		LogLevel:       v.GetString(keyLogLevel),
		ConfigTable:    v.GetString(keyConfigTable),
		Concurrency:    v.GetInt(keyConcurrency),
	}

	if cfg.Timeout < 0 {
		return nil, errors.New(errors.CodeInvalidConfig, "timeout cannot be negative")
	}
	if cfg.Concurrency < 1 {
		return nil, errors.New(errors.CodeInvalidConfig, "concurrency must be at least 1")
	}
	if cfg.ConfigTable == "" {
		return nil, errors.New(errors.CodeInvalidConfig, "config table name cannot be empty")
	}

	return cfg, nil
}
