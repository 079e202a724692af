package cli

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/awslabs/aws-lambda-redshift-loader/errors"
)

// NewLogger returns a console logger on w. The level comes from level
// unless verbosity raises it: one -v is debug, two or more is trace.
func NewLogger(w io.Writer, verbosity int, level string) (zerolog.Logger, error) {
	lvl := zerolog.InfoLevel
	if level != "" {
		parsed, err := zerolog.ParseLevel(level)
		if err != nil {
			return zerolog.Nop(), errors.Wrapf(err, errors.CodeInvalidConfig, "log level %q", level)
		}
		lvl = parsed
	}

	switch {
	case verbosity == 1:
		lvl = min(lvl, zerolog.DebugLevel)
	case verbosity >= 2:
		lvl = zerolog.TraceLevel
	}

	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

// reportError logs err on w the way main reports failures.
func reportError(w io.Writer, err error) {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true, PartsExclude: []string{zerolog.TimestampFieldName}})
	logger.Error().
		Str("code", string(errors.Classify(err))).
		Msg(err.Error())
}
