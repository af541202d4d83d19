// Package logger provides a configured zerolog logger.
package logger

import (
	"os"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	zpkgerrors "github.com/rs/zerolog/pkgerrors"
)

var setupOnce sync.Once

// New returns a zerolog.Logger tagged with the service name.
// Call sites should use .Stack() on error events to include stacks.
func New(serviceName string) zerolog.Logger {
	setupOnce.Do(func() {
		// Wire zerolog to github.com/pkg/errors so error events carry a
		// stack trace whether or not the error was created with one.
		zerolog.ErrorStackMarshaler = func(err error) interface{} {
			type stackTracer interface{ StackTrace() pkgerrors.StackTrace }
			if _, ok := err.(stackTracer); !ok {
				err = pkgerrors.WithStack(err)
			}
			return zpkgerrors.MarshalStack(err)
		}
		zerolog.ErrorMarshalFunc = func(err error) interface{} {
			type stackTracer interface{ StackTrace() pkgerrors.StackTrace }
			if _, ok := err.(stackTracer); ok {
				return err
			}
			return pkgerrors.WithStack(err)
		}
	})

	return zerolog.New(os.Stdout).With().
		Str("service", serviceName).
		Timestamp().
		Logger()
}
