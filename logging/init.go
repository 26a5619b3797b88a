package logging

import (
	"github.com/crytic/u256diff/logging/colors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// init sets up global zerolog parameters, pkg/errors stack traces and UNIX timestamps, and enables ANSI coloring on
// consoles which need it switched on first.
func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	colors.EnableColor()
}
