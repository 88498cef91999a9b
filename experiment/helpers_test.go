package experiment

import (
	"io"
	"log"

	"github.com/steerlab/steer/internal/logging"
)

// newQuietLogger returns a logger that discards everything, keeping test
// output readable.
func newQuietLogger() *logging.Logger {
	l := logging.New()
	l.SetOutput(log.New(io.Discard, "", 0))
	return l
}
