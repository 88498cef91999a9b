package experiment

import (
	"errors"
	"os"
	"os/signal"
	"sync/atomic"
)

// ErrInterruptOwned is returned when a second control loop tries to take
// over process interrupt delivery. Only one Runner or EpochDriver may own
// SIGINT at a time; the handler is process-global state.
var ErrInterruptOwned = errors.New("interrupt delivery is already owned by another control loop")

// interruptOwned guards process-wide signal registration.
var interruptOwned atomic.Bool

// claimInterrupts registers for os.Interrupt and returns the delivery
// channel, or ErrInterruptOwned if another loop already holds it.
func claimInterrupts() (chan os.Signal, error) {
	if !interruptOwned.CompareAndSwap(false, true) {
		return nil, ErrInterruptOwned
	}
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	return ch, nil
}

// releaseInterrupts undoes claimInterrupts. Closing the channel after
// signal.Stop is safe and unblocks the watcher goroutine.
func releaseInterrupts(ch chan os.Signal) {
	signal.Stop(ch)
	close(ch)
	interruptOwned.Store(false)
}
