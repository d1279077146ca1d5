// File: threadname/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package threadname

import (
	"time"

	"github.com/phuslu/log"

	"github.com/momentics/hioload-threadname/internal/logging"
)

const (
	// DefaultPollInterval is how often RenameAll re-checks the done count.
	DefaultPollInterval = 10 * time.Millisecond

	// DefaultSettleTimeout bounds the wait on each task handle after release.
	DefaultSettleTimeout = 2 * time.Second
)

// Observer receives the outcome of every RenameAll call.
type Observer interface {
	ObserveRename(baseName string, res Result)
}

type options struct {
	pollInterval  time.Duration
	settleTimeout time.Duration
	logger        log.Logger
	sleep         func(time.Duration)
	observer      Observer
}

// Option configures RenameAll.
type Option func(*options)

// WithPollInterval overrides DefaultPollInterval. Non-positive values are ignored.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.pollInterval = d
		}
	}
}

// WithSettleTimeout overrides DefaultSettleTimeout. Non-positive values are ignored.
func WithSettleTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.settleTimeout = d
		}
	}
}

// WithLogger sets the logger stragglers are reported to.
func WithLogger(l log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithSleep replaces time.Sleep in the polling loop.
func WithSleep(fn func(time.Duration)) Option {
	return func(o *options) {
		if fn != nil {
			o.sleep = fn
		}
	}
}

// WithObserver registers a sink for the call's Result, e.g. metrics.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		pollInterval:  DefaultPollInterval,
		settleTimeout: DefaultSettleTimeout,
		logger:        logging.Module("threadname"),
		sleep:         time.Sleep,
	}
	for _, fn := range opts {
		fn(o)
	}
	return o
}
