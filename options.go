package workq

import "go.uber.org/zap"

// Option is a queue configuration option.
type Option interface {
	apply(*queueOptions)
}

type queueOptions struct {
	logger *zap.Logger
	name   string
}

func newDefaultQueueOptions() queueOptions {
	return queueOptions{
		logger: zap.NewNop(),
		name:   "default",
	}
}

func newQueueOptions(opts []Option) queueOptions {
	o := newDefaultQueueOptions()
	for _, opt := range opts {
		opt.apply(&o)
	}
	return o
}

// WithLogger option configures the logger.
//
// The nil value configures a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return funcOption(func(opts *queueOptions) {
		if logger == nil {
			logger = zap.NewNop()
		}
		opts.logger = logger
	})
}

// WithName option configures the queue name used in log fields and errors.
func WithName(name string) Option {
	return funcOption(func(opts *queueOptions) {
		opts.name = name
	})
}

type funcOption func(*queueOptions)

func (o funcOption) apply(opts *queueOptions) {
	o(opts)
}
