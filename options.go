package arena

// MemoryAcquirer is consulted before an arena adds backing storage and is
// told when storage is given back. *resource.Controller implements it and
// may be shared by many arenas. AcquireMemory must not block.
type MemoryAcquirer interface {
	AcquireMemory(bytes int64) error
	ReleaseMemory(bytes int64)
}

type options struct {
	logger   *Logger
	metrics  MetricsCollector
	acquirer MemoryAcquirer
}

// Option configures optional arena collaborators.
type Option func(*options)

// WithLogger configures structured logging for slow-path events
// (growth, shrink, failures). If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetrics configures the metrics collector.
// If nil is passed, NoopMetricsCollector is used.
func WithMetrics(m MetricsCollector) Option {
	return func(o *options) {
		if m == nil {
			m = NoopMetricsCollector{}
		}
		o.metrics = m
	}
}

// WithMemoryAcquirer sets a memory budget consulted before backing storage
// is added. A refusal fails the operation with InitFailed, CommitFailed or
// AllocFailed depending on where it happens.
func WithMemoryAcquirer(acquirer MemoryAcquirer) Option {
	return func(o *options) {
		o.acquirer = acquirer
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger:  NoopLogger(),
		metrics: NoopMetricsCollector{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
