package mq

// defaultMaxMessageLength bounds an inbound Msg payload absent a
// [WithMaxMessageLength] override: large enough for any reasonable
// application frame, small enough that a corrupt or hostile length field
// can't drive an unbounded allocation.
const defaultMaxMessageLength = 64 << 20 // 64 MiB

// endpointOptions holds configuration shared by [Serve] and [Connect].
type endpointOptions struct {
	logger           Logger
	backlog          int
	maxMessageLength uint64
}

func resolveEndpointOptions(opts []EndpointOption) *endpointOptions {
	cfg := &endpointOptions{backlog: 128, maxMessageLength: defaultMaxMessageLength}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyEndpoint(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = defaultLogger()
	}
	return cfg
}

// EndpointOption configures [Serve] or [Connect].
type EndpointOption interface {
	applyEndpoint(*endpointOptions)
}

type endpointOptionFunc func(*endpointOptions)

func (f endpointOptionFunc) applyEndpoint(o *endpointOptions) { f(o) }

// WithLogger overrides the package-level logger for a single Endpoint.
func WithLogger(logger Logger) EndpointOption {
	return endpointOptionFunc(func(o *endpointOptions) {
		o.logger = logger
	})
}

// WithBacklog sets the listen(2) backlog for [Serve]. Ignored by [Connect].
func WithBacklog(n int) EndpointOption {
	return endpointOptionFunc(func(o *endpointOptions) {
		if n > 0 {
			o.backlog = n
		}
	})
}

// WithMaxMessageLength caps the payload length driveRecv will allocate for
// a single inbound Msg, rejecting any header that advertises more with
// [ErrMessageTooLarge] and latching the Endpoint into StateError. Without
// this cap a corrupt or hostile peer can name an arbitrary 64-bit length
// and drive an unbounded allocation before a single payload byte arrives.
// n == 0 disables the cap, reverting to the unbounded behavior.
func WithMaxMessageLength(n uint64) EndpointOption {
	return endpointOptionFunc(func(o *endpointOptions) {
		o.maxMessageLength = n
	})
}

// pollSetOptions holds configuration for [NewPollSet].
type pollSetOptions struct {
	logger Logger
}

func resolvePollSetOptions(opts []PollSetOption) *pollSetOptions {
	cfg := &pollSetOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyPollSet(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = defaultLogger()
	}
	return cfg
}

// PollSetOption configures [NewPollSet].
type PollSetOption interface {
	applyPollSet(*pollSetOptions)
}

type pollSetOptionFunc func(*pollSetOptions)

func (f pollSetOptionFunc) applyPollSet(o *pollSetOptions) { f(o) }

// WithPollSetLogger overrides the package-level logger for a single PollSet.
func WithPollSetLogger(logger Logger) PollSetOption {
	return pollSetOptionFunc(func(o *pollSetOptions) {
		o.logger = logger
	})
}
