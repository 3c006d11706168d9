package tvshows

import (
	"net/http"
	"time"
)

// DefaultTimeout bounds every request unless WithTimeout overrides it
const DefaultTimeout = 10 * time.Second

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	timeout   time.Duration
	debug     bool
	observer  Observer
	transport http.RoundTripper
}

func defaultOptions() clientOptions {
	return clientOptions{
		timeout: DefaultTimeout,
	}
}

// WithTimeout sets the request timeout. Non-positive values are ignored.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithDebug enables request and response observations.
func WithDebug(debug bool) Option {
	return func(o *clientOptions) {
		o.debug = debug
	}
}

// WithObserver replaces the default log observer used in debug mode.
// It has no effect unless debug mode is enabled.
func WithObserver(observer Observer) Option {
	return func(o *clientOptions) {
		o.observer = observer
	}
}

// WithTransport sets the round tripper that performs requests.
func WithTransport(transport http.RoundTripper) Option {
	return func(o *clientOptions) {
		o.transport = transport
	}
}
