package tvshows

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Observation describes one request as seen by an Observer
type Observation struct {
	Method string
	URL    string

	// Set on RequestFinished only
	StatusCode int
	Err        error
	Duration   time.Duration
}

// Failed reports whether the request errored or returned a status >= 400
func (o Observation) Failed() bool {
	return o.Err != nil || o.StatusCode >= http.StatusBadRequest
}

// Observer receives request lifecycle events in debug mode. Observers are a
// side channel: their return and panics never affect the request.
type Observer interface {
	RequestStarted(obs Observation)
	RequestFinished(obs Observation)
}

// logObserver writes observations to a zerolog logger
type logObserver struct {
	logger zerolog.Logger
}

// NewLogObserver creates an Observer that logs every request and response
func NewLogObserver(logger zerolog.Logger) Observer {
	return &logObserver{logger: logger}
}

func (l *logObserver) RequestStarted(obs Observation) {
	l.logger.Info().
		Str("method", obs.Method).
		Str("url", obs.URL).
		Msgf("Making %s request to: %s", obs.Method, obs.URL)
}

func (l *logObserver) RequestFinished(obs Observation) {
	if obs.Failed() {
		event := l.logger.Error().
			Str("method", obs.Method).
			Str("url", obs.URL).
			Dur("duration", obs.Duration)
		if obs.StatusCode != 0 {
			event = event.Int("status", obs.StatusCode)
		}
		if obs.Err != nil {
			event = event.Err(obs.Err)
		}
		event.Msg("Response error")
		return
	}

	l.logger.Info().
		Int("status", obs.StatusCode).
		Str("url", obs.URL).
		Dur("duration", obs.Duration).
		Msg("Response received")
}

// observingTransport reports every round trip to an Observer
type observingTransport struct {
	base     http.RoundTripper
	observer Observer
}

func newObservingTransport(base http.RoundTripper, observer Observer) *observingTransport {
	return &observingTransport{
		base:     base,
		observer: observer,
	}
}

func (t *observingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	obs := Observation{
		Method: req.Method,
		URL:    req.URL.String(),
	}
	notify(t.observer.RequestStarted, obs)

	start := time.Now()
	resp, err := t.base.RoundTrip(req)

	obs.Duration = time.Since(start)
	obs.Err = err
	if resp != nil {
		obs.StatusCode = resp.StatusCode
	}
	notify(t.observer.RequestFinished, obs)

	return resp, err
}

// notify calls fn, discarding any panic it raises
func notify(fn func(Observation), obs Observation) {
	defer func() {
		_ = recover()
	}()
	fn(obs)
}
