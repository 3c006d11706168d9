package tvshows

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingObserver stores every observation it receives
type recordingObserver struct {
	mu       sync.Mutex
	started  []Observation
	finished []Observation
}

func (r *recordingObserver) RequestStarted(obs Observation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, obs)
}

func (r *recordingObserver) RequestFinished(obs Observation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, obs)
}

type panickingObserver struct{}

func (panickingObserver) RequestStarted(Observation)  { panic("observer exploded") }
func (panickingObserver) RequestFinished(Observation) { panic("observer exploded") }

func TestObserver_DebugEnabled(t *testing.T) {
	backend := newStubBackend(t, respondJSON(http.StatusOK, `[]`))
	observer := &recordingObserver{}
	client := newTestClient(t, backend.URL, WithDebug(true), WithObserver(observer))

	_, err := client.ListShows(context.Background(), map[string]string{"page": "2"})
	require.NoError(t, err)

	require.Len(t, observer.started, 1)
	require.Len(t, observer.finished, 1)

	started := observer.started[0]
	assert.Equal(t, http.MethodGet, started.Method)
	assert.Equal(t, backend.URL+"/api/v1/tv_shows?page=2", started.URL)

	finished := observer.finished[0]
	assert.Equal(t, http.StatusOK, finished.StatusCode)
	assert.Equal(t, started.URL, finished.URL)
	assert.NoError(t, finished.Err)
	assert.False(t, finished.Failed())
}

func TestObserver_ReportsFailures(t *testing.T) {
	t.Run("status error", func(t *testing.T) {
		backend := newStubBackend(t, respondJSON(http.StatusUnprocessableEntity, `{"errors":["title can't be blank"]}`))
		observer := &recordingObserver{}
		client := newTestClient(t, backend.URL, WithDebug(true), WithObserver(observer))

		_, err := client.CreateShow(context.Background(), map[string]any{})
		require.ErrorIs(t, err, ErrHTTPStatus)

		require.Len(t, observer.finished, 1)
		assert.Equal(t, http.StatusUnprocessableEntity, observer.finished[0].StatusCode)
		assert.True(t, observer.finished[0].Failed())
	})

	t.Run("network failure", func(t *testing.T) {
		backend := httptest.NewServer(http.NotFoundHandler())
		baseURL := backend.URL
		backend.Close()

		observer := &recordingObserver{}
		client := newTestClient(t, baseURL, WithDebug(true), WithObserver(observer))

		_, err := client.HealthCheck(context.Background())
		require.ErrorIs(t, err, ErrNetworkFailure)

		require.Len(t, observer.finished, 1)
		assert.Error(t, observer.finished[0].Err)
		assert.Equal(t, baseURL+"/health", observer.finished[0].URL)
	})
}

func TestObserver_DebugDisabledEmitsNothing(t *testing.T) {
	backend := newStubBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			respondJSON(http.StatusOK, `{"status":"ok"}`)(w, r)
			return
		}
		respondJSON(http.StatusInternalServerError, `{"error":"boom"}`)(w, r)
	})

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	observer := &recordingObserver{}

	client, err := NewClient(backend.URL, logger, WithDebug(false), WithObserver(observer))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = client.HealthCheck(ctx)
	require.NoError(t, err)
	_, err = client.Shows(ctx, nil)
	require.Error(t, err)
	_, err = client.DeleteShow(ctx, "")
	require.Error(t, err)

	assert.Empty(t, observer.started)
	assert.Empty(t, observer.finished)
	assert.Empty(t, buf.String())
}

func TestObserver_PanicsDoNotAlterResults(t *testing.T) {
	backend := newStubBackend(t, respondJSON(http.StatusOK, `{"tv_shows":[{"id":1}]}`))
	client := newTestClient(t, backend.URL, WithDebug(true), WithObserver(panickingObserver{}))

	records, err := client.Shows(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestLogObserver(t *testing.T) {
	backend := newStubBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			respondJSON(http.StatusOK, `{"status":"ok"}`)(w, r)
			return
		}
		respondJSON(http.StatusNotFound, `{"error":"not found"}`)(w, r)
	})

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	client, err := NewClient(backend.URL, logger, WithDebug(true))
	require.NoError(t, err)

	_, err = client.HealthCheck(context.Background())
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Making GET request to: "+backend.URL+"/health")
	assert.Contains(t, output, `"message":"Response received"`)
	assert.Contains(t, output, `"status":200`)

	buf.Reset()
	_, err = client.GetShow(context.Background(), "1")
	require.Error(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	last := lines[len(lines)-1]
	assert.Contains(t, last, `"level":"error"`)
	assert.Contains(t, last, `"status":404`)
	assert.Contains(t, last, `"url":"`+backend.URL+`/api/v1/tv_shows/1"`)
}
