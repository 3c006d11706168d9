// Package tvshows provides a client for a TV show catalog REST backend.
//
// The backend's response envelope is not guaranteed to be stable, so the
// package separates three concerns:
//
//   - Client: performs the HTTP calls against a fixed base URL with a JSON
//     content type and a bounded timeout. It never retries.
//   - Normalizer: finds the array of records inside a successful body of
//     unknown shape. It never fails; a body without records yields an
//     empty slice.
//   - Classify: turns any failure into an *ErrorReport with one of four kinds.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := tvshows.NewClient(
//		tvshows.DefaultBaseURL,
//		logger,
//		tvshows.WithTimeout(10*time.Second),
//		tvshows.WithDebug(os.Getenv("TVDECK_DEBUG") == "true"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	records, err := client.Shows(ctx, nil)
//	if err != nil {
//		var report *tvshows.ErrorReport
//		if errors.As(err, &report) && report.Kind == tvshows.KindTimeout {
//			// backend did not answer in time
//		}
//	}
//	shows := tvshows.DecodeShows(records)
//
// # Envelopes
//
// Normalization tries, in order: the collection key ({"tv_shows": [...]}),
// a nested data array ({"data": {"data": [...]}}), an outer data array
// ({"data": [...]}), and a bare array. An outer data field that is not an
// array yields zero records.
//
// # Debug mode
//
// With WithDebug(true) every request is reported to an Observer before it is
// sent and after the response or error arrives. Without it nothing is
// observed or logged by the client.
package tvshows
