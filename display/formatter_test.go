package display

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/s0up4200/tvdeck/tvshows"
)

func decode(raw string) tvshows.ShowRecord {
	return tvshows.DecodeShow(json.RawMessage(raw))
}

func TestFormatShowList_Empty(t *testing.T) {
	f := NewConsoleFormatter()

	output := f.FormatShowList(nil)
	assert.True(t, strings.HasPrefix(output, EmptyMessage))
	assert.NotContains(t, output, "Error")
}

func TestFormatShowList(t *testing.T) {
	f := NewConsoleFormatter()
	shows := tvshows.DecodeShows([]json.RawMessage{
		json.RawMessage(`{"id":1,"title":"The Wire","genre":"Crime","total_seasons":5,"imdb_rating":"9.3","description":"Baltimore"}`),
		json.RawMessage(`{"total_seasons":1}`),
	})

	output := f.FormatShowList(shows)

	assert.Contains(t, output, "TV Shows (2):")
	assert.Contains(t, output, "├── The Wire [1]")
	assert.Contains(t, output, "│   Crime")
	assert.Contains(t, output, "│   5 seasons | ⭐ 9.3")
	assert.Contains(t, output, "│   Baltimore")

	// positional key and defaults for the second record
	assert.Contains(t, output, "╰── Untitled [1]")
	assert.Contains(t, output, "    No genre")
	assert.Contains(t, output, "    1 season | ⭐ N/A")

	assert.Less(t, strings.Index(output, "The Wire"), strings.Index(output, "Untitled"))
}

func TestFormatShowList_KeyUsesResponsePosition(t *testing.T) {
	f := NewConsoleFormatter()
	shows := tvshows.DecodeShows([]json.RawMessage{
		json.RawMessage(`{"id":1,"title":"Kept out"}`),
		json.RawMessage(`{"id":2,"title":"Also out"}`),
		json.RawMessage(`{"title":"No ID"}`),
	})

	// only the record without an ID survives filtering
	output := f.FormatShowList(shows[2:])
	assert.Contains(t, output, "╰── No ID [2]")
}

func TestDisplayDefaults(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		title   string
		genre   string
		seasons string
		rating  string
	}{
		{
			name:    "all present",
			raw:     `{"title":"Fleabag","genre":"Comedy","total_seasons":2,"imdb_rating":8.7}`,
			title:   "Fleabag",
			genre:   "Comedy",
			seasons: "2 seasons",
			rating:  "8.7",
		},
		{
			name:    "all absent",
			raw:     `{}`,
			title:   UntitledLabel,
			genre:   NoGenreLabel,
			seasons: "0 seasons",
			rating:  NoRatingLabel,
		},
		{
			name:    "empty strings and zero rating",
			raw:     `{"title":"","genre":"","imdb_rating":0}`,
			title:   UntitledLabel,
			genre:   NoGenreLabel,
			seasons: "0 seasons",
			rating:  NoRatingLabel,
		},
		{
			name:    "fallback rating key",
			raw:     `{"rating":"7"}`,
			title:   UntitledLabel,
			genre:   NoGenreLabel,
			seasons: "0 seasons",
			rating:  "7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			show := decode(tt.raw)
			assert.Equal(t, tt.title, Title(show))
			assert.Equal(t, tt.genre, Genre(show))
			assert.Equal(t, tt.seasons, Seasons(show))
			assert.Equal(t, tt.rating, Rating(show))
		})
	}
}

func TestFormatShow(t *testing.T) {
	f := NewConsoleFormatter()

	output := f.FormatShow(decode(`{"id":"abc","title":"Dark","total_seasons":3,"description":"Time travel"}`))
	assert.Contains(t, output, "Dark\n")
	assert.Contains(t, output, "ID:          abc")
	assert.Contains(t, output, "Genre:       No genre")
	assert.Contains(t, output, "Seasons:     3 seasons")
	assert.Contains(t, output, "IMDb rating: N/A")
	assert.Contains(t, output, "Time travel")

	assert.NotContains(t, f.FormatShow(decode(`{"title":"x"}`)), "ID:")
}

func TestFormatError(t *testing.T) {
	f := NewConsoleFormatter()
	baseURL := "http://localhost:3000"

	tests := []struct {
		name     string
		report   *tvshows.ErrorReport
		contains []string
		excludes []string
	}{
		{
			name: "network failure",
			report: &tvshows.ErrorReport{
				Kind:    tvshows.KindNetworkFailure,
				Message: "no response received: connection refused",
				Method:  "GET",
				URL:     baseURL + "/api/v1/tv_shows",
			},
			contains: []string{
				"GET request failed: no response received",
				"connection refused",
				"URL: " + baseURL + "/api/v1/tv_shows",
				"Make sure the API is running on " + baseURL,
			},
			excludes: []string{"Status:"},
		},
		{
			name: "timeout",
			report: &tvshows.ErrorReport{
				Kind:    tvshows.KindTimeout,
				Message: "no response received within the configured timeout",
			},
			contains: []string{"Make sure the API is running on " + baseURL},
			excludes: []string{"URL:"},
		},
		{
			name: "status error with json detail",
			report: &tvshows.ErrorReport{
				Kind:       tvshows.KindHTTPStatus,
				Message:    "request failed with status code 422",
				StatusCode: 422,
				Body:       []byte(`{"errors":["title can't be blank","genre is too long"]}`),
			},
			contains: []string{
				"Status: 422",
				"Backend said: title can't be blank, genre is too long",
			},
			excludes: []string{"Make sure"},
		},
		{
			name: "status error with text body",
			report: &tvshows.ErrorReport{
				Kind:       tvshows.KindHTTPStatus,
				Message:    "request failed with status code 502",
				StatusCode: 502,
				Body:       []byte("Bad Gateway\n"),
			},
			contains: []string{"Backend said: Bad Gateway"},
		},
		{
			name: "unexpected",
			report: &tvshows.ErrorReport{
				Kind:    tvshows.KindUnexpectedShape,
				Message: "show ID is required",
			},
			contains: []string{"Request failed: show ID is required", "report this as a bug"},
		},
		{
			name: "delete failure is not described as loading",
			report: &tvshows.ErrorReport{
				Kind:       tvshows.KindHTTPStatus,
				Message:    "request failed with status code 404",
				Method:     "DELETE",
				URL:        baseURL + "/api/v1/tv_shows/9",
				StatusCode: 404,
				Body:       []byte(`{"error":"not found"}`),
			},
			contains: []string{"DELETE request failed", "Backend said: not found"},
			excludes: []string{"loading TV shows"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := f.FormatError(tt.report, baseURL)
			assert.Contains(t, output, tt.report.Message)
			for _, s := range tt.contains {
				assert.Contains(t, output, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, output, s)
			}
		})
	}

	assert.Empty(t, f.FormatError(nil, baseURL))
}

func TestFormatError_TruncatesUnknownJSONBody(t *testing.T) {
	f := NewConsoleFormatter()
	body := `{"detail":"` + strings.Repeat("x", 500) + `"}`

	output := f.FormatError(&tvshows.ErrorReport{
		Kind:       tvshows.KindHTTPStatus,
		Message:    "request failed with status code 500",
		StatusCode: 500,
		Body:       []byte(body),
	}, "http://localhost:3000")

	assert.NotContains(t, output, body)
	assert.Contains(t, output, "...")
	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(line, "   Backend said: ") {
			assert.Len(t, []rune(strings.TrimPrefix(line, "   Backend said: ")), maxDetailLength)
		}
	}
}

func TestFormatOverview(t *testing.T) {
	f := NewConsoleFormatter()

	t.Run("all sections loaded", func(t *testing.T) {
		output := f.FormatOverview(Overview{
			BaseURL:          "http://localhost:3000",
			Health:           json.RawMessage(`{"status":"ok"}`),
			ShowCount:        12,
			DistributorCount: 3,
			Stats:            json.RawMessage(`{"total_episodes":140,"average_runtime":42.5}`),
		})

		assert.Contains(t, output, "Health: ✓ ok")
		assert.Contains(t, output, "Shows: 12")
		assert.Contains(t, output, "Distributors: 3")
		assert.Contains(t, output, "    average runtime: 42.5")
		assert.Contains(t, output, "    total episodes: 140")
		assert.Less(t, strings.Index(output, "average runtime"), strings.Index(output, "total episodes"))
	})

	t.Run("failed sections", func(t *testing.T) {
		boom := errors.New("boom")
		output := f.FormatOverview(Overview{
			HealthErr:       boom,
			ShowsErr:        boom,
			DistributorsErr: boom,
			StatsErr:        boom,
		})

		assert.Contains(t, output, "Health: ✗ boom")
		assert.Contains(t, output, "Shows: unavailable (boom)")
		assert.Contains(t, output, "Distributors: unavailable (boom)")
		assert.Contains(t, output, "Episode stats: unavailable (boom)")
	})
}

func TestFormatStats_NotAnObject(t *testing.T) {
	assert.Equal(t, "  (none)\n", FormatStats(json.RawMessage(`[1,2]`), "  "))
	assert.Equal(t, "(none)\n", FormatStats(nil, ""))
}

func TestFormatDistributors(t *testing.T) {
	f := NewConsoleFormatter()

	assert.Equal(t, "No distributors found.\n", f.FormatDistributors(nil))

	output := f.FormatDistributors([]json.RawMessage{
		json.RawMessage(`{"id":4,"name":"HBO"}`),
		json.RawMessage(`{"id":9}`),
		json.RawMessage(`"not an object"`),
	})
	assert.Contains(t, output, "Distributors (3):")
	assert.Contains(t, output, "├── HBO")
	assert.Contains(t, output, "├── Distributor 9")
	assert.Contains(t, output, "╰── Distributor 2")
}
