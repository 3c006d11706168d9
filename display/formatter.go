package display

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/s0up4200/tvdeck/tvshows"
)

// Display defaults for absent show fields
const (
	UntitledLabel = "Untitled"
	NoGenreLabel  = "No genre"
	NoRatingLabel = "N/A"
	EmptyMessage  = "No TV shows found."
)

// maxDetailLength bounds backend error text shown to the user
const maxDetailLength = 200

// ConsoleFormatter provides console output formatting for shows
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

// FormatShowList formats a list of shows for console display
func (f *ConsoleFormatter) FormatShowList(shows []tvshows.ShowRecord) string {
	if len(shows) == 0 {
		return EmptyMessage + "\nThe API responded but returned no shows.\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString("\nTV Show")
	if len(shows) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " (%d):\n\n", len(shows))

	for i, show := range shows {
		isLast := i == len(shows)-1
		f.formatShow(&sb, show, isLast)

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

func (f *ConsoleFormatter) formatShow(sb *strings.Builder, show tvshows.ShowRecord, isLast bool) {
	prefix := "├"
	indent := "│   "
	if isLast {
		prefix = "╰"
		indent = "    "
	}

	fmt.Fprintf(sb, "%s── %s [%s]\n", prefix, Title(show), show.SourceKey())
	fmt.Fprintf(sb, "%s%s\n", indent, Genre(show))
	fmt.Fprintf(sb, "%s%s | ⭐ %s\n", indent, Seasons(show), Rating(show))

	if show.Description != nil && *show.Description != "" {
		fmt.Fprintf(sb, "%s%s\n", indent, truncate(*show.Description, 100))
	}
}

// FormatShow formats a single show with all of its details
func (f *ConsoleFormatter) FormatShow(show tvshows.ShowRecord) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s\n", Title(show))
	sb.WriteString(strings.Repeat("─", 40) + "\n")
	if show.HasID() {
		fmt.Fprintf(&sb, "ID:          %s\n", show.IDString())
	}
	fmt.Fprintf(&sb, "Genre:       %s\n", Genre(show))
	fmt.Fprintf(&sb, "Seasons:     %s\n", Seasons(show))
	fmt.Fprintf(&sb, "IMDb rating: %s\n", Rating(show))
	if show.Description != nil && *show.Description != "" {
		fmt.Fprintf(&sb, "\n%s\n", *show.Description)
	}

	return sb.String()
}

// FormatDistributors formats distributor records by name
func (f *ConsoleFormatter) FormatDistributors(distributors []json.RawMessage) string {
	if len(distributors) == 0 {
		return "No distributors found.\n"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\nDistributors (%d):\n\n", len(distributors))

	for i, raw := range distributors {
		prefix := "├"
		if i == len(distributors)-1 {
			prefix = "╰"
		}
		fmt.Fprintf(&sb, "%s── %s\n", prefix, distributorName(raw, i))
	}

	return sb.String()
}

// FormatError describes a failed request for the user
func (f *ConsoleFormatter) FormatError(report *tvshows.ErrorReport, baseURL string) string {
	if report == nil {
		return ""
	}

	var sb strings.Builder

	if report.Method != "" {
		fmt.Fprintf(&sb, "❌ %s request failed: %s\n", report.Method, report.Message)
	} else {
		fmt.Fprintf(&sb, "❌ Request failed: %s\n", report.Message)
	}
	if report.StatusCode != 0 {
		fmt.Fprintf(&sb, "   Status: %d\n", report.StatusCode)
	}
	if report.URL != "" {
		fmt.Fprintf(&sb, "   URL: %s\n", report.URL)
	}

	switch report.Kind {
	case tvshows.KindNetworkFailure, tvshows.KindTimeout:
		fmt.Fprintf(&sb, "   Make sure the API is running on %s\n", baseURL)
	case tvshows.KindHTTPStatus:
		if detail := backendDetail(report); detail != "" {
			fmt.Fprintf(&sb, "   Backend said: %s\n", detail)
		}
	default:
		sb.WriteString("   The request failed unexpectedly. Please report this as a bug.\n")
	}

	return sb.String()
}

// Overview is the combined result of the overview command. A nil error field
// means the matching section loaded.
type Overview struct {
	BaseURL string

	Health    json.RawMessage
	HealthErr error

	ShowCount int
	ShowsErr  error

	DistributorCount int
	DistributorsErr  error

	Stats    json.RawMessage
	StatsErr error
}

// FormatOverview formats the overview dashboard
func (f *ConsoleFormatter) FormatOverview(o Overview) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "\nTV show backend at %s\n\n", o.BaseURL)

	if o.HealthErr != nil {
		fmt.Fprintf(&sb, "├── Health: ✗ %v\n", o.HealthErr)
	} else {
		fmt.Fprintf(&sb, "├── Health: ✓ %s\n", healthStatus(o.Health))
	}

	if o.ShowsErr != nil {
		fmt.Fprintf(&sb, "├── Shows: unavailable (%v)\n", o.ShowsErr)
	} else {
		fmt.Fprintf(&sb, "├── Shows: %d\n", o.ShowCount)
	}

	if o.DistributorsErr != nil {
		fmt.Fprintf(&sb, "├── Distributors: unavailable (%v)\n", o.DistributorsErr)
	} else {
		fmt.Fprintf(&sb, "├── Distributors: %d\n", o.DistributorCount)
	}

	if o.StatsErr != nil {
		fmt.Fprintf(&sb, "╰── Episode stats: unavailable (%v)\n", o.StatsErr)
		return sb.String()
	}

	sb.WriteString("╰── Episode stats:\n")
	sb.WriteString(FormatStats(o.Stats, "    "))
	return sb.String()
}

// FormatStats renders a JSON object as sorted "key: value" lines
func FormatStats(raw json.RawMessage, indent string) string {
	var stats map[string]any
	if err := json.Unmarshal(raw, &stats); err != nil || len(stats) == 0 {
		return indent + "(none)\n"
	}

	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s%s: %s\n", indent, humanize(k), formatValue(stats[k]))
	}
	return sb.String()
}

// Title returns the show title or the untitled placeholder
func Title(show tvshows.ShowRecord) string {
	if show.Title == nil || *show.Title == "" {
		return UntitledLabel
	}
	return *show.Title
}

// Genre returns the show genre or the no-genre placeholder
func Genre(show tvshows.ShowRecord) string {
	if show.Genre == nil || *show.Genre == "" {
		return NoGenreLabel
	}
	return *show.Genre
}

// Seasons returns the season count, treating absent as zero
func Seasons(show tvshows.ShowRecord) string {
	seasons := 0
	if show.TotalSeasons != nil {
		seasons = *show.TotalSeasons
	}
	if seasons == 1 {
		return "1 season"
	}
	return fmt.Sprintf("%d seasons", seasons)
}

// Rating returns the rating or N/A. A zero rating is shown as N/A.
func Rating(show tvshows.ShowRecord) string {
	if show.Rating == nil || *show.Rating == 0 {
		return NoRatingLabel
	}
	return strconv.FormatFloat(*show.Rating, 'f', -1, 64)
}

// backendDetail pulls a human readable message out of an error body
func backendDetail(report *tvshows.ErrorReport) string {
	switch body := report.BodyJSON().(type) {
	case map[string]any:
		for _, key := range []string{"error", "message", "errors"} {
			if v, ok := body[key]; ok {
				return formatValue(v)
			}
		}
		return truncate(strings.TrimSpace(string(report.Body)), maxDetailLength)
	case nil:
		return truncate(strings.TrimSpace(string(report.Body)), maxDetailLength)
	default:
		return formatValue(body)
	}
}

func distributorName(raw json.RawMessage, index int) string {
	record := tvshows.DecodeShow(raw)

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err == nil {
		if name, ok := fields["name"].(string); ok && name != "" {
			return name
		}
	}
	return "Distributor " + record.Key(index)
}

func healthStatus(raw json.RawMessage) string {
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err == nil {
		if status, ok := body["status"]; ok {
			return formatValue(status)
		}
	}
	return "ok"
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "-"
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, formatValue(item))
		}
		return strings.Join(parts, ", ")
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	}
}

func humanize(key string) string {
	return strings.ReplaceAll(key, "_", " ")
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}
