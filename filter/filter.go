package filter

import (
	"github.com/s0up4200/tvdeck/tvshows"
)

// Apply returns the shows matching f in their original order.
// A nil filter matches everything.
func Apply(f Filter, shows []tvshows.ShowRecord) []tvshows.ShowRecord {
	if f == nil {
		return shows
	}

	matched := make([]tvshows.ShowRecord, 0, len(shows))
	for _, show := range shows {
		if f.Match(show) {
			matched = append(matched, show)
		}
	}
	return matched
}

var _ Filter = (*ExprFilter)(nil)
