package filter

import (
	"github.com/s0up4200/tvdeck/tvshows"
)

// Filter defines the basic interface for show filters
type Filter interface {
	// Match checks if a show matches the filter criteria
	Match(show tvshows.ShowRecord) bool

	// Expression returns the original filter expression
	Expression() string
}
