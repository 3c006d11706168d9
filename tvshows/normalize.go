package tvshows

import (
	"bytes"
	"encoding/json"

	"github.com/rs/zerolog"
)

// ShowsCollectionKey is the envelope field the backend uses for show lists
const ShowsCollectionKey = "tv_shows"

// Strategy identifies which envelope shape produced a normalized sequence
type Strategy int

const (
	StrategyNone Strategy = iota
	StrategyCollectionKey
	StrategyNestedData
	StrategyData
	StrategyBareArray
)

// String returns the strategy name
func (s Strategy) String() string {
	switch s {
	case StrategyCollectionKey:
		return "collection_key"
	case StrategyNestedData:
		return "data.data"
	case StrategyData:
		return "data"
	case StrategyBareArray:
		return "array"
	default:
		return "none"
	}
}

// payload is a response body decoded one level deep. At most one of object
// and array is set; both are nil for scalars, null and invalid JSON.
type payload struct {
	object map[string]json.RawMessage
	array  []json.RawMessage
}

func decodePayload(raw []byte) payload {
	var p payload
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return p
	}

	switch trimmed[0] {
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err == nil {
			p.object = obj
		}
	case '[':
		var arr []json.RawMessage
		if err := json.Unmarshal(trimmed, &arr); err == nil && arr != nil {
			p.array = arr
		}
	}
	return p
}

// field returns the named member of an object payload
func (p payload) field(name string) (payload, bool) {
	if p.object == nil {
		return payload{}, false
	}
	raw, ok := p.object[name]
	if !ok {
		return payload{}, false
	}
	return decodePayload(raw), true
}

// extractor tries one envelope shape. ok=false falls through to the next.
type extractor struct {
	strategy Strategy
	extract  func(p payload, collectionKey string) (records []json.RawMessage, ok bool)
}

var extractors = []extractor{
	{StrategyCollectionKey, func(p payload, key string) ([]json.RawMessage, bool) {
		inner, ok := p.field(key)
		return inner.array, ok && inner.array != nil
	}},
	{StrategyNestedData, func(p payload, _ string) ([]json.RawMessage, bool) {
		data, ok := p.field("data")
		if !ok {
			return nil, false
		}
		nested, ok := data.field("data")
		return nested.array, ok && nested.array != nil
	}},
	{StrategyData, func(p payload, _ string) ([]json.RawMessage, bool) {
		data, ok := p.field("data")
		if !ok {
			return nil, false
		}
		// a present but non-array data field means zero records
		return data.array, true
	}},
	{StrategyBareArray, func(p payload, _ string) ([]json.RawMessage, bool) {
		return p.array, p.array != nil
	}},
}

// Normalizer locates the sequence of records inside a response body of
// unknown shape.
type Normalizer struct {
	collectionKey string
	logger        zerolog.Logger
}

// NewNormalizer creates a normalizer for the given collection key. The logger
// receives a debug event naming the strategy that matched.
func NewNormalizer(collectionKey string, logger zerolog.Logger) Normalizer {
	if collectionKey == "" {
		collectionKey = ShowsCollectionKey
	}
	return Normalizer{
		collectionKey: collectionKey,
		logger:        logger,
	}
}

// Normalize returns the records found in body in source order. Record bytes
// are returned exactly as received. The result is never nil.
func (n Normalizer) Normalize(body []byte) []json.RawMessage {
	records, strategy := n.extract(body)

	n.logger.Debug().
		Str("collection", n.collectionKey).
		Stringer("strategy", strategy).
		Int("count", len(records)).
		Msg("Normalized response body")

	return records
}

func (n Normalizer) extract(body []byte) ([]json.RawMessage, Strategy) {
	p := decodePayload(body)
	for _, e := range extractors {
		if records, ok := e.extract(p, n.collectionKey); ok {
			if records == nil {
				records = []json.RawMessage{}
			}
			return records, e.strategy
		}
	}
	return []json.RawMessage{}, StrategyNone
}

// Normalize extracts show records from body using the tv_shows collection key
func Normalize(body []byte) []json.RawMessage {
	return NewNormalizer(ShowsCollectionKey, zerolog.Nop()).Normalize(body)
}
