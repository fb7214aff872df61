package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chromaworks/aircanvas/model"
)

// ErrEndOfSequence is returned by Next when a finite source has yielded its
// last observation and is not configured to loop.
var ErrEndOfSequence = errors.New("source: end of sequence")

// Source yields observations in presentation order. Next blocks until an
// observation is available, the source is exhausted, or ctx is done.
type Source interface {
	Next(ctx context.Context) (model.Observation, error)
	Close() error
}

// wireObservation is the JSON payload carried by the streaming sources.
type wireObservation struct {
	Time    time.Time          `json:"time"`
	Station string             `json:"station"`
	Values  map[string]float64 `json:"values"`
}

// decodeObservation parses a streamed payload. Value keys that do not name a
// known measurement are returned so callers can log them; the observation
// keeps only the known ones.
func decodeObservation(payload []byte) (model.Observation, []string, error) {
	var wire wireObservation
	if err := json.Unmarshal(payload, &wire); err != nil {
		return model.Observation{}, nil, fmt.Errorf("source: decode observation: %w", err)
	}

	known := make(map[model.Measurement]struct{}, len(model.Measurements))
	for _, m := range model.Measurements {
		known[m] = struct{}{}
	}

	values := make(map[model.Measurement]float64, len(wire.Values))
	var unknown []string
	for key, v := range wire.Values {
		m := model.Measurement(key)
		if _, ok := known[m]; !ok {
			unknown = append(unknown, key)
			continue
		}
		values[m] = v
	}
	return model.NewObservation(wire.Time, wire.Station, values), unknown, nil
}
