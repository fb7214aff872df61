package source

import (
	"context"

	"github.com/chromaworks/aircanvas/dataset"
	"github.com/chromaworks/aircanvas/model"
)

// DatasetSource replays a loaded dataset in index order. With looping enabled
// it wraps back to the first observation after the last, which keeps a finite
// recording animating indefinitely.
type DatasetSource struct {
	ds   *dataset.Dataset
	loop bool
	next int
}

// NewDataset returns a source over ds. Set loop to false to end the sequence
// after one pass.
func NewDataset(ds *dataset.Dataset, loop bool) *DatasetSource {
	return &DatasetSource{ds: ds, loop: loop}
}

// Next returns the next observation in the replay.
func (s *DatasetSource) Next(ctx context.Context) (model.Observation, error) {
	if err := ctx.Err(); err != nil {
		return model.Observation{}, err
	}
	if s.ds.Len() == 0 {
		return model.Observation{}, ErrEndOfSequence
	}
	if s.next >= s.ds.Len() {
		if !s.loop {
			return model.Observation{}, ErrEndOfSequence
		}
		s.next = 0
	}
	obs, ok := s.ds.At(s.next)
	if !ok {
		return model.Observation{}, ErrEndOfSequence
	}
	s.next++
	return obs, nil
}

// Close is a no-op; the dataset stays usable by other sources.
func (s *DatasetSource) Close() error { return nil }
