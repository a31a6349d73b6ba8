package db

import (
	"github.com/jackc/pgx/v5"

	"github.com/Efenterprise/serene-care-flow-sub003/internal/model"
)

// ChannelSource implements pgx.CopyFromSource by reading ClassificationRows
// from a channel, so classification and COPY overlap with backpressure.
type ChannelSource struct {
	ch      <-chan *model.ClassificationRow
	current *model.ClassificationRow
	count   int64
}

// NewChannelSource creates a CopyFromSource backed by a channel.
func NewChannelSource(ch <-chan *model.ClassificationRow) *ChannelSource {
	return &ChannelSource{ch: ch}
}

// Next advances to the next row. Returns false when the channel is closed.
func (s *ChannelSource) Next() bool {
	row, ok := <-s.ch
	if !ok {
		return false
	}
	s.current = row
	s.count++
	return true
}

// Values returns the current row's values in COPY column order.
func (s *ChannelSource) Values() ([]any, error) {
	return s.current.CopyValues(), nil
}

// Err always returns nil; producers report their own errors out of band.
func (s *ChannelSource) Err() error {
	return nil
}

// Count returns how many rows have been handed to COPY so far.
func (s *ChannelSource) Count() int64 { return s.count }

var _ pgx.CopyFromSource = (*ChannelSource)(nil)
