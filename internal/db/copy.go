package db

import (
	"github.com/jackc/pgx/v5"

	"github.com/gyeh/tempinfer/internal/model"
)

// CopyRow is a row that knows its COPY column values.
type CopyRow interface {
	CopyValues() []any
}

// ChannelSource implements pgx.CopyFromSource by reading rows from a channel.
// This provides natural backpressure between the converter and the COPY
// writer.
type ChannelSource[R CopyRow] struct {
	ch      <-chan R
	current R
	n       int64
}

// NewChannelSource creates a CopyFromSource backed by a channel.
func NewChannelSource[R CopyRow](ch <-chan R) *ChannelSource[R] {
	return &ChannelSource[R]{ch: ch}
}

// Next advances to the next row. Returns false when the channel is closed.
func (s *ChannelSource[R]) Next() bool {
	row, ok := <-s.ch
	if !ok {
		return false
	}
	s.current = row
	s.n++
	return true
}

// Values returns the current row's values in COPY column order.
func (s *ChannelSource[R]) Values() ([]any, error) {
	return s.current.CopyValues(), nil
}

// Err always returns nil; producers report their own errors.
func (s *ChannelSource[R]) Err() error {
	return nil
}

// Consumed is the number of rows handed to COPY so far.
func (s *ChannelSource[R]) Consumed() int64 {
	return s.n
}

var _ pgx.CopyFromSource = (*ChannelSource[*model.ConvertedRow])(nil)
