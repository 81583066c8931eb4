package viewpulse

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/ghalamif/ViewPulse/internal/domain"
)

// ErrChannelSinkClosed is returned when a channel sink is written to after being closed.
var ErrChannelSinkClosed = errors.New("viewpulse: channel sink closed")

// Report is one finished compute pass as delivered by a channel sink.
type Report struct {
	Names []MilestoneName
	Rows  []ReportRow
}

// NewCallbackSink adapts a ReportBatchSink into a full ReportSink so callers
// can plug arbitrary functions without defining structs.
func NewCallbackSink(name string, fn ReportBatchSink) ReportSink {
	if name == "" {
		name = "callback"
	}
	return &callbackSink{name: name, fn: fn}
}

// NewChannelSink exposes reports via a channel; it returns the sink, the read-only channel,
// and a close function that the caller should invoke during shutdown.
func NewChannelSink(name string, buffer int) (ReportSink, <-chan Report, func()) {
	if name == "" {
		name = "channel"
	}
	if buffer < 0 {
		buffer = 0
	}
	ch := make(chan Report, buffer)
	s := &channelSink{
		name:   name,
		ch:     ch,
		closed: make(chan struct{}),
	}
	return s, ch, func() { s.close() }
}

type callbackSink struct {
	name string
	fn   ReportBatchSink
}

func (s *callbackSink) WriteReport(ctx context.Context, names []domain.MilestoneName, rows []domain.ReportRow) error {
	if s.fn == nil {
		return fmt.Errorf("callback sink %q: nil handler", s.name)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.fn(names, rows)
}

func (s *callbackSink) Name() string { return s.name }

type channelSink struct {
	name   string
	ch     chan Report
	closed chan struct{}
	once   sync.Once
}

func (s *channelSink) WriteReport(ctx context.Context, names []domain.MilestoneName, rows []domain.ReportRow) error {
	select {
	case <-s.closed:
		return ErrChannelSinkClosed
	default:
	}

	report := Report{Names: slices.Clone(names), Rows: slices.Clone(rows)}

	select {
	case <-s.closed:
		return ErrChannelSinkClosed
	case <-ctx.Done():
		return ctx.Err()
	case s.ch <- report:
		return nil
	}
}

func (s *channelSink) Name() string { return s.name }

func (s *channelSink) close() {
	s.once.Do(func() {
		close(s.closed)
		close(s.ch)
	})
}
