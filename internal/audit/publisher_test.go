package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"kanadia/internal/platform/logger"
)

type PublisherSuite struct {
	suite.Suite
	store *InMemoryStore
}

func TestPublisherSuite(t *testing.T) {
	suite.Run(t, new(PublisherSuite))
}

func (s *PublisherSuite) SetupTest() {
	s.store = NewInMemoryStore()
}

func (s *PublisherSuite) TestSyncEmit() {
	p := NewPublisher(s.store)
	defer p.Close()

	s.Run("appends events grouped by batch in order", func() {
		ctx := context.Background()
		s.Require().NoError(p.Emit(ctx, Event{BatchID: "b1", RecordIndex: 0, Verdict: "Accept"}))
		s.Require().NoError(p.Emit(ctx, Event{BatchID: "b1", RecordIndex: 1, Verdict: "Reject"}))
		s.Require().NoError(p.Emit(ctx, Event{BatchID: "b2", RecordIndex: 0, Verdict: "Secondary"}))

		events, err := p.List(ctx, "b1")
		s.Require().NoError(err)
		s.Require().Len(events, 2)
		s.Equal(0, events[0].RecordIndex)
		s.Equal("Reject", events[1].Verdict)
	})

	s.Run("stamps missing timestamps", func() {
		s.Require().NoError(p.Emit(context.Background(), Event{BatchID: "b3"}))
		events, _ := p.List(context.Background(), "b3")
		s.Require().Len(events, 1)
		s.False(events[0].Timestamp.IsZero())
	})

	s.Run("keeps provided timestamps", func() {
		ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		s.Require().NoError(p.Emit(context.Background(), Event{BatchID: "b4", Timestamp: ts}))
		events, _ := p.List(context.Background(), "b4")
		s.Equal(ts, events[0].Timestamp)
	})
}

func (s *PublisherSuite) TestSyncEmitPropagatesStoreErrors() {
	p := NewPublisher(failingStore{})
	err := p.Emit(context.Background(), Event{BatchID: "b1"})
	s.Error(err)
}

func (s *PublisherSuite) TestAsyncDrainsOnClose() {
	p := NewPublisher(s.store,
		WithAsyncBuffer(16),
		WithPublisherLogger(logger.Discard()),
	)
	for i := 0; i < 10; i++ {
		s.Require().NoError(p.Emit(context.Background(), Event{BatchID: "async", RecordIndex: i}))
	}
	p.Close()

	events, err := s.store.ListByBatch(context.Background(), "async")
	s.Require().NoError(err)
	s.Len(events, 10)
}

func (s *PublisherSuite) TestEmitAfterCloseIsNoop() {
	p := NewPublisher(s.store, WithAsyncBuffer(4))
	p.Close()
	p.Close()

	s.NoError(p.Emit(context.Background(), Event{BatchID: "late"}))
	events, _ := s.store.ListByBatch(context.Background(), "late")
	s.Empty(events)
}

func (s *PublisherSuite) TestNilStorePanics() {
	s.Panics(func() { NewPublisher(nil) })
}

type failingStore struct{}

func (failingStore) Append(context.Context, Event) error {
	return errors.New("sink unavailable")
}

func (failingStore) ListByBatch(context.Context, string) ([]Event, error) {
	return nil, nil
}
