package publishers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPublisher struct {
	id     string
	typ    string
	err    error
	calls  atomic.Int32
	closed bool
}

func (s *stubPublisher) ID() string   { return s.id }
func (s *stubPublisher) Type() string { return s.typ }
func (s *stubPublisher) Publish(context.Context, Event) error {
	s.calls.Add(1)
	return s.err
}

type closingPublisher struct {
	stubPublisher
	closeErr error
}

func (c *closingPublisher) Close() error {
	c.closed = true
	return c.closeErr
}

// barrierPublisher blocks until every sink sharing wg has been called.
type barrierPublisher struct {
	stubPublisher
	wg *sync.WaitGroup
}

func (b *barrierPublisher) Publish(ctx context.Context, evt Event) error {
	b.wg.Done()
	b.wg.Wait()
	return b.stubPublisher.Publish(ctx, evt)
}

func TestFanoutPublishAggregatesErrors(t *testing.T) {
	ok := &stubPublisher{id: "ok", typ: TypeHTTP}
	bad := &stubPublisher{id: "bad", typ: TypeHTTP, err: errors.New("failed")}

	count, err := NewFanout([]Publisher{ok, bad}).Publish(context.Background(), Event{})
	assert.Equal(t, 1, count)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http publisher[bad]: failed")
	assert.Equal(t, int32(1), ok.calls.Load())
	assert.Equal(t, int32(1), bad.calls.Load())
}

func TestFanoutPublishesConcurrently(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(2)
	a := &barrierPublisher{stubPublisher: stubPublisher{id: "a", typ: TypeKafka}, wg: &wg}
	b := &barrierPublisher{stubPublisher: stubPublisher{id: "b", typ: TypeSQS}, wg: &wg}

	done := make(chan int, 1)
	go func() {
		n, _ := NewFanout([]Publisher{a, b}).Publish(context.Background(), Event{})
		done <- n
	}()

	select {
	case n := <-done:
		assert.Equal(t, 2, n)
	case <-time.After(time.Second):
		t.Fatal("sinks were published one after another")
	}
}

func TestFanoutSkipsNilPublishers(t *testing.T) {
	fanout := NewFanout([]Publisher{nil, &stubPublisher{id: "ok", typ: TypeHTTP}})
	assert.Equal(t, 1, fanout.Size())
}

func TestFanoutCloseClosesClosers(t *testing.T) {
	plain := &stubPublisher{id: "plain", typ: TypeHTTP}
	closer := &closingPublisher{stubPublisher: stubPublisher{id: "kafka", typ: TypeKafka}}
	broken := &closingPublisher{stubPublisher: stubPublisher{id: "pubsub", typ: TypeGCPPubSub}, closeErr: errors.New("stuck")}

	err := NewFanout([]Publisher{plain, closer, broken}).Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "close gcp_pubsub publisher[pubsub]: stuck")
	assert.True(t, closer.closed)
	assert.True(t, broken.closed)
}

func TestNilFanoutIsSafe(t *testing.T) {
	var f *Fanout
	n, err := f.Publish(context.Background(), Event{})
	assert.Zero(t, n)
	assert.NoError(t, err)
	assert.NoError(t, f.Close())
}

func TestBuildAllWithDefaultRegistry(t *testing.T) {
	pubs, err := BuildAll(context.Background(), DefaultRegistry(), []PublisherConfig{
		{ID: "http", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://example.com"}},
		{ID: "stream", Type: TypeKafka, Kafka: &KafkaPublisherConfig{Brokers: []string{"localhost:9092"}, Topic: "orders"}},
	}, nil)
	require.NoError(t, err)
	require.Len(t, pubs, 2)
	assert.NoError(t, NewFanout(pubs).Close())
}

func TestBuildAllUsesRegisteredBuilder(t *testing.T) {
	reg := DefaultRegistry()
	fake := &stubPublisher{id: "fake", typ: "pigeon"}
	reg["pigeon"] = func(context.Context, PublisherConfig, Logger) (Publisher, error) { return fake, nil }

	pubs, err := BuildAll(context.Background(), reg, []PublisherConfig{{ID: "fake", Type: "Pigeon"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, []Publisher{fake}, pubs)
}

func TestBuildAllClosesBuiltOnFailure(t *testing.T) {
	built := &closingPublisher{stubPublisher: stubPublisher{id: "first", typ: "fake"}}
	reg := Registry{"fake": func(context.Context, PublisherConfig, Logger) (Publisher, error) { return built, nil }}

	_, err := BuildAll(context.Background(), reg, []PublisherConfig{
		{ID: "first", Type: "fake"},
		{ID: "x", Type: "carrier-pigeon"},
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `build publisher "x"`)
	assert.True(t, built.closed)
}
