package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"NavPull/internal/domain/models"
)

// fakeStream mimics the finnhub stream contract: a read error closes both
// channels, and Read must be called again after Reconnect to get fresh ones.
type fakeStream struct {
	mu         sync.Mutex
	trades     chan *models.Trade
	errs       chan error
	connects   int
	reads      int
	subscribed []string
	closed     bool
}

func newFakeStream() *fakeStream {
	s := &fakeStream{}
	s.reset()
	return s
}

func (s *fakeStream) reset() {
	s.trades = make(chan *models.Trade, 16)
	s.errs = make(chan error, 1)
}

func (s *fakeStream) Connect(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connects++
	return nil
}

func (s *fakeStream) Subscribe(_ context.Context, symbols []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribed = symbols
	return nil
}

func (s *fakeStream) Read(_ context.Context) (<-chan *models.Trade, <-chan error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	return s.trades, s.errs
}

func (s *fakeStream) Reconnect(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connects++
	s.reset()
	return nil
}

func (s *fakeStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeStream) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

func (s *fakeStream) send(t *models.Trade) {
	s.mu.Lock()
	ch := s.trades
	s.mu.Unlock()
	ch <- t
}

// failRead emits err and closes both channels, like the real read
// goroutine does when the socket dies.
func (s *fakeStream) failRead(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs <- err
	close(s.errs)
	close(s.trades)
}

func (s *fakeStream) readCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

type staticBaselines map[string]float64

func (b staticBaselines) Baseline(symbol string) (float64, bool) {
	v, ok := b[symbol]
	return v, ok
}

func waitForChange(t *testing.T, book *models.PriceBook, symbol string) models.PriceInfo {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		if p, ok := book.Lookup(symbol); ok {
			return p
		}
		select {
		case <-deadline:
			t.Fatalf("no price recorded for %s", symbol)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestStreamUpdaterAppliesTicks(t *testing.T) {
	stream := newFakeStream()
	pb := models.NewPriceBook()
	updater := NewStreamUpdater(stream, pb, staticBaselines{"AAA": 100}, nopMetrics{}, testLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := updater.Start(ctx, []string{"AAA"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if stream.connects != 1 || len(stream.subscribed) != 1 {
		t.Fatalf("stream not connected/subscribed")
	}

	stream.send(&models.Trade{Symbol: "AAA", Price: 101})

	p := waitForChange(t, pb, "AAA")
	if p.ChangePercent == nil || *p.ChangePercent != 1.0 {
		t.Fatalf("change = %v, want 1.0", p.ChangePercent)
	}
	if p.Source != "STREAM" {
		t.Fatalf("source = %q, want STREAM", p.Source)
	}
}

func TestStreamUpdaterSkipsUnknownBaseline(t *testing.T) {
	stream := newFakeStream()
	pb := models.NewPriceBook()
	updater := NewStreamUpdater(stream, pb, staticBaselines{}, nopMetrics{}, testLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := updater.Start(ctx, []string{"AAA"}); err != nil {
		t.Fatalf("start: %v", err)
	}

	stream.send(&models.Trade{Symbol: "AAA", Price: 101})
	time.Sleep(30 * time.Millisecond)

	if _, ok := pb.Lookup("AAA"); ok {
		t.Fatalf("tick without baseline must be dropped")
	}
}

func TestStreamUpdaterResumesAfterReconnect(t *testing.T) {
	stream := newFakeStream()
	pb := models.NewPriceBook()
	updater := NewStreamUpdater(stream, pb, staticBaselines{"AAA": 100}, nopMetrics{}, testLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := updater.Start(ctx, []string{"AAA"}); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Kill the feed the way the real stream does: error, then both
	// channels close.
	stream.failRead(errors.New("socket gone"))

	deadline := time.After(time.Second)
	for stream.readCount() < 2 {
		select {
		case <-deadline:
			t.Fatalf("updater never re-read after reconnect (reads=%d)", stream.readCount())
		case <-time.After(5 * time.Millisecond):
		}
	}
	if stream.connects < 1 {
		t.Fatalf("expected a reconnect, connects=%d", stream.connects)
	}

	// Ticks on the fresh channels must still land in the price book.
	stream.send(&models.Trade{Symbol: "AAA", Price: 102})
	p := waitForChange(t, pb, "AAA")
	if p.ChangePercent == nil || *p.ChangePercent != 2.0 {
		t.Fatalf("change = %v, want 2.0", p.ChangePercent)
	}
}

func TestStreamUpdaterStopClosesStream(t *testing.T) {
	stream := newFakeStream()
	updater := NewStreamUpdater(stream, models.NewPriceBook(), staticBaselines{}, nopMetrics{}, testLogger(t))

	if err := updater.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if !stream.closed {
		t.Fatalf("stop should close the stream")
	}
}
