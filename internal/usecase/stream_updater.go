package usecase

import (
	"context"

	"NavPull/internal/domain/models"
	drepo "NavPull/internal/domain/repository"
	applogger "NavPull/pkg/logger"
)

// BaselineSource resolves the daily reference price for a symbol.
type BaselineSource interface {
	Baseline(symbol string) (float64, bool)
}

// StreamUpdater consumes live trades and folds them into the price book as
// intraday changes against the daily baseline. Symbols without a baseline
// are skipped until the next REST fetch seeds one.
type StreamUpdater struct {
	stream    drepo.MarketStream
	book      *models.PriceBook
	baselines BaselineSource
	metrics   drepo.Metrics
	logger    *applogger.Logger
}

// NewStreamUpdater creates a StreamUpdater.
func NewStreamUpdater(
	stream drepo.MarketStream,
	book *models.PriceBook,
	baselines BaselineSource,
	metrics drepo.Metrics,
	logger *applogger.Logger,
) *StreamUpdater {
	return &StreamUpdater{
		stream:    stream,
		book:      book,
		baselines: baselines,
		metrics:   metrics,
		logger:    logger,
	}
}

// Start connects, subscribes, and launches the consume loop.
func (u *StreamUpdater) Start(ctx context.Context, symbols []string) error {
	if err := u.stream.Connect(ctx); err != nil {
		return err
	}
	if err := u.stream.Subscribe(ctx, symbols); err != nil {
		return err
	}
	trades, errs := u.stream.Read(ctx)
	go u.consume(ctx, trades, errs)
	return nil
}

func (u *StreamUpdater) consume(ctx context.Context, trades <-chan *models.Trade, errs <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errs:
			// The stream closes both channels after a read error, so a
			// closed error channel means the feed is dead too.
			if ok && err == nil {
				continue
			}
			if err != nil {
				u.metrics.RecordError("stream")
				u.logger.Warn("stream error, reconnecting", applogger.Error(err))
			}
			if rerr := u.stream.Reconnect(ctx); rerr != nil {
				u.logger.Error("stream reconnect failed", applogger.Error(rerr))
				return
			}
			trades, errs = u.stream.Read(ctx)
		case t, ok := <-trades:
			if !ok {
				// Drained after close; park until the error branch swaps in
				// fresh channels.
				trades = nil
				continue
			}
			if t == nil {
				continue
			}
			u.apply(t)
		}
	}
}

func (u *StreamUpdater) apply(t *models.Trade) {
	base, ok := u.baselines.Baseline(t.Symbol)
	if !ok || base <= 0 {
		return
	}
	chg := (t.Price - base) / base * 100
	u.book.Set(t.Symbol, models.PriceInfo{
		ChangePercent: models.Float(chg),
		Price:         models.Float(t.Price),
		Source:        "STREAM",
	})
}

// Stop closes the underlying stream.
func (u *StreamUpdater) Stop() error {
	return u.stream.Close()
}
