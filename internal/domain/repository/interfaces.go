package repository

import (
	"context"

	"NavPull/internal/domain/models"
)

// PriceProvider fetches a best-effort batch of price changes. Symbols the
// provider cannot resolve are simply omitted from the result.
type PriceProvider interface {
	Fetch(ctx context.Context, symbols []string) (map[string]models.PriceInfo, error)
}

// MarketStream is a live tick feed (WebSocket).
type MarketStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context, symbols []string) error
	Read(ctx context.Context) (<-chan *models.Trade, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// HoldingsStore supplies the fund universe. An empty set is a valid return;
// callers decide whether that is an error condition.
type HoldingsStore interface {
	Load(ctx context.Context) (*models.FundSet, error)
}

// SnapshotStore persists the last good result set across restarts.
// Writes must be atomic: a reader never observes a partial snapshot.
type SnapshotStore interface {
	Write(ctx context.Context, s *models.Snapshot) error
	Read(ctx context.Context) (*models.Snapshot, error)
}

// ReferenceStore persists the daily baseline prices.
type ReferenceStore interface {
	Write(ctx context.Context, r *models.Reference) error
	Read(ctx context.Context) (*models.Reference, error)
}

// Notifier delivers a text message to the configured channel. Best-effort:
// the bool reports delivery, failures are never retried.
type Notifier interface {
	Send(ctx context.Context, text string) bool
}

// AlertPublisher emits escalation events for downstream consumers.
type AlertPublisher interface {
	Publish(ctx context.Context, ev *models.AlertEvent) error
	Close() error
}

// Metrics records operational measurements.
type Metrics interface {
	RecordPass(trigger string, seconds float64)
	RecordFetch(symbols int, seconds float64)
	RecordAlert(fund string, level int)
	RecordImpliedMove(fund string, move float64)
	RecordError(kind string)
}
