package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"NavPull/internal/domain/models"
	drepo "NavPull/internal/domain/repository"
	"NavPull/pkg/cache"
	applogger "NavPull/pkg/logger"
	"NavPull/pkg/util"
)

// ErrNoHoldings is returned when the holdings store yields an empty fund
// set. Prior cache and alert state are left untouched.
var ErrNoHoldings = errors.New("holdings unavailable")

const snapshotCacheKey = "dashboard:data"

// Tracker orchestrates aggregation passes: fetch prices, compute fund
// results, evaluate alerts, and maintain the snapshot cache plus the
// durable snapshot. Passes are serialized; the cached snapshot stays
// servable while a pass is in flight.
type Tracker struct {
	holdings  drepo.HoldingsStore
	provider  drepo.PriceProvider
	snapshots drepo.SnapshotStore
	refs      drepo.ReferenceStore
	notifier  drepo.Notifier
	evaluator *AlertEvaluator
	registry  *AlertRegistry
	book      *models.PriceBook
	cache     cache.Service
	metrics   drepo.Metrics
	logger    *applogger.Logger

	freshness time.Duration
	now       func() time.Time

	mu          sync.Mutex // serializes passes and guards ref/lastUpdated
	ref         *models.Reference
	lastUpdated time.Time
	lastGood    *models.Snapshot
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithFreshness overrides the cache freshness window.
func WithFreshness(d time.Duration) TrackerOption {
	return func(t *Tracker) {
		if d > 0 {
			t.freshness = d
		}
	}
}

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) { t.now = now }
}

// NewTracker creates a Tracker.
func NewTracker(
	holdings drepo.HoldingsStore,
	provider drepo.PriceProvider,
	snapshots drepo.SnapshotStore,
	refs drepo.ReferenceStore,
	notifier drepo.Notifier,
	evaluator *AlertEvaluator,
	registry *AlertRegistry,
	book *models.PriceBook,
	c cache.Service,
	metrics drepo.Metrics,
	logger *applogger.Logger,
	opts ...TrackerOption,
) *Tracker {
	t := &Tracker{
		holdings:  holdings,
		provider:  provider,
		snapshots: snapshots,
		refs:      refs,
		notifier:  notifier,
		evaluator: evaluator,
		registry:  registry,
		book:      book,
		cache:     c,
		metrics:   metrics,
		logger:    logger,
		freshness: 60 * time.Second,
		now:       time.Now,
		ref:       &models.Reference{Prices: make(map[string]float64)},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Restore seeds state from the durable snapshot and reference baseline on
// cold start, so the dashboard is never empty while the first fetch is
// pending. Restored entries carry only the change percent, no price.
func (t *Tracker) Restore(ctx context.Context) {
	if ref, err := t.refs.Read(ctx); err == nil && ref != nil {
		t.mu.Lock()
		t.ref = ref
		t.mu.Unlock()
	}

	snap, err := t.snapshots.Read(ctx)
	if err != nil || snap == nil {
		t.logger.Info("no prior snapshot, cold start")
		return
	}

	restored := 0
	for _, cef := range snap.CEFs {
		for _, h := range cef.Holdings {
			if h.Change == nil {
				continue
			}
			t.book.Set(h.Symbol, models.PriceInfo{
				ChangePercent: h.Change,
				Source:        h.Source,
			})
			restored++
		}
	}
	t.logger.Info("restored symbols from previous state", applogger.Int("count", restored))
}

// GetData returns the cached snapshot while it is fresh, otherwise runs a
// full aggregation pass. Serving from cache never touches the provider or
// the alert state.
func (t *Tracker) GetData(ctx context.Context) (*models.Snapshot, error) {
	if snap := t.cached(ctx); snap != nil {
		return snap, nil
	}
	return t.runPass(ctx, "request")
}

// ForceCheck always runs a pass, regardless of cache freshness. Used by the
// periodic trigger so alerts are evaluated even when nobody polls.
func (t *Tracker) ForceCheck(ctx context.Context) (*models.Snapshot, error) {
	return t.runPass(ctx, "cron")
}

// Baseline returns the daily reference price for a symbol, if known.
func (t *Tracker) Baseline(symbol string) (float64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.ref.Prices[symbol]
	return p, ok
}

func (t *Tracker) cached(ctx context.Context) *models.Snapshot {
	t.mu.Lock()
	fresh := t.lastGood != nil && t.now().Sub(t.lastUpdated) < t.freshness
	snap := t.lastGood
	t.mu.Unlock()
	if !fresh {
		return nil
	}

	// Backing cache keeps warm instances consistent when Redis is layered
	// in; the in-process copy is authoritative for freshness.
	var v interface{}
	if err := t.cache.Get(ctx, snapshotCacheKey, &v); err == nil {
		if cachedSnap, ok := v.(*models.Snapshot); ok {
			return cachedSnap
		}
	}
	return snap
}

func (t *Tracker) runPass(ctx context.Context, trigger string) (*models.Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	start := t.now()
	t.rolloverLocked(ctx, start)

	funds, err := t.holdings.Load(ctx)
	if err != nil || funds.Len() == 0 {
		t.metrics.RecordError("holdings")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoHoldings, err)
		}
		return nil, ErrNoHoldings
	}
	t.registry.Seed(funds.Names)

	t.fetchLocked(ctx, funds)

	results := ComputeAll(funds, t.book)
	t.evaluator.EvaluateAll(ctx, results)

	snap := &models.Snapshot{
		LastUpdated: util.ClockString(start),
		CEFs:        results,
	}

	if err := t.cache.Set(ctx, snapshotCacheKey, snap, t.freshness); err != nil {
		t.logger.Warn("snapshot cache set failed", applogger.Error(err))
	}
	t.lastGood = snap
	t.lastUpdated = start

	if err := t.snapshots.Write(ctx, snap); err != nil {
		// Not fatal for the pass, but alert state may not survive a restart.
		t.logger.Error("durable snapshot write failed", applogger.Error(err))
		t.metrics.RecordError("persist")
	}

	t.metrics.RecordPass(trigger, t.now().Sub(start).Seconds())
	return snap, nil
}

// rolloverLocked resets alert levels, price book, and reference baseline
// when the calendar date has changed since the last pass.
func (t *Tracker) rolloverLocked(ctx context.Context, now time.Time) {
	today := util.DayString(now)
	if t.ref.Date == today {
		return
	}

	t.logger.Info("new day detected, resetting baselines", applogger.String("date", today))
	t.registry.ResetAll()
	t.book.Reset()
	t.ref = &models.Reference{Date: today, Prices: make(map[string]float64)}
	if err := t.refs.Write(ctx, t.ref); err != nil {
		t.logger.Warn("reference write failed", applogger.Error(err))
		t.metrics.RecordError("persist")
	}
}

// fetchLocked pulls fresh quotes and merges them into the price book. An
// empty or failed fetch keeps old values; partial data is not an error.
func (t *Tracker) fetchLocked(ctx context.Context, funds *models.FundSet) {
	symbols := CollectSymbols(funds)
	if len(symbols) == 0 {
		return
	}

	start := t.now()
	updates, err := t.provider.Fetch(ctx, symbols)
	if err != nil {
		t.logger.Warn("price fetch failed, keeping old values", applogger.Error(err))
		t.metrics.RecordError("fetch")
		return
	}
	t.metrics.RecordFetch(len(updates), t.now().Sub(start).Seconds())
	if len(updates) == 0 {
		t.logger.Warn("price fetch returned no data, keeping old values")
		return
	}

	t.book.Merge(updates)
	t.seedBaselinesLocked(ctx, updates)
}

// seedBaselinesLocked derives previous-close baselines for symbols the
// reference does not know yet. The stream updater measures ticks against
// these.
func (t *Tracker) seedBaselinesLocked(ctx context.Context, updates map[string]models.PriceInfo) {
	changed := false
	for sym, p := range updates {
		if _, ok := t.ref.Prices[sym]; ok {
			continue
		}
		if p.Price == nil || p.ChangePercent == nil {
			continue
		}
		base := *p.Price / (1 + *p.ChangePercent/100)
		if base <= 0 {
			continue
		}
		t.ref.Prices[sym] = base
		changed = true
	}
	if !changed {
		return
	}
	if err := t.refs.Write(ctx, t.ref); err != nil {
		t.logger.Warn("reference write failed", applogger.Error(err))
		t.metrics.RecordError("persist")
	}
}

// Digest formats the current snapshot into a multi-line summary and sends
// it through the notifier. Returns delivery success and a status message.
func (t *Tracker) Digest(ctx context.Context) (bool, string) {
	snap := t.cached(ctx)
	if snap == nil {
		var err error
		snap, err = t.runPass(ctx, "manual")
		if err != nil {
			return false, "No data available"
		}
	}

	lines := []string{"\U0001F4CA *Manual NAV Update*", "_" + snap.LastUpdated + "_", ""}
	for _, cef := range snap.CEFs {
		icon := "➖"
		switch {
		case cef.ImpliedMove > 0:
			icon = "\U0001F7E2"
		case cef.ImpliedMove < 0:
			icon = "\U0001F534"
		}
		lines = append(lines, fmt.Sprintf("%s *%s*: %+.3f%%", icon, cef.Name, cef.ImpliedMove))
	}

	if !t.notifier.Send(ctx, strings.Join(lines, "\n")) {
		return false, "Failed to send"
	}
	return true, "Notification sent!"
}
