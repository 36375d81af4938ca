package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"NavPull/internal/domain/models"
	drepo "NavPull/internal/domain/repository"
	applogger "NavPull/pkg/logger"
)

// AlertRegistry holds per-fund escalation levels for the current day.
// Levels only move up; the registry is reset as a whole on day rollover.
type AlertRegistry struct {
	mu     sync.Mutex
	levels map[string]models.AlertLevel
}

// NewAlertRegistry creates an empty registry.
func NewAlertRegistry() *AlertRegistry {
	return &AlertRegistry{levels: make(map[string]models.AlertLevel)}
}

// Seed fills zero-level entries for funds the registry has not seen yet.
func (r *AlertRegistry) Seed(names []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range names {
		if _, ok := r.levels[name]; !ok {
			r.levels[name] = models.AlertNone
		}
	}
}

// Level returns the current level for a fund.
func (r *AlertRegistry) Level(name string) models.AlertLevel {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.levels[name]
}

// Advance raises the fund's level to target if and only if target is
// strictly higher than the freshly-read current level. The compare and the
// set happen under one lock so concurrent passes cannot regress a level.
func (r *AlertRegistry) Advance(name string, target models.AlertLevel) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if target <= r.levels[name] {
		return false
	}
	r.levels[name] = target
	return true
}

// ResetAll drops every fund back to level zero. Called on day rollover.
func (r *AlertRegistry) ResetAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name := range r.levels {
		r.levels[name] = models.AlertNone
	}
}

// AlertEvaluator turns fund results into escalation decisions and
// best-effort notifications.
type AlertEvaluator struct {
	registry  *AlertRegistry
	notifier  drepo.Notifier
	publisher drepo.AlertPublisher
	metrics   drepo.Metrics
	logger    *applogger.Logger
	timeout   time.Duration
}

// NewAlertEvaluator creates an evaluator. publisher may be nil when no
// broker is configured.
func NewAlertEvaluator(
	registry *AlertRegistry,
	notifier drepo.Notifier,
	publisher drepo.AlertPublisher,
	metrics drepo.Metrics,
	logger *applogger.Logger,
	timeout time.Duration,
) *AlertEvaluator {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &AlertEvaluator{
		registry:  registry,
		notifier:  notifier,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		timeout:   timeout,
	}
}

// EvaluateAll runs the escalation check for every fund result in order.
func (e *AlertEvaluator) EvaluateAll(ctx context.Context, results []models.FundResult) {
	for i := range results {
		e.evaluate(ctx, &results[i])
	}
}

func (e *AlertEvaluator) evaluate(ctx context.Context, res *models.FundResult) {
	e.metrics.RecordImpliedMove(res.Name, res.RawMove)

	level := models.LevelFor(res.RawMove)
	if !e.registry.Advance(res.Name, level) {
		return
	}

	// The level is already advanced: delivery failure must not re-arm it.
	direction := models.StatusUp
	if res.RawMove <= 0 {
		direction = models.StatusDown
	}

	msg := fmt.Sprintf(
		"%s %s NAV Alert\nImplied NAV: %s %+.2f%%\nDriven by %.1f%% reported holdings.",
		levelEmoji(level), res.Name, direction, res.RawMove, res.TrackedWeight,
	)

	e.logger.Info("alert escalation",
		applogger.String("fund", res.Name),
		applogger.Int("level", int(level)),
	)

	sendCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	if !e.notifier.Send(sendCtx, msg) {
		e.logger.Warn("alert delivery failed", applogger.String("fund", res.Name))
		e.metrics.RecordError("notify")
	}
	e.metrics.RecordAlert(res.Name, int(level))

	if e.publisher != nil {
		ev := &models.AlertEvent{
			Fund:          res.Name,
			Level:         int(level),
			Direction:     direction,
			ImpliedMove:   res.RawMove,
			TrackedWeight: res.TrackedWeight,
			Timestamp:     time.Now().Unix(),
		}
		if err := e.publisher.Publish(ctx, ev); err != nil {
			e.logger.Warn("alert publish failed", applogger.Error(err))
			e.metrics.RecordError("publish")
		}
	}
}

func levelEmoji(level models.AlertLevel) string {
	if level >= models.AlertCritical {
		return "\U0001F6A8\U0001F6A8"
	}
	return "⚠️"
}
