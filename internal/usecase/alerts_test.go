package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"NavPull/internal/domain/models"
	applogger "NavPull/pkg/logger"
)

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

type nopMetrics struct{}

func (nopMetrics) RecordPass(string, float64)        {}
func (nopMetrics) RecordFetch(int, float64)          {}
func (nopMetrics) RecordAlert(string, int)           {}
func (nopMetrics) RecordImpliedMove(string, float64) {}
func (nopMetrics) RecordError(string)                {}

type fakeNotifier struct {
	mu   sync.Mutex
	msgs []string
	fail bool
}

func (n *fakeNotifier) Send(_ context.Context, text string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, text)
	return !n.fail
}

func (n *fakeNotifier) sent() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.msgs...)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []*models.AlertEvent
}

func (p *fakePublisher) Publish(_ context.Context, ev *models.AlertEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func result(name string, rawMove, tracked float64) models.FundResult {
	return models.FundResult{
		Name:          name,
		RawMove:       rawMove,
		ImpliedMove:   rawMove,
		TrackedWeight: tracked,
	}
}

func TestAlertRatchet(t *testing.T) {
	registry := NewAlertRegistry()
	notifier := &fakeNotifier{}
	ev := NewAlertEvaluator(registry, notifier, nil, nopMetrics{}, testLogger(t), time.Second)
	ctx := context.Background()

	for _, move := range []float64{0.3, 0.6, 1.2, 0.4} {
		ev.EvaluateAll(ctx, []models.FundResult{result("Fund", move, 90)})
	}

	msgs := notifier.sent()
	if len(msgs) != 2 {
		t.Fatalf("notifications = %d, want 2: %v", len(msgs), msgs)
	}
	if !strings.Contains(msgs[0], "⚠️") {
		t.Fatalf("first alert should be warning: %q", msgs[0])
	}
	if !strings.Contains(msgs[1], "\U0001F6A8\U0001F6A8") {
		t.Fatalf("second alert should be critical: %q", msgs[1])
	}
	if registry.Level("Fund") != models.AlertCritical {
		t.Fatalf("level = %d, want critical", registry.Level("Fund"))
	}
}

func TestAlertStraightToCritical(t *testing.T) {
	registry := NewAlertRegistry()
	notifier := &fakeNotifier{}
	ev := NewAlertEvaluator(registry, notifier, nil, nopMetrics{}, testLogger(t), time.Second)

	ev.EvaluateAll(context.Background(), []models.FundResult{result("Fund", -1.5, 75)})

	msgs := notifier.sent()
	if len(msgs) != 1 {
		t.Fatalf("notifications = %d, want 1", len(msgs))
	}
	if registry.Level("Fund") != models.AlertCritical {
		t.Fatalf("a big move should skip the warning level")
	}
}

func TestAlertFailedDeliveryStillAdvances(t *testing.T) {
	registry := NewAlertRegistry()
	notifier := &fakeNotifier{fail: true}
	ev := NewAlertEvaluator(registry, notifier, nil, nopMetrics{}, testLogger(t), time.Second)
	ctx := context.Background()

	ev.EvaluateAll(ctx, []models.FundResult{result("Fund", 0.7, 90)})
	ev.EvaluateAll(ctx, []models.FundResult{result("Fund", 0.7, 90)})

	if got := len(notifier.sent()); got != 1 {
		t.Fatalf("send attempts = %d, want 1 (no retry after failed delivery)", got)
	}
	if registry.Level("Fund") != models.AlertWarning {
		t.Fatalf("level should advance even when delivery fails")
	}
}

func TestAlertResetRearms(t *testing.T) {
	registry := NewAlertRegistry()
	notifier := &fakeNotifier{}
	ev := NewAlertEvaluator(registry, notifier, nil, nopMetrics{}, testLogger(t), time.Second)
	ctx := context.Background()

	ev.EvaluateAll(ctx, []models.FundResult{result("Fund", 1.2, 90)})
	registry.ResetAll()
	ev.EvaluateAll(ctx, []models.FundResult{result("Fund", 0.6, 90)})

	if got := len(notifier.sent()); got != 2 {
		t.Fatalf("notifications = %d, want 2 after reset", got)
	}
	if registry.Level("Fund") != models.AlertWarning {
		t.Fatalf("level = %d, want warning after reset", registry.Level("Fund"))
	}
}

func TestAlertMessageFormat(t *testing.T) {
	registry := NewAlertRegistry()
	notifier := &fakeNotifier{}
	ev := NewAlertEvaluator(registry, notifier, nil, nopMetrics{}, testLogger(t), time.Second)

	ev.EvaluateAll(context.Background(), []models.FundResult{result("PDI", -0.75, 82.5)})

	msgs := notifier.sent()
	if len(msgs) != 1 {
		t.Fatalf("notifications = %d, want 1", len(msgs))
	}
	want := "⚠️ PDI NAV Alert\nImplied NAV: DOWN -0.75%\nDriven by 82.5% reported holdings."
	if msgs[0] != want {
		t.Fatalf("message = %q, want %q", msgs[0], want)
	}
}

func TestAlertPublishesEvent(t *testing.T) {
	registry := NewAlertRegistry()
	notifier := &fakeNotifier{}
	pub := &fakePublisher{}
	ev := NewAlertEvaluator(registry, notifier, pub, nopMetrics{}, testLogger(t), time.Second)

	ev.EvaluateAll(context.Background(), []models.FundResult{result("Fund", 1.2, 90)})

	pub.mu.Lock()
	defer pub.mu.Unlock()
	if len(pub.events) != 1 {
		t.Fatalf("events = %d, want 1", len(pub.events))
	}
	got := pub.events[0]
	if got.Fund != "Fund" || got.Level != 2 || got.Direction != models.StatusUp {
		t.Fatalf("unexpected event %+v", got)
	}
}

func TestRegistrySeedDoesNotRegress(t *testing.T) {
	registry := NewAlertRegistry()
	registry.Seed([]string{"A"})
	if !registry.Advance("A", models.AlertWarning) {
		t.Fatalf("first advance should succeed")
	}
	registry.Seed([]string{"A", "B"})
	if registry.Level("A") != models.AlertWarning {
		t.Fatalf("seed must not reset an existing level")
	}
	if registry.Level("B") != models.AlertNone {
		t.Fatalf("new fund should start at zero")
	}
}

func TestRegistryAdvanceOneWay(t *testing.T) {
	registry := NewAlertRegistry()
	if !registry.Advance("A", models.AlertCritical) {
		t.Fatalf("advance to critical should succeed")
	}
	if registry.Advance("A", models.AlertWarning) {
		t.Fatalf("advance must never move down")
	}
	if registry.Advance("A", models.AlertCritical) {
		t.Fatalf("advance to the same level should be a no-op")
	}
}
