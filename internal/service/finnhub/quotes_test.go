package finnhub

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"NavPull/internal/service/ratelimit"
)

func quoteServer(t *testing.T, quotes map[string]map[string]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sym := r.URL.Query().Get("symbol")
		q, ok := quotes[sym]
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(q)
	}))
}

func TestQuoteClientFetch(t *testing.T) {
	srv := quoteServer(t, map[string]map[string]interface{}{
		"AAA": {"c": 102.0, "dp": 2.0, "pc": 100.0},
		"BBB": {"c": 50.0, "pc": 40.0}, // no dp, derived from pc
		"ZZZ": {"c": 0.0, "dp": 0.0, "pc": 0.0},
	})
	defer srv.Close()

	client := NewQuoteClient(QuoteConfig{APIKey: "k", BaseURL: srv.URL}, ratelimit.New())
	got, err := client.Fetch(context.Background(), []string{"AAA", "BBB", "ZZZ"})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("results = %d, want 2 (zeroed quote skipped)", len(got))
	}
	if *got["AAA"].ChangePercent != 2.0 {
		t.Fatalf("AAA change = %v, want 2.0", *got["AAA"].ChangePercent)
	}
	if got["AAA"].Source != "FINNHUB" {
		t.Fatalf("source = %q, want FINNHUB", got["AAA"].Source)
	}
	if math.Abs(*got["BBB"].ChangePercent-25.0) > 1e-9 {
		t.Fatalf("BBB derived change = %v, want 25.0", *got["BBB"].ChangePercent)
	}
}

func TestQuoteClientPartialFailure(t *testing.T) {
	srv := quoteServer(t, map[string]map[string]interface{}{
		"AAA": {"c": 102.0, "dp": 2.0, "pc": 100.0},
	})
	defer srv.Close()

	client := NewQuoteClient(QuoteConfig{APIKey: "k", BaseURL: srv.URL}, ratelimit.New())
	got, err := client.Fetch(context.Background(), []string{"AAA", "DOWN"})
	if err != nil {
		t.Fatalf("partial failure should not error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("results = %d, want 1", len(got))
	}
}

func TestQuoteClientAllFailed(t *testing.T) {
	srv := quoteServer(t, nil)
	defer srv.Close()

	client := NewQuoteClient(QuoteConfig{APIKey: "k", BaseURL: srv.URL}, ratelimit.New())
	if _, err := client.Fetch(context.Background(), []string{"AAA", "BBB"}); err == nil {
		t.Fatalf("all-failed fetch should error")
	}
}
