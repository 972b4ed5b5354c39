package scheduler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rintaro796/cs2-discord-alerts/internal/alert"
	"github.com/rintaro796/cs2-discord-alerts/internal/config"
	"github.com/rintaro796/cs2-discord-alerts/internal/feed"
	"github.com/rintaro796/cs2-discord-alerts/internal/notifier"
	"github.com/rintaro796/cs2-discord-alerts/internal/recorder"
	"github.com/rintaro796/cs2-discord-alerts/internal/state"
)

const csvHeader = "Item Name,Condition,Quantity,Buy Price (USD),Buy Date,Current Price (USD),Current Value (USD),Unrealized Profit (USD),ROI (%)"

// webhookSink records every payload posted to the fake Discord endpoint.
type webhookSink struct {
	mu       sync.Mutex
	payloads []map[string]any
}

func (w *webhookSink) handler(rw http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	var m map[string]any
	_ = json.Unmarshal(body, &m)
	w.mu.Lock()
	w.payloads = append(w.payloads, m)
	w.mu.Unlock()
	rw.WriteHeader(http.StatusNoContent)
}

func (w *webhookSink) last(t *testing.T) map[string]any {
	t.Helper()
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.payloads) == 0 {
		t.Fatal("no webhook payloads received")
	}
	return w.payloads[len(w.payloads)-1]
}

func (w *webhookSink) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.payloads)
}

func newTestScheduler(t *testing.T, f feed.Fetcher, sink *webhookSink) *Scheduler {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(sink.handler))
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.Webhook.URL = srv.URL
	cfg.Portfolio.CSVURL = "https://sheet.test/pub?output=csv"
	cfg.Portfolio.RequiredColumns = config.DefaultRequiredColumns
	cfg.Portfolio.StateFile = filepath.Join(t.TempDir(), "last_prices.json")
	cfg.Alert.UpThreshold = 0.10
	cfg.Alert.DownThreshold = -0.10
	cfg.Scanner.PumpThresh24 = 25
	cfg.Scanner.PumpThresh72 = 40

	return NewScheduler(cfg,
		f,
		state.NewStore(cfg.Portfolio.StateFile),
		alert.NewEvaluator(cfg.Alert.UpThreshold, cfg.Alert.DownThreshold),
		notifier.NewDiscordNotifier(cfg.Webhook.URL, ""),
		recorder.NewNoopRecorder(),
	)
}

func TestAlertsTask_BaselineThenAlertThenQuiet(t *testing.T) {
	sink := &webhookSink{}
	mock := &feed.MockFetcher{CSV: csvHeader + "\nAK-47 Redline,FT,2,10,2024-01-01,100,200,180,\n"}
	s := newTestScheduler(t, mock, sink)

	// First run: no prior snapshot, so only a baseline is written.
	if err := s.AlertsTask(); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if content, _ := sink.last(t)["content"].(string); !strings.Contains(content, "No intraday price alerts") {
		t.Errorf("expected no-alerts message on first run, got %q", content)
	}

	// Price jumps 20%: second run alerts.
	mock.CSV = csvHeader + "\nAK-47 Redline,FT,2,10,2024-01-01,120,240,220,\n"
	if err := s.AlertsTask(); err != nil {
		t.Fatalf("second run: %v", err)
	}
	content, _ := sink.last(t)["content"].(string)
	if !strings.Contains(content, "Intraday Price Alerts") || !strings.Contains(content, "AK-47 Redline | FT") {
		t.Errorf("expected alert message, got %q", content)
	}

	// Same feed again: snapshot overwrite suppresses the repeat.
	if err := s.AlertsTask(); err != nil {
		t.Fatalf("third run: %v", err)
	}
	if content, _ := sink.last(t)["content"].(string); !strings.Contains(content, "No intraday price alerts") {
		t.Errorf("expected quiet third run, got %q", content)
	}
}

func TestAlertsTask_FetchFailureLeavesStateUntouched(t *testing.T) {
	sink := &webhookSink{}
	mock := &feed.MockFetcher{CSV: csvHeader + "\nAK-47 Redline,FT,2,10,2024-01-01,100,200,180,\n"}
	s := newTestScheduler(t, mock, sink)

	if err := s.AlertsTask(); err != nil {
		t.Fatalf("seed run: %v", err)
	}
	before := s.Store.Load()

	mock.Err = errors.New("connection refused")
	if err := s.AlertsTask(); err == nil {
		t.Fatal("expected error from failed fetch")
	}
	if content, _ := sink.last(t)["content"].(string); !strings.Contains(content, "Portfolio fetch error") {
		t.Errorf("expected fetch error report, got %q", content)
	}

	after := s.Store.Load()
	if len(after) != len(before) || after["AK-47 Redline | FT"] != before["AK-47 Redline | FT"] {
		t.Errorf("state mutated on failed fetch: before=%v after=%v", before, after)
	}
}

func TestAlertsTask_SchemaFailureReported(t *testing.T) {
	sink := &webhookSink{}
	mock := &feed.MockFetcher{CSV: "Item Name,Quantity\nAK-47 Redline,2\n"}
	s := newTestScheduler(t, mock, sink)

	if err := s.AlertsTask(); err == nil {
		t.Fatal("expected error for missing headers")
	}
	content, _ := sink.last(t)["content"].(string)
	if !strings.Contains(content, "missing required header") {
		t.Errorf("expected schema error report, got %q", content)
	}
}

func TestSummaryTask_PostsEmbed(t *testing.T) {
	sink := &webhookSink{}
	mock := &feed.MockFetcher{CSV: csvHeader + "\nAK-47 Redline,FT,2,10,2024-01-01,15,30,10,\n"}
	s := newTestScheduler(t, mock, sink)

	if err := s.SummaryTask(); err != nil {
		t.Fatalf("summary task: %v", err)
	}
	payload := sink.last(t)
	embeds, ok := payload["embeds"].([]any)
	if !ok || len(embeds) != 1 {
		t.Fatalf("expected one embed, got %v", payload)
	}
	embed := embeds[0].(map[string]any)
	if title, _ := embed["title"].(string); !strings.Contains(title, "CS2 Portfolio Summary") {
		t.Errorf("unexpected embed title: %q", title)
	}
}

func TestPumpTask_NoFeedURLDegradesToInfo(t *testing.T) {
	sink := &webhookSink{}
	s := newTestScheduler(t, &feed.MockFetcher{}, sink)

	if err := s.PumpTask(); err != nil {
		t.Fatalf("pump task: %v", err)
	}
	if content, _ := sink.last(t)["content"].(string); !strings.Contains(content, "No PUMP_FEED_URL configured") {
		t.Errorf("expected informational message, got %q", content)
	}
}

func TestPumpTask_FlagsAndQuiet(t *testing.T) {
	sink := &webhookSink{}
	mock := &feed.MockFetcher{JSON: `[{"item":"AWP Asiimov","wear":"FT","pct24":30,"pct72":10},{"item":"Glock Fade","wear":"FN","pct24":5,"pct72":5}]`}
	s := newTestScheduler(t, mock, sink)
	s.Cfg.Scanner.PumpFeedURL = "https://feed.test/pump.json"

	if err := s.PumpTask(); err != nil {
		t.Fatalf("pump task: %v", err)
	}
	payload := sink.last(t)
	embeds, ok := payload["embeds"].([]any)
	if !ok || len(embeds) != 1 {
		t.Fatalf("expected pump embed, got %v", payload)
	}
	desc, _ := embeds[0].(map[string]any)["description"].(string)
	if !strings.Contains(desc, "AWP Asiimov") || strings.Contains(desc, "Glock Fade") {
		t.Errorf("unexpected flagged set: %q", desc)
	}

	mock.JSON = `[{"item":"Glock Fade","wear":"FN","pct24":5,"pct72":5}]`
	if err := s.PumpTask(); err != nil {
		t.Fatalf("quiet pump run: %v", err)
	}
	if content, _ := sink.last(t)["content"].(string); !strings.Contains(content, "No pump-like moves") {
		t.Errorf("expected quiet message, got %q", content)
	}
}

func TestStickersTask_Buckets(t *testing.T) {
	sink := &webhookSink{}
	mock := &feed.MockFetcher{JSON: `[{"name":"Katowice 2014","chg24":"+5%","chg72":"+12%","chg7d":"+20%","direction24":"UP"},{"name":"Cologne 2015","chg24":"-3%","chg72":"-8%","chg7d":"-10%","direction72":"DOWN"}]`}
	s := newTestScheduler(t, mock, sink)
	s.Cfg.Scanner.StickersFeedURL = "https://feed.test/stickers.json"

	if err := s.StickersTask(); err != nil {
		t.Fatalf("stickers task: %v", err)
	}
	embeds, _ := sink.last(t)["embeds"].([]any)
	if len(embeds) != 1 {
		t.Fatal("expected stickers embed")
	}
	fields, _ := embeds[0].(map[string]any)["fields"].([]any)
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	upBlock, _ := fields[0].(map[string]any)["value"].(string)
	downBlock, _ := fields[1].(map[string]any)["value"].(string)
	if !strings.Contains(upBlock, "Katowice 2014") {
		t.Errorf("expected Katowice in UP bucket: %q", upBlock)
	}
	if !strings.Contains(downBlock, "Cologne 2015") {
		t.Errorf("expected Cologne in DOWN bucket: %q", downBlock)
	}
	if sink.count() != 1 {
		t.Errorf("expected a single post, got %d", sink.count())
	}
}
