package alert

import (
	"math"
	"testing"

	"github.com/rintaro796/cs2-discord-alerts/internal/model"
)

func rec(identity string, price float64) model.Record {
	return model.Record{Identity: identity, CurrentPrice: price}
}

func TestEvaluate_UpCrossing(t *testing.T) {
	ev := NewEvaluator(0.10, -0.10)
	prior := map[string]float64{"AK-47 Redline | FT": 100}

	alerts, next := ev.Evaluate([]model.Record{rec("AK-47 Redline | FT", 111)}, prior)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	a := alerts[0]
	if a.PreviousValue != 100 || a.CurrentValue != 111 {
		t.Errorf("unexpected alert values: %+v", a)
	}
	if math.Abs(a.PercentChange-11.0) > 1e-9 {
		t.Errorf("expected pct 11.0, got %v", a.PercentChange)
	}
	if next["AK-47 Redline | FT"] != 111 {
		t.Errorf("expected snapshot updated to 111, got %v", next["AK-47 Redline | FT"])
	}
}

func TestEvaluate_WithinBand(t *testing.T) {
	ev := NewEvaluator(0.10, -0.10)
	prior := map[string]float64{"AK-47 Redline | FT": 100}

	alerts, next := ev.Evaluate([]model.Record{rec("AK-47 Redline | FT", 95)}, prior)
	if len(alerts) != 0 {
		t.Fatalf("expected no alert for -5%%, got %+v", alerts)
	}
	// Snapshot still tracks the current value even without an alert.
	if next["AK-47 Redline | FT"] != 95 {
		t.Errorf("expected snapshot 95, got %v", next["AK-47 Redline | FT"])
	}
}

func TestEvaluate_InclusiveBounds(t *testing.T) {
	ev := NewEvaluator(0.10, -0.10)
	prior := map[string]float64{"up | x": 100, "down | x": 100}

	alerts, _ := ev.Evaluate([]model.Record{rec("up | x", 110), rec("down | x", 90)}, prior)
	if len(alerts) != 2 {
		t.Fatalf("expected both inclusive bounds to alert, got %d", len(alerts))
	}
}

func TestEvaluate_NoPrior(t *testing.T) {
	ev := NewEvaluator(0.10, -0.10)

	alerts, next := ev.Evaluate([]model.Record{rec("new | FN", 500)}, map[string]float64{})
	if len(alerts) != 0 {
		t.Fatalf("expected no alerts without a prior observation, got %+v", alerts)
	}
	if next["new | FN"] != 500 {
		t.Errorf("expected baseline seeded at 500, got %v", next["new | FN"])
	}
}

func TestEvaluate_NonPositivePrior(t *testing.T) {
	ev := NewEvaluator(0.10, -0.10)
	prior := map[string]float64{"free | x": 0}

	alerts, _ := ev.Evaluate([]model.Record{rec("free | x", 50)}, prior)
	if len(alerts) != 0 {
		t.Errorf("expected no alert for non-positive prior, got %+v", alerts)
	}
}

func TestEvaluate_Idempotence(t *testing.T) {
	ev := NewEvaluator(0.10, -0.10)
	feed := []model.Record{rec("AK-47 Redline | FT", 120), rec("M4A4 Howl | MW", 2000)}
	prior := map[string]float64{"AK-47 Redline | FT": 100, "M4A4 Howl | MW": 2000}

	first, snap := ev.Evaluate(feed, prior)
	if len(first) != 1 {
		t.Fatalf("expected 1 alert on first run, got %d", len(first))
	}

	// Same feed again: the snapshot overwrite makes the move old news.
	second, _ := ev.Evaluate(feed, snap)
	if len(second) != 0 {
		t.Errorf("expected no repeat alerts on second run, got %+v", second)
	}
}

func TestEvaluate_SnapshotDropsStaleIdentities(t *testing.T) {
	ev := NewEvaluator(0.10, -0.10)
	prior := map[string]float64{"gone | FT": 10, "here | FT": 10}

	_, next := ev.Evaluate([]model.Record{rec("here | FT", 10)}, prior)
	if _, ok := next["gone | FT"]; ok {
		t.Error("expected stale identity dropped from the new snapshot")
	}
	if len(next) != 1 {
		t.Errorf("expected exactly one entry, got %v", next)
	}
}

func TestEvaluate_DuplicateIdentityLastWins(t *testing.T) {
	ev := NewEvaluator(0.10, -0.10)
	prior := map[string]float64{"dup | FT": 100}

	// First row crosses, last row doesn't: the last observation wins.
	alerts, next := ev.Evaluate([]model.Record{rec("dup | FT", 120), rec("dup | FT", 101)}, prior)
	if len(alerts) != 0 {
		t.Errorf("expected last-write-wins to suppress the alert, got %+v", alerts)
	}
	if next["dup | FT"] != 101 {
		t.Errorf("expected snapshot 101, got %v", next["dup | FT"])
	}

	// Last row crosses: exactly one alert, for the final value.
	alerts, next = ev.Evaluate([]model.Record{rec("dup | FT", 101), rec("dup | FT", 120)}, prior)
	if len(alerts) != 1 {
		t.Fatalf("expected a single alert, got %d", len(alerts))
	}
	if alerts[0].CurrentValue != 120 || next["dup | FT"] != 120 {
		t.Errorf("expected final value 120, got alert %+v snapshot %v", alerts[0], next["dup | FT"])
	}
}
