package extract

import (
	"testing"
	"time"
)

func TestDetectorRecordsInOrder(t *testing.T) {
	d := NewDetector()
	base := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)
	tick := 0
	d.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	first, ok := d.Inspect("msg-1", assignedConfig)
	if !ok {
		t.Fatal("expected first message to yield a configuration")
	}
	second := `export default {
  site: {title: "Second", description: "d"},
  theme: {primaryColor: "#000000"},
  navigation: {menu: [{label: "Home", href: "/"}]}
};`
	if _, ok := d.Inspect("msg-2", second); !ok {
		t.Fatal("expected second message to yield a configuration")
	}

	if d.Count() != 2 {
		t.Fatalf("expected 2 detections, got %d", d.Count())
	}
	latest, ok := d.Latest()
	if !ok || latest.MessageID != "msg-2" {
		t.Fatalf("expected latest to be msg-2, got %+v", latest)
	}
	if !first.DetectedAt.Before(latest.DetectedAt) {
		t.Fatal("expected detection timestamps to be ordered")
	}
}

func TestDetectorSkipsProcessedMessages(t *testing.T) {
	d := NewDetector()
	if _, ok := d.Inspect("msg-1", assignedConfig); !ok {
		t.Fatal("expected detection on first pass")
	}
	if _, ok := d.Inspect("msg-1", assignedConfig); ok {
		t.Fatal("expected repeat message to be skipped")
	}
	if d.Count() != 1 {
		t.Fatalf("expected 1 detection, got %d", d.Count())
	}
}

func TestDetectorIgnoresMessagesWithoutConfig(t *testing.T) {
	d := NewDetector()
	if _, ok := d.Inspect("msg-1", "nothing to see here"); ok {
		t.Fatal("expected no detection")
	}
	if _, ok := d.Latest(); ok {
		t.Fatal("expected no latest detection")
	}
	if d.Count() != 0 {
		t.Fatalf("expected 0 detections, got %d", d.Count())
	}
}
