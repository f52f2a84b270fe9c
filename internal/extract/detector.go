package extract

import (
	"sync"
	"time"

	"github.com/mayankch283/Site-o-Matic/internal/domain"
)

// Detector tracks which chat messages already yielded a configuration so the
// same literal is never re-emitted, and keeps every detection in insertion
// order. The most recent detection is always the last element.
type Detector struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	configs []domain.DetectedConfig
	now     func() time.Time
}

// NewDetector returns an empty detector.
func NewDetector() *Detector {
	return &Detector{
		seen: make(map[string]struct{}),
		now:  time.Now,
	}
}

// Inspect runs extraction over one message. A message whose ID was already
// recorded is skipped; a successful extraction is recorded exactly once.
func (d *Detector) Inspect(messageID, content string) (domain.DetectedConfig, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, done := d.seen[messageID]; done {
		return domain.DetectedConfig{}, false
	}
	cfg, ok := Extract(content)
	if !ok {
		return domain.DetectedConfig{}, false
	}
	detected := domain.DetectedConfig{
		Config:     cfg,
		MessageID:  messageID,
		DetectedAt: d.now().UTC(),
	}
	d.seen[messageID] = struct{}{}
	d.configs = append(d.configs, detected)
	return detected, true
}

// Latest returns the most recently detected configuration.
func (d *Detector) Latest() (domain.DetectedConfig, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.configs) == 0 {
		return domain.DetectedConfig{}, false
	}
	return d.configs[len(d.configs)-1], true
}

// Count reports how many configurations have been detected so far.
func (d *Detector) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.configs)
}
