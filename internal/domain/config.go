package domain

import "time"

// Configuration is the structured website description extracted from model
// output. It stays an untyped tree because the optional sections (homepage,
// footer, filters, seo, products, content, ...) are open-ended; the required
// shape is enforced by the validator. A Configuration is never mutated after
// validation; every publish attempt builds a fresh one.
type Configuration map[string]any

// RequiredSections are the top-level keys every Configuration must carry.
var RequiredSections = []string{"site", "theme", "navigation"}

// Section returns a named top-level section when present and object-shaped.
func (c Configuration) Section(name string) (map[string]any, bool) {
	value, ok := c[name]
	if !ok {
		return nil, false
	}
	section, ok := value.(map[string]any)
	return section, ok
}

// StringAt returns a string field from a top-level section.
func (c Configuration) StringAt(section, field string) (string, bool) {
	obj, ok := c.Section(section)
	if !ok {
		return "", false
	}
	value, ok := obj[field].(string)
	return value, ok
}

// DetectedConfig pairs a Configuration with the chat message it came from.
// Records are append-only; the newest detection is always the last element of
// the detector's sequence.
type DetectedConfig struct {
	Config     Configuration `json:"config"`
	MessageID  string        `json:"messageId"`
	DetectedAt time.Time     `json:"detectedAt"`
}

// PublishResult reports the outcome of a single publish invocation. It is
// constructed once per attempt and never mutated after return.
type PublishResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	CommitMessage string `json:"commitMessage,omitempty"`
	Timestamp     string `json:"timestamp,omitempty"`
	NoChanges     bool   `json:"noChanges,omitempty"`
	WebsiteURL    string `json:"websiteUrl,omitempty"`
	Error         string `json:"error,omitempty"`
	Details       string `json:"details,omitempty"`
}
