package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/mayankch283/Site-o-Matic/internal/domain"
)

// pattern locates a candidate configuration literal in free text. The
// locator's match must contain the opening brace of the literal; the literal
// itself is consumed by the parser so nested braces inside string values
// cannot truncate it.
type pattern struct {
	name    string
	locator *regexp.Regexp
}

// Ordered most specific first; the first pattern that yields a parseable,
// section-complete object wins. The generic-object and fenced-block locators
// can overlap on the same text; list order is the tie-break.
var patterns = []pattern{
	{"named assignment", regexp.MustCompile(`const\s+siteConfig\s*(?::\s*SiteConfig)?\s*=\s*\{`)},
	{"default export", regexp.MustCompile(`export\s+default\s*\{`)},
	{"object with required sections", regexp.MustCompile(`\{[\s\S]*?['"]?site['"]?\s*:`)},
	{"fenced code block", regexp.MustCompile("```(?:typescript|javascript|tsx?|jsx?)?\\s*(?:const\\s+siteConfig\\s*(?::\\s*SiteConfig)?\\s*=\\s*)?\\{")},
}

// Extract scans arbitrary text for an embedded site configuration literal and
// materializes it. It reports false for anything that fails both the relaxed
// parser and strict JSON; malformed input never produces an error.
func Extract(content string) (domain.Configuration, bool) {
	if strings.TrimSpace(content) == "" {
		return nil, false
	}
	// Template-escaped text doubles braces; collapse them before locating
	// candidates so the literal scan stays balanced.
	cleaned := strings.NewReplacer("{{", "{", "}}", "}").Replace(content)

	for _, pat := range patterns {
		loc := pat.locator.FindStringIndex(cleaned)
		if loc == nil {
			continue
		}
		brace := loc[0] + strings.IndexByte(cleaned[loc[0]:loc[1]], '{')
		if cfg, ok := materialize(cleaned[brace:]); ok {
			return cfg, true
		}
	}
	return nil, false
}

// materialize parses the literal starting at the opening brace, falling back
// to strict JSON when the relaxed grammar rejects it.
func materialize(src string) (domain.Configuration, bool) {
	if value, _, err := parseLiteral(src); err == nil {
		if cfg, ok := value.(map[string]any); ok && hasRequiredSections(cfg) {
			return domain.Configuration(cfg), true
		}
		return nil, false
	}
	end := strings.LastIndexByte(src, '}')
	if end < 0 {
		return nil, false
	}
	var cfg map[string]any
	if err := json.Unmarshal([]byte(src[:end+1]), &cfg); err != nil {
		return nil, false
	}
	if !hasRequiredSections(cfg) {
		return nil, false
	}
	return domain.Configuration(cfg), true
}

// hasRequiredSections is the extractor's shallow acceptance check: the three
// required top-level sections must be present, object-shaped and non-empty.
// Field-level rules belong to the validator.
func hasRequiredSections(cfg map[string]any) bool {
	for _, name := range domain.RequiredSections {
		section, ok := cfg[name].(map[string]any)
		if !ok || len(section) == 0 {
			return false
		}
	}
	return true
}
