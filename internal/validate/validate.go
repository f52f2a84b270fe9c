// Package validate checks a materialized site configuration against the
// structural and field-level rules the template repository expects.
package validate

import (
	"fmt"
	"regexp"

	"github.com/mayankch283/Site-o-Matic/internal/domain"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Result carries the outcome of a validation pass.
type Result struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// Configuration validates a site configuration, collecting every violation
// rather than stopping at the first. It is pure: no side effects, no input
// mutation.
func Configuration(cfg domain.Configuration) Result {
	errs := []string{}

	if cfg == nil {
		return Result{IsValid: false, Errors: []string{"Configuration must be a valid object"}}
	}

	for _, name := range domain.RequiredSections {
		if _, ok := cfg.Section(name); !ok {
			errs = append(errs, fmt.Sprintf("Missing required property: %s", name))
		}
	}

	if site, ok := cfg.Section("site"); ok {
		if title, _ := site["title"].(string); title == "" {
			errs = append(errs, "Site title is required")
		}
		if description, _ := site["description"].(string); description == "" {
			errs = append(errs, "Site description is required")
		}
	}

	if theme, ok := cfg.Section("theme"); ok {
		color, _ := theme["primaryColor"].(string)
		if color == "" {
			errs = append(errs, "Primary color is required")
		} else if !hexColorPattern.MatchString(color) {
			errs = append(errs, "Primary color must be a valid hex color (e.g., #FF0000)")
		}
	}

	if navigation, ok := cfg.Section("navigation"); ok {
		menu, _ := navigation["menu"].([]any)
		if len(menu) == 0 {
			errs = append(errs, "Navigation menu must be a non-empty array")
		}
	}

	return Result{IsValid: len(errs) == 0, Errors: errs}
}
