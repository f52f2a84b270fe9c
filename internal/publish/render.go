package publish

import (
	"encoding/json"
	"fmt"

	"github.com/mayankch283/Site-o-Matic/internal/domain"
)

const (
	renderHeader = "import { SiteConfig } from \"@/types/siteConfig\";\n\nconst siteConfig: SiteConfig = "
	renderFooter = ";\n\nexport default siteConfig;\n"
)

// Render serializes a configuration into the template repository's
// siteConfig.ts format: a typed constant wrapping the full structural dump,
// default-exported. Output is deterministic byte-for-byte for a given
// configuration (encoding/json emits map keys sorted), so an unchanged
// configuration renders an identical file and produces no diff.
func Render(cfg domain.Configuration) ([]byte, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: configuration object is required", ErrInvalidConfiguration)
	}
	for _, name := range domain.RequiredSections {
		if _, ok := cfg[name]; !ok {
			return nil, fmt.Errorf("%w: missing required property '%s'", ErrInvalidConfiguration, name)
		}
	}
	body, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	return []byte(renderHeader + string(body) + renderFooter), nil
}
