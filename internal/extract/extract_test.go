package extract

import (
	"strings"
	"testing"
)

const assignedConfig = `Here is the configuration for your store:

const siteConfig: SiteConfig = {
  site: {
    title: "Cap Central",
    description: "Premium caps and headwear",
  },
  theme: {
    primaryColor: "#1E40AF",
  },
  navigation: {
    menu: [
      { label: "Home", href: "/" },
      { label: "Shop", href: "/shop" },
    ],
  },
};

export default siteConfig;

Let me know if you want any changes.`

func TestExtractNamedAssignment(t *testing.T) {
	cfg, ok := Extract(assignedConfig)
	if !ok {
		t.Fatal("expected configuration to be found")
	}
	if title, _ := cfg.StringAt("site", "title"); title != "Cap Central" {
		t.Fatalf("unexpected title: %q", title)
	}
	navigation, _ := cfg.Section("navigation")
	menu, _ := navigation["menu"].([]any)
	if len(menu) != 2 {
		t.Fatalf("unexpected menu length: %d", len(menu))
	}
}

func TestExtractFencedCodeBlock(t *testing.T) {
	content := "Here you go:\n```typescript\n{\n  site: {title: \"Fenced\", description: \"d\"},\n  theme: {primaryColor: \"#112233\"},\n  navigation: {menu: [{label: \"Home\", href: \"/\"}]}\n}\n```\n"
	cfg, ok := Extract(content)
	if !ok {
		t.Fatal("expected configuration to be found")
	}
	if title, _ := cfg.StringAt("site", "title"); title != "Fenced" {
		t.Fatalf("unexpected title: %q", title)
	}
}

func TestExtractNormalizesDoubledBraces(t *testing.T) {
	content := `{{site: {{title: "Escaped", description: "d"}}, theme: {{primaryColor: "#112233"}}, navigation: {{menu: [{{label: "Home", href: "/"}}]}}}}`
	cfg, ok := Extract(content)
	if !ok {
		t.Fatal("expected configuration to be found")
	}
	if title, _ := cfg.StringAt("site", "title"); title != "Escaped" {
		t.Fatalf("unexpected title: %q", title)
	}
}

func TestExtractBracesInsideStringValues(t *testing.T) {
	content := `const siteConfig = {
  site: {title: "Curly { Brace } Shop", description: "d"},
  theme: {primaryColor: "#445566"},
  navigation: {menu: [{label: "Home", href: "/"}]}
};`
	cfg, ok := Extract(content)
	if !ok {
		t.Fatal("expected configuration to be found")
	}
	if title, _ := cfg.StringAt("site", "title"); title != "Curly { Brace } Shop" {
		t.Fatalf("unexpected title: %q", title)
	}
}

func TestExtractFirstPatternWins(t *testing.T) {
	content := assignedConfig + `

export default {
  site: {title: "Second", description: "d"},
  theme: {primaryColor: "#000000"},
  navigation: {menu: [{label: "Home", href: "/"}]}
};`
	cfg, ok := Extract(content)
	if !ok {
		t.Fatal("expected configuration to be found")
	}
	if title, _ := cfg.StringAt("site", "title"); title != "Cap Central" {
		t.Fatalf("expected the named assignment to win, got title %q", title)
	}
}

func TestExtractNotFound(t *testing.T) {
	cases := []string{
		"",
		"Just some prose with no configuration at all.",
		"A brace {color} and site: mentioned in passing.",
		"const siteConfig = {site: {title: \"X\"}};", // missing theme and navigation
		"{site: \"not an object\", theme: {}, navigation: {}}",
		strings.Repeat("{", 100),
	}
	for _, content := range cases {
		if cfg, ok := Extract(content); ok {
			t.Fatalf("expected no configuration for %q, got %v", content, cfg)
		}
	}
}

func TestExtractRequiresNonEmptySections(t *testing.T) {
	content := `{site: {title: "X"}, theme: {}, navigation: {menu: []}}`
	if _, ok := Extract(content); ok {
		t.Fatal("expected empty theme section to be rejected")
	}
}
