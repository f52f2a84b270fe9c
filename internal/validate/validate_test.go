package validate

import (
	"strings"
	"testing"

	"github.com/mayankch283/Site-o-Matic/internal/domain"
)

func validConfig() domain.Configuration {
	return domain.Configuration{
		"site": map[string]any{
			"title":       "Cap Central",
			"description": "x",
		},
		"theme": map[string]any{
			"primaryColor": "#1E40AF",
		},
		"navigation": map[string]any{
			"menu": []any{
				map[string]any{"label": "Home", "href": "/"},
			},
		},
	}
}

func TestValidConfigurationPasses(t *testing.T) {
	result := Configuration(validConfig())
	if !result.IsValid {
		t.Fatalf("expected valid, got errors: %v", result.Errors)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("expected empty error list, got %v", result.Errors)
	}
}

func TestNilConfigurationStopsAtTypeCheck(t *testing.T) {
	result := Configuration(nil)
	if result.IsValid {
		t.Fatal("expected invalid")
	}
	if len(result.Errors) != 1 || result.Errors[0] != "Configuration must be a valid object" {
		t.Fatalf("expected single type error, got %v", result.Errors)
	}
}

func TestMissingSectionsProduceOneErrorEach(t *testing.T) {
	result := Configuration(domain.Configuration{})
	if result.IsValid {
		t.Fatal("expected invalid")
	}
	if len(result.Errors) != 3 {
		t.Fatalf("expected 3 errors, got %v", result.Errors)
	}
	for _, name := range []string{"site", "theme", "navigation"} {
		if !containsError(result.Errors, "Missing required property: "+name) {
			t.Fatalf("missing error for %s: %v", name, result.Errors)
		}
	}
}

func TestAllFieldErrorsCollected(t *testing.T) {
	cfg := domain.Configuration{
		"site":       map[string]any{"title": "Cap Central"},
		"theme":      map[string]any{},
		"navigation": map[string]any{"menu": []any{}},
	}
	result := Configuration(cfg)
	if result.IsValid {
		t.Fatal("expected invalid")
	}
	expected := []string{
		"Site description is required",
		"Primary color is required",
		"Navigation menu must be a non-empty array",
	}
	for _, want := range expected {
		if !containsError(result.Errors, want) {
			t.Fatalf("expected error %q in %v", want, result.Errors)
		}
	}
}

func TestInvalidPrimaryColor(t *testing.T) {
	for _, color := range []string{"1E40AF", "#1E40A", "#1E40AFF", "#GGGGGG", "blue"} {
		cfg := validConfig()
		cfg["theme"] = map[string]any{"primaryColor": color}
		result := Configuration(cfg)
		if result.IsValid {
			t.Fatalf("expected color %q to be rejected", color)
		}
		if !containsError(result.Errors, "Primary color must be a valid hex color (e.g., #FF0000)") {
			t.Fatalf("expected hex color error for %q, got %v", color, result.Errors)
		}
	}
}

func TestNonObjectSectionReportedMissing(t *testing.T) {
	cfg := validConfig()
	cfg["theme"] = "dark"
	result := Configuration(cfg)
	if result.IsValid {
		t.Fatal("expected invalid")
	}
	if !containsError(result.Errors, "Missing required property: theme") {
		t.Fatalf("expected theme error, got %v", result.Errors)
	}
}

func containsError(errs []string, want string) bool {
	for _, err := range errs {
		if strings.Contains(err, want) {
			return true
		}
	}
	return false
}
