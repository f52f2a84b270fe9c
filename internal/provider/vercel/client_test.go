package vercel

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"log/slog"

	"github.com/mayankch283/Site-o-Matic/internal/domain"
)

const listingBody = `{
	"deployments": [
		{
			"uid": "dep-newest",
			"url": "site-abc123.vercel.app",
			"state": "READY",
			"createdAt": 1714564800000,
			"meta": {"githubCommitSha": "abc12345deadbeef", "githubCommitMessage": "feat: update"}
		},
		{
			"uid": "dep-older",
			"url": "site-def456.vercel.app",
			"state": "ERROR",
			"createdAt": 1714478400000,
			"meta": {"githubCommitSha": "def4567890abcdef", "githubCommitMessage": "chore: tweak"}
		}
	]
}`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *http.Request) {
	t.Helper()
	var captured http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = *r
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &captured
}

func TestFindDeploymentExactMatch(t *testing.T) {
	server, captured := newTestServer(t, http.StatusOK, listingBody)
	client := New(server.URL, "tok-123", discardLogger())

	record, found, err := client.FindDeployment(context.Background(), "p1", "abc12345deadbeef")
	if err != nil {
		t.Fatalf("FindDeployment returned error: %v", err)
	}
	if !found {
		t.Fatal("expected a matching deployment")
	}
	if record.DeploymentID != "dep-newest" {
		t.Fatalf("unexpected deployment: %q", record.DeploymentID)
	}
	if record.Status != domain.DeployStatusReady {
		t.Fatalf("unexpected status: %q", record.Status)
	}
	if record.URL != "https://site-abc123.vercel.app" {
		t.Fatalf("unexpected url: %q", record.URL)
	}

	if got := captured.Header.Get("Authorization"); got != "Bearer tok-123" {
		t.Fatalf("unexpected authorization header: %q", got)
	}
	query := captured.URL.Query()
	if query.Get("projectId") != "p1" || query.Get("limit") != "10" {
		t.Fatalf("unexpected query: %v", query)
	}
}

func TestFindDeploymentPrefixMatch(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, listingBody)
	client := New(server.URL, "tok-123", discardLogger())

	// Truncated identifiers match by the first 8 characters.
	record, found, err := client.FindDeployment(context.Background(), "p1", "def45678ffffffff")
	if err != nil {
		t.Fatalf("FindDeployment returned error: %v", err)
	}
	if !found {
		t.Fatal("expected a prefix match")
	}
	if record.DeploymentID != "dep-older" {
		t.Fatalf("unexpected deployment: %q", record.DeploymentID)
	}
	if record.Status != domain.DeployStatusError {
		t.Fatalf("unexpected status: %q", record.Status)
	}
	if record.URL != "" {
		t.Fatalf("expected no url for failed deployment, got %q", record.URL)
	}
}

func TestFindDeploymentNoMatch(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, listingBody)
	client := New(server.URL, "tok-123", discardLogger())

	_, found, err := client.FindDeployment(context.Background(), "p1", "0000000000000000")
	if err != nil {
		t.Fatalf("FindDeployment returned error: %v", err)
	}
	if found {
		t.Fatal("expected no match")
	}
}

func TestFindDeploymentAPIError(t *testing.T) {
	server, _ := newTestServer(t, http.StatusForbidden, `{"error": "forbidden"}`)
	client := New(server.URL, "tok-123", discardLogger())

	if _, _, err := client.FindDeployment(context.Background(), "p1", "abc"); err == nil {
		t.Fatal("expected error for API failure")
	}
}

func TestConfigured(t *testing.T) {
	if (&Client{}).Configured() {
		t.Fatal("client without token must not report configured")
	}
	var nilClient *Client
	if nilClient.Configured() {
		t.Fatal("nil client must not report configured")
	}
	if !New("https://api.vercel.com", "tok", discardLogger()).Configured() {
		t.Fatal("client with token must report configured")
	}
}
