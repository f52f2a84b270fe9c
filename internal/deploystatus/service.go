// Package deploystatus normalizes and serves build-status events from the
// hosting provider.
package deploystatus

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/mayankch283/Site-o-Matic/internal/domain"
	"github.com/mayankch283/Site-o-Matic/internal/provider/vercel"
)

// ErrBadSignature rejects webhook events whose signature is missing or does
// not match. Such events are never written to the store.
var ErrBadSignature = errors.New("invalid webhook signature")

// Broadcaster pushes accepted records to live subscribers.
type Broadcaster interface {
	Broadcast(projectID string, payload []byte)
}

// WebhookEvent is the provider's native deployment event payload.
type WebhookEvent struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	CreatedAt    int64  `json:"createdAt"`
	DeploymentID string `json:"deploymentId"`
	ProjectID    string `json:"projectId"`
	Target       string `json:"target"`
	Status       string `json:"status"`
	Meta         struct {
		GithubCommitSha        string `json:"githubCommitSha"`
		GithubCommitMessage    string `json:"githubCommitMessage"`
		GithubCommitAuthorName string `json:"githubCommitAuthorName"`
	} `json:"meta"`
	CommitSha string `json:"commitSha"`
}

// Tracker ingests webhook events and serves the latest known status per
// (project, revision) key.
type Tracker struct {
	store            Store
	provider         *vercel.Client
	hub              Broadcaster
	logger           *slog.Logger
	secret           string
	defaultProjectID string
	now              func() time.Time
}

// NewTracker wires the tracker. provider and hub may be nil; secret empty
// disables signature verification (insecure mode, non-production only).
func NewTracker(store Store, provider *vercel.Client, hub Broadcaster, logger *slog.Logger, secret, defaultProjectID string) *Tracker {
	return &Tracker{
		store:            store,
		provider:         provider,
		hub:              hub,
		logger:           logger,
		secret:           secret,
		defaultProjectID: defaultProjectID,
		now:              time.Now,
	}
}

// VerifySignature checks the HMAC-SHA256 signature over the raw event body.
// Comparison is constant-time.
func (t *Tracker) VerifySignature(body []byte, signature string) error {
	if t.secret == "" {
		return nil
	}
	if signature == "" {
		return fmt.Errorf("%w: missing signature", ErrBadSignature)
	}
	hasher := hmac.New(sha256.New, []byte(t.secret))
	hasher.Write(body)
	expected := hex.EncodeToString(hasher.Sum(nil))
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return ErrBadSignature
	}
	return nil
}

// ProcessEvent verifies, normalizes and stores one webhook event, then
// notifies live subscribers.
func (t *Tracker) ProcessEvent(ctx context.Context, body []byte, signature string) (domain.DeploymentRecord, error) {
	if err := t.VerifySignature(body, signature); err != nil {
		return domain.DeploymentRecord{}, err
	}

	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return domain.DeploymentRecord{}, fmt.Errorf("decode webhook payload: %w", err)
	}

	record := domain.DeploymentRecord{
		DeploymentID:  event.DeploymentID,
		ProjectID:     event.ProjectID,
		CommitSHA:     event.Meta.GithubCommitSha,
		Status:        domain.NormalizeProviderStatus(event.Status),
		URL:           event.URL,
		CommitMessage: event.Meta.GithubCommitMessage,
		Timestamp:     time.UnixMilli(event.CreatedAt).UTC(),
	}
	if record.CommitSHA == "" {
		record.CommitSHA = event.CommitSha
	}
	if record.DeploymentID == "" {
		record.DeploymentID = uuid.NewString()
	}
	if event.CreatedAt == 0 {
		record.Timestamp = t.now().UTC()
	}

	if err := t.store.Put(ctx, record); err != nil {
		return domain.DeploymentRecord{}, fmt.Errorf("store deployment record: %w", err)
	}

	t.logger.Info("deployment webhook received",
		"type", event.Type,
		"status", record.Status,
		"project_id", record.ProjectID,
		"commit", shortSHA(record.CommitSHA),
	)
	if record.Status == domain.DeployStatusReady || record.Status == domain.DeployStatusError {
		t.logger.Info("deployment completed",
			"status", record.Status,
			"url", record.URL,
			"commit", shortSHA(record.CommitSHA),
			"commit_message", record.CommitMessage,
		)
	}

	if t.hub != nil {
		if payload, err := json.Marshal(record); err == nil {
			t.hub.Broadcast(record.ProjectID, payload)
		}
	}
	return record, nil
}

// Lookup returns the cached record for a (project, revision) pair.
func (t *Tracker) Lookup(ctx context.Context, projectID, commitSHA string) (domain.DeploymentRecord, error) {
	return t.store.Get(ctx, projectID, commitSHA)
}

// LiveStatus queries the provider's listing API when no event has arrived
// yet. A build that cannot be found reports pending, never an error.
func (t *Tracker) LiveStatus(ctx context.Context, projectID, commitSHA string) (domain.DeploymentRecord, error) {
	if projectID == "" {
		projectID = t.defaultProjectID
	}
	pending := domain.DeploymentRecord{
		ProjectID: projectID,
		CommitSHA: commitSHA,
		Status:    domain.DeployStatusPending,
		Timestamp: t.now().UTC(),
	}
	if !t.provider.Configured() {
		return pending, nil
	}
	record, found, err := t.provider.FindDeployment(ctx, projectID, commitSHA)
	if err != nil {
		return domain.DeploymentRecord{}, err
	}
	if !found {
		return pending, nil
	}
	return record, nil
}

// HasProvider reports whether live status checks are possible.
func (t *Tracker) HasProvider() bool {
	return t.provider.Configured()
}

// Health pings the backing store.
func (t *Tracker) Health(ctx context.Context) error {
	return t.store.Ping(ctx)
}

func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
