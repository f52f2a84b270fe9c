// Package vercel queries the hosting provider's deployments listing API for
// builds that have not reported back over the webhook yet.
package vercel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"log/slog"

	"github.com/mayankch283/Site-o-Matic/internal/domain"
)

const listLimit = 10

// Client calls the Vercel REST API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger
}

// New returns a client for the given API base URL and access token.
func New(baseURL, token string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

// Configured reports whether an access token is available.
func (c *Client) Configured() bool {
	return c != nil && c.token != ""
}

type listResponse struct {
	Deployments []listedDeployment `json:"deployments"`
}

type listedDeployment struct {
	UID       string `json:"uid"`
	URL       string `json:"url"`
	State     string `json:"state"`
	CreatedAt int64  `json:"createdAt"`
	Meta      struct {
		GithubCommitSha     string `json:"githubCommitSha"`
		GithubCommitMessage string `json:"githubCommitMessage"`
	} `json:"meta"`
}

// FindDeployment lists the project's most recent builds and returns the one
// whose recorded commit matches the requested revision, either exactly or by
// the revision's first 8 characters for truncated identifiers.
func (c *Client) FindDeployment(ctx context.Context, projectID, commitSHA string) (domain.DeploymentRecord, bool, error) {
	endpoint := fmt.Sprintf("%s/v6/deployments?projectId=%s&limit=%d", c.baseURL, url.QueryEscape(projectID), listLimit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.DeploymentRecord{}, false, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.DeploymentRecord{}, false, fmt.Errorf("vercel api request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return domain.DeploymentRecord{}, false, fmt.Errorf("vercel api error: %s", resp.Status)
	}

	var payload listResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.DeploymentRecord{}, false, fmt.Errorf("decode vercel response: %w", err)
	}

	prefix := commitSHA
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	for _, deployment := range payload.Deployments {
		sha := deployment.Meta.GithubCommitSha
		if sha == "" {
			continue
		}
		if sha != commitSHA && !strings.HasPrefix(sha, prefix) {
			continue
		}
		record := domain.DeploymentRecord{
			DeploymentID:  deployment.UID,
			ProjectID:     projectID,
			CommitSHA:     sha,
			Status:        domain.NormalizeProviderStatus(deployment.State),
			CommitMessage: deployment.Meta.GithubCommitMessage,
			Timestamp:     time.UnixMilli(deployment.CreatedAt).UTC(),
		}
		if record.Status == domain.DeployStatusReady && deployment.URL != "" {
			record.URL = "https://" + deployment.URL
		}
		return record, true, nil
	}
	return domain.DeploymentRecord{}, false, nil
}
