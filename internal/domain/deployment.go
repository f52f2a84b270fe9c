package domain

import (
	"strings"
	"time"
)

// Deployment status constants, normalized from provider-specific states.
const (
	DeployStatusPending  = "pending"
	DeployStatusBuilding = "building"
	DeployStatusReady    = "ready"
	DeployStatusError    = "error"
)

// DeploymentRecord is the normalized status of one external build, keyed by
// project and commit revision. Each incoming event overwrites the prior
// record for its key.
type DeploymentRecord struct {
	DeploymentID  string    `json:"deploymentId"`
	ProjectID     string    `json:"projectId"`
	CommitSHA     string    `json:"commitSha"`
	Status        string    `json:"status"`
	URL           string    `json:"url,omitempty"`
	CommitMessage string    `json:"commitMessage,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// Key returns the cache key for the record.
func (r DeploymentRecord) Key() string {
	return DeploymentKey(r.ProjectID, r.CommitSHA)
}

// DeploymentKey builds the cache key for a (project, revision) pair.
func DeploymentKey(projectID, commitSHA string) string {
	return projectID + "-" + commitSHA
}

// NormalizeProviderStatus maps a provider build state onto the internal
// four-state enum. Unknown states report pending rather than failing.
func NormalizeProviderStatus(state string) string {
	switch strings.ToUpper(strings.TrimSpace(state)) {
	case "BUILDING", "INITIALIZING":
		return DeployStatusBuilding
	case "READY":
		return DeployStatusReady
	case "ERROR", "CANCELED":
		return DeployStatusError
	default:
		return DeployStatusPending
	}
}
