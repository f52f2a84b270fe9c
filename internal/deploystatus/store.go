package deploystatus

import (
	"context"
	"errors"

	"github.com/mayankch283/Site-o-Matic/internal/domain"
)

// ErrNotFound indicates no record exists for the requested key.
var ErrNotFound = errors.New("deploystatus: record not found")

// Store abstracts where deployment records live so the tracker can run
// against an in-process cache or an external store under multi-instance
// deployment.
type Store interface {
	Put(ctx context.Context, record domain.DeploymentRecord) error
	Get(ctx context.Context, projectID, commitSHA string) (domain.DeploymentRecord, error)
	Ping(ctx context.Context) error
}
