package deploystatus

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mayankch283/Site-o-Matic/internal/domain"
)

func record(projectID, sha, status string) domain.DeploymentRecord {
	return domain.DeploymentRecord{
		DeploymentID: "dep-" + sha,
		ProjectID:    projectID,
		CommitSHA:    sha,
		Status:       status,
		Timestamp:    time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestMemoryStoreEvictsOldestInserted(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for i := 0; i < 51; i++ {
		rec := record("p1", fmt.Sprintf("sha%02d", i), domain.DeployStatusReady)
		if err := store.Put(ctx, rec); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	if store.Len() != 50 {
		t.Fatalf("expected 50 records, got %d", store.Len())
	}
	if _, err := store.Get(ctx, "p1", "sha00"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected first-inserted record to be evicted, got %v", err)
	}
	for i := 1; i < 51; i++ {
		if _, err := store.Get(ctx, "p1", fmt.Sprintf("sha%02d", i)); err != nil {
			t.Fatalf("expected sha%02d to be present: %v", i, err)
		}
	}
}

func TestMemoryStoreOverwriteKeepsInsertionPosition(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStoreWithBound(2)

	if err := store.Put(ctx, record("p1", "aaa", domain.DeployStatusBuilding)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Put(ctx, record("p1", "bbb", domain.DeployStatusBuilding)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	// Overwrite the oldest key; it must not count as a new insertion.
	if err := store.Put(ctx, record("p1", "aaa", domain.DeployStatusReady)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if store.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", store.Len())
	}
	got, err := store.Get(ctx, "p1", "aaa")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != domain.DeployStatusReady {
		t.Fatalf("expected overwritten status, got %q", got.Status)
	}

	// The next new insertion still evicts "aaa" as the oldest.
	if err := store.Put(ctx, record("p1", "ccc", domain.DeployStatusBuilding)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := store.Get(ctx, "p1", "aaa"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected aaa evicted, got %v", err)
	}
}

func TestMemoryStoreGetUnknownKey(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.Get(context.Background(), "p1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
