// Package publish turns a validated configuration into a pushed commit in
// the template repository, exactly once per invocation, with no leftover
// local state on any exit path.
package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/mayankch283/Site-o-Matic/internal/commitmsg"
	"github.com/mayankch283/Site-o-Matic/internal/domain"
	"github.com/mayankch283/Site-o-Matic/internal/git"
	"github.com/mayankch283/Site-o-Matic/internal/workspace"
	"github.com/mayankch283/Site-o-Matic/pkg/config"
)

const (
	// workspaceID names the single clone directory. Publishes serialize on
	// it; two concurrent clones into the same path corrupt each other.
	workspaceID    = "template-website"
	configRelDir   = "src/config"
	configFileName = "siteConfig.ts"
)

// gitClient abstracts the git operations a publish performs.
type gitClient interface {
	Clone(ctx context.Context, repoURL, dest string) error
	Status(ctx context.Context, dir string) ([]string, error)
	SetIdentity(ctx context.Context, dir, name, email string) error
	CommitAll(ctx context.Context, dir, message string) error
	Push(ctx context.Context, dir, remote, branch string) error
}

type execGit struct{}

func (execGit) Clone(ctx context.Context, repoURL, dest string) error {
	return git.Clone(ctx, repoURL, dest)
}

func (execGit) Status(ctx context.Context, dir string) ([]string, error) {
	return git.Open(dir).Status(ctx)
}

func (execGit) SetIdentity(ctx context.Context, dir, name, email string) error {
	return git.Open(dir).SetIdentity(ctx, name, email)
}

func (execGit) CommitAll(ctx context.Context, dir, message string) error {
	return git.Open(dir).CommitAll(ctx, message)
}

func (execGit) Push(ctx context.Context, dir, remote, branch string) error {
	return git.Open(dir).Push(ctx, remote, branch)
}

// Service publishes configurations to the template repository.
type Service struct {
	workspaces *workspace.Manager
	git        gitClient
	logger     *slog.Logger
	cfg        config.Config
	now        func() time.Time

	mu   sync.Mutex
	prev domain.Configuration
}

// New returns a publisher backed by the git binary.
func New(workspaces *workspace.Manager, logger *slog.Logger, cfg config.Config) *Service {
	return &Service{
		workspaces: workspaces,
		git:        execGit{},
		logger:     logger,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Publish clones the template repository, writes the rendered configuration
// file, commits and pushes. When commitMessage is empty a message is composed
// from the diff against the previously published configuration. The
// workspace is removed on every exit path, including timeouts.
func (s *Service) Publish(ctx context.Context, cfg domain.Configuration, commitMessage string) (domain.PublishResult, error) {
	rendered, err := Render(cfg)
	if err != nil {
		return domain.PublishResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.GitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.GitTimeout)
		defer cancel()
	}

	publishID := uuid.NewString()
	log := s.logger.With("publish_id", publishID)
	log.Info("publish starting", "repo", s.cfg.GitHubUsername+"/"+s.cfg.TemplateRepo)

	dir, err := s.workspaces.Prepare(workspaceID)
	if err != nil {
		return domain.PublishResult{}, fmt.Errorf("prepare workspace: %w", err)
	}
	defer func() {
		if err := s.workspaces.Cleanup(dir); err != nil {
			log.Error("workspace cleanup failed", "path", dir, "error", err)
		}
	}()

	if err := s.git.Clone(ctx, s.cfg.RepoURL(), dir); err != nil {
		return domain.PublishResult{}, &TransportError{Op: "clone", Err: err}
	}

	configDir := filepath.Join(dir, filepath.FromSlash(configRelDir))
	if info, err := os.Stat(configDir); err != nil || !info.IsDir() {
		return domain.PublishResult{}, fmt.Errorf("%w: configuration directory %s not found in clone", ErrStructureMismatch, configRelDir)
	}

	target := filepath.Join(configDir, configFileName)
	if err := os.WriteFile(target, rendered, 0o644); err != nil {
		return domain.PublishResult{}, fmt.Errorf("write configuration file: %w", err)
	}

	changes, err := s.git.Status(ctx, dir)
	if err != nil {
		return domain.PublishResult{}, &TransportError{Op: "status", Err: err}
	}
	if len(changes) == 0 {
		log.Info("no changes detected, skipping commit")
		s.prev = cfg
		return domain.PublishResult{
			Success:    true,
			Message:    "No changes to commit",
			NoChanges:  true,
			Timestamp:  s.now().UTC().Format(time.RFC3339),
			WebsiteURL: s.cfg.WebsiteURL,
		}, nil
	}

	if commitMessage == "" {
		commitMessage = commitmsg.Compose(cfg, s.prev, s.now())
	}

	if err := s.git.SetIdentity(ctx, dir, s.cfg.GitAuthorName, s.cfg.GitAuthorEmail); err != nil {
		return domain.PublishResult{}, &TransportError{Op: "config", Err: err}
	}
	if err := s.git.CommitAll(ctx, dir, commitMessage); err != nil {
		return domain.PublishResult{}, &TransportError{Op: "commit", Err: err}
	}
	if err := s.git.Push(ctx, dir, "origin", s.cfg.GitBranch); err != nil {
		return domain.PublishResult{}, &TransportError{Op: "push", Err: err}
	}

	s.prev = cfg
	log.Info("publish complete", "commit_message", commitMessage)
	return domain.PublishResult{
		Success:       true,
		Message:       "Configuration updated successfully",
		CommitMessage: commitMessage,
		Timestamp:     s.now().UTC().Format(time.RFC3339),
		WebsiteURL:    s.cfg.WebsiteURL,
	}, nil
}
