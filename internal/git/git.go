// Package git shells out to the git binary for the handful of operations a
// publish needs: clone, status, identity config, commit and push.
package git

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Clone clones the repository into the provided destination directory.
func Clone(ctx context.Context, repoURL, dest string) error {
	if repoURL == "" {
		return fmt.Errorf("repository URL cannot be empty")
	}
	if dest == "" {
		return fmt.Errorf("destination cannot be empty")
	}
	_, err := run(ctx, dest, "clone", "--depth", "1", repoURL, ".")
	return err
}

// Repo operates on an existing local clone.
type Repo struct {
	dir string
}

// Open wraps a working tree directory.
func Open(dir string) Repo {
	return Repo{dir: dir}
}

// Status returns the porcelain status lines of the working tree. An empty
// slice means nothing changed.
func (r Repo) Status(ctx context.Context) ([]string, error) {
	out, err := run(ctx, r.dir, "status", "--porcelain")
	if err != nil {
		return nil, err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// SetIdentity configures the commit author for this clone only. Git refuses
// to commit without one.
func (r Repo) SetIdentity(ctx context.Context, name, email string) error {
	if _, err := run(ctx, r.dir, "config", "user.name", name); err != nil {
		return err
	}
	_, err := run(ctx, r.dir, "config", "user.email", email)
	return err
}

// CommitAll stages every change and commits with the given message.
func (r Repo) CommitAll(ctx context.Context, message string) error {
	if _, err := run(ctx, r.dir, "add", "--all"); err != nil {
		return err
	}
	_, err := run(ctx, r.dir, "commit", "-m", message)
	return err
}

// Push publishes local commits to the remote branch.
func (r Repo) Push(ctx context.Context, remote, branch string) error {
	_, err := run(ctx, r.dir, "push", remote, branch)
	return err
}

// Available reports whether the git binary can be resolved.
func Available() error {
	_, err := exec.LookPath("git")
	return err
}

func run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	// Prevent git from prompting for credentials interactively.
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s failed: %w: %s", args[0], err, sanitize(string(output)))
	}
	return string(output), nil
}

// sanitize trims command output for error messages.
func sanitize(out string) string {
	out = strings.TrimSpace(out)
	if len(out) > 500 {
		out = out[:500] + "..."
	}
	return out
}
