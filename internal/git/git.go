package git

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes git commands against a single repository root.
// Every command runs synchronously with the repository root as its
// working directory; nothing is read from ambient process state.
type Runner struct {
	Dir string
}

// NewRunner returns a Runner bound to the given repository root.
func NewRunner(dir string) *Runner {
	return &Runner{Dir: dir}
}

// CommandError carries a failing git invocation together with the
// output it produced, so callers can print a useful diagnostic before
// aborting.
type CommandError struct {
	Args   []string
	Stdout string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("git %s: %v\nstdout: %s\nstderr: %s",
		strings.Join(e.Args, " "), e.Err, e.Stdout, e.Stderr)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Run executes a git command and returns its trimmed stdout.
// A non-zero exit is an error; the returned *CommandError carries the
// captured stdout and stderr.
func (r *Runner) Run(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &CommandError{
			Args:   args,
			Stdout: stdout.String(),
			Stderr: stderr.String(),
			Err:    err,
		}
	}
	return strings.TrimSpace(stdout.String()), nil
}

// RunBestEffort executes a git command whose failure is acceptable.
// On non-zero exit it returns an empty string and the run continues;
// this is for cleanup commands like dropping a stash that may not exist.
func (r *Runner) RunBestEffort(args ...string) string {
	out, err := r.Run(args...)
	if err != nil {
		return ""
	}
	return out
}

// IsGitRepo reports whether the runner's directory is inside a git repository.
func (r *Runner) IsGitRepo() bool {
	_, err := r.Run("rev-parse", "--git-dir")
	return err == nil
}

// CurrentBranch returns the checked-out branch name.
func (r *Runner) CurrentBranch() (string, error) {
	out, err := r.Run("rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}
	return out, nil
}

// BranchExists checks if a ref resolves in the repository.
func (r *Runner) BranchExists(ref string) bool {
	_, err := r.Run("rev-parse", "--verify", ref)
	return err == nil
}

// RevParse resolves a ref to its commit hash.
func (r *Runner) RevParse(ref string) (string, error) {
	out, err := r.Run("rev-parse", ref)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", ref, err)
	}
	return out, nil
}

// Checkout switches the working tree to a branch. The branch must
// already exist; creating branches is out of scope.
func (r *Runner) Checkout(branch string) error {
	if _, err := r.Run("checkout", branch); err != nil {
		return fmt.Errorf("failed to checkout %s: %w", branch, err)
	}
	return nil
}

// ResetHard force-resets the current branch and working tree to ref,
// discarding every commit unique to the branch. Destructive and
// non-recoverable.
func (r *Runner) ResetHard(ref string) error {
	if _, err := r.Run("reset", "--hard", ref); err != nil {
		return fmt.Errorf("failed to reset to %s: %w", ref, err)
	}
	return nil
}

// AddAll stages every working-tree change, including deletions.
func (r *Runner) AddAll() error {
	if _, err := r.Run("add", "-A"); err != nil {
		return fmt.Errorf("failed to stage changes: %w", err)
	}
	return nil
}

// HasStagedChanges reports whether the index differs from HEAD.
func (r *Runner) HasStagedChanges() (bool, error) {
	// diff --quiet exits 1 when the index and HEAD differ
	_, err := r.Run("diff", "--cached", "--quiet")
	if err == nil {
		return false, nil
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) && cmdErr.Stderr == "" {
		return true, nil
	}
	return false, fmt.Errorf("failed to check staged changes: %w", err)
}

// Commit records the staged changes as a single commit.
func (r *Runner) Commit(message string) error {
	if _, err := r.Run("commit", "-m", message); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// StashDrop discards the most recent stash entry if one exists.
// Missing stashes are not an error.
func (r *Runner) StashDrop() {
	r.RunBestEffort("stash", "drop")
}
