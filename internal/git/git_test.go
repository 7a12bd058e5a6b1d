package git

import (
	"errors"
	"strings"
	"testing"

	"github.com/nmkale/restage/internal/testutil"
)

func TestRunCapturesOutput(t *testing.T) {
	repo := testutil.NewTempGitRepo(t)
	defer repo.Cleanup()

	runner := NewRunner(repo.Path)

	out, err := runner.Run("rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if out != "main" {
		t.Errorf("expected trimmed output 'main', got %q", out)
	}
}

func TestRunFailureCarriesStderr(t *testing.T) {
	repo := testutil.NewTempGitRepo(t)
	defer repo.Cleanup()

	runner := NewRunner(repo.Path)

	_, err := runner.Run("checkout", "no-such-branch")
	if err == nil {
		t.Fatal("expected error for missing branch")
	}

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected *CommandError, got %T", err)
	}
	if cmdErr.Stderr == "" {
		t.Error("expected captured stderr on failure")
	}
	if !strings.Contains(cmdErr.Error(), "checkout") {
		t.Errorf("error should name the failing command: %v", cmdErr)
	}
}

func TestRunBestEffortSwallowsFailure(t *testing.T) {
	repo := testutil.NewTempGitRepo(t)
	defer repo.Cleanup()

	runner := NewRunner(repo.Path)

	out := runner.RunBestEffort("stash", "drop")
	if out != "" {
		t.Errorf("expected empty output from failed best-effort command, got %q", out)
	}

	// The repository must still be usable afterwards.
	if _, err := runner.CurrentBranch(); err != nil {
		t.Errorf("repository broken after best-effort failure: %v", err)
	}
}

func TestStashDropMissingStashIsNoOp(t *testing.T) {
	repo := testutil.NewTempGitRepo(t)
	defer repo.Cleanup()

	runner := NewRunner(repo.Path)
	runner.StashDrop()

	if branch, _ := runner.CurrentBranch(); branch != "main" {
		t.Errorf("expected to stay on main, got %s", branch)
	}
}

func TestCheckoutAndResetHard(t *testing.T) {
	repo := testutil.NewTempGitRepo(t)
	defer repo.Cleanup()

	base := repo.RevParse("HEAD")
	repo.CreateBranch("feature")
	repo.Checkout("feature")
	repo.CreateFile("extra.txt", "extra\n")
	repo.Commit("add extra")

	runner := NewRunner(repo.Path)

	if err := runner.Checkout("main"); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if err := runner.Checkout("feature"); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if err := runner.ResetHard("main"); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	if head, _ := runner.RevParse("HEAD"); head != base {
		t.Errorf("expected feature to be reset to %s, got %s", base, head)
	}
	if repo.FileExists("feature", "extra.txt") {
		t.Error("extra.txt should have been discarded by the reset")
	}
}

func TestHasStagedChanges(t *testing.T) {
	repo := testutil.NewTempGitRepo(t)
	defer repo.Cleanup()

	runner := NewRunner(repo.Path)

	staged, err := runner.HasStagedChanges()
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if staged {
		t.Error("clean repository should have no staged changes")
	}

	repo.CreateFile("new.txt", "new\n")
	if err := runner.AddAll(); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	staged, err = runner.HasStagedChanges()
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !staged {
		t.Error("expected staged changes after add")
	}

	if err := runner.Commit("add new.txt"); err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if !repo.FileExists("main", "new.txt") {
		t.Error("new.txt missing from committed tree")
	}
}

func TestBranchExists(t *testing.T) {
	repo := testutil.NewTempGitRepo(t)
	defer repo.Cleanup()

	runner := NewRunner(repo.Path)

	if !runner.BranchExists("main") {
		t.Error("main should exist")
	}
	if runner.BranchExists("ghost") {
		t.Error("ghost should not exist")
	}
}

func TestIsGitRepo(t *testing.T) {
	repo := testutil.NewTempGitRepo(t)
	defer repo.Cleanup()

	if !NewRunner(repo.Path).IsGitRepo() {
		t.Error("expected a git repository")
	}
	if NewRunner(t.TempDir()).IsGitRepo() {
		t.Error("plain directory reported as a git repository")
	}
}
