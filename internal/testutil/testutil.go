package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// TempGitRepo is a throwaway git repository for testing.
type TempGitRepo struct {
	Path string
	T    *testing.T
}

// NewTempGitRepo creates a temporary git repository with an initial
// commit on main.
func NewTempGitRepo(t *testing.T) *TempGitRepo {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "restage-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	r := &TempGitRepo{Path: tmpDir, T: t}

	r.Git("init", "-b", "main")
	r.Git("config", "user.name", "Test User")
	r.Git("config", "user.email", "test@example.com")

	r.CreateFile("README.md", "# Test Repository\n")
	r.Commit("Initial commit")

	return r
}

// Cleanup removes the temporary git repository.
func (r *TempGitRepo) Cleanup() {
	r.T.Helper()
	if err := os.RemoveAll(r.Path); err != nil {
		r.T.Errorf("failed to cleanup temp repo: %v", err)
	}
}

// Git runs a git command in the repository and fails the test on error.
func (r *TempGitRepo) Git(args ...string) string {
	r.T.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = r.Path
	output, err := cmd.CombinedOutput()
	if err != nil {
		r.T.Fatalf("git %v failed: %v\n%s", args, err, output)
	}
	return strings.TrimSpace(string(output))
}

// CreateFile creates a file in the repository's working tree.
func (r *TempGitRepo) CreateFile(name, content string) {
	r.T.Helper()
	path := filepath.Join(r.Path, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		r.T.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		r.T.Fatalf("failed to create file: %v", err)
	}
}

// Commit stages and commits all changes.
func (r *TempGitRepo) Commit(message string) {
	r.T.Helper()
	r.Git("add", "-A")
	r.Git("commit", "-m", message)
}

// CreateBranch creates a branch pointing at the current HEAD.
func (r *TempGitRepo) CreateBranch(branch string) {
	r.T.Helper()
	r.Git("branch", branch)
}

// Checkout switches to a branch.
func (r *TempGitRepo) Checkout(branch string) {
	r.T.Helper()
	r.Git("checkout", branch)
}

// CurrentBranch returns the checked-out branch name.
func (r *TempGitRepo) CurrentBranch() string {
	r.T.Helper()
	return r.Git("rev-parse", "--abbrev-ref", "HEAD")
}

// RevParse resolves a ref to its commit hash.
func (r *TempGitRepo) RevParse(ref string) string {
	r.T.Helper()
	return r.Git("rev-parse", ref)
}

// BranchExists checks if a ref resolves.
func (r *TempGitRepo) BranchExists(branch string) bool {
	r.T.Helper()
	cmd := exec.Command("git", "rev-parse", "--verify", branch)
	cmd.Dir = r.Path
	return cmd.Run() == nil
}

// Files returns the sorted list of paths in a branch's tip tree.
func (r *TempGitRepo) Files(branch string) []string {
	r.T.Helper()
	out := r.Git("ls-tree", "-r", "--name-only", branch)
	var files []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			files = append(files, line)
		}
	}
	return files
}

// FileExists checks if a file exists in a branch's tip tree.
func (r *TempGitRepo) FileExists(branch, file string) bool {
	r.T.Helper()
	for _, f := range r.Files(branch) {
		if f == file {
			return true
		}
	}
	return false
}

// GetFileContent reads a file from a branch's tip tree, byte for byte.
func (r *TempGitRepo) GetFileContent(branch, file string) string {
	r.T.Helper()
	cmd := exec.Command("git", "show", branch+":"+file)
	cmd.Dir = r.Path
	output, err := cmd.Output()
	if err != nil {
		r.T.Fatalf("failed to read %s from %s: %v", file, branch, err)
	}
	return string(output)
}
