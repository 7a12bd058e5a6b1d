package snapshot

import (
	"testing"

	"github.com/nmkale/restage/internal/fsops"
	"github.com/nmkale/restage/internal/git"
	"github.com/nmkale/restage/internal/testutil"
)

func TestCaptureReadsPresentPaths(t *testing.T) {
	repo := testutil.NewTempGitRepo(t)
	defer repo.Cleanup()

	repo.CreateBranch("full")
	repo.Checkout("full")
	repo.CreateFile("src/api/gemini.js", "export const ask = () => {};\n")
	repo.CreateFile("app/chat.js", "export default function Chat() {}\n")
	repo.Commit("full app")
	repo.Checkout("main")

	p := NewPreserver(git.NewRunner(repo.Path), fsops.NewOS(repo.Path))

	saved, missing, err := p.Capture("full", []string{
		"src/api/gemini.js",
		"app/chat.js",
		"src/services/ghost.js",
	})
	if err != nil {
		t.Fatalf("capture failed: %v", err)
	}

	if len(saved) != 2 {
		t.Fatalf("expected 2 captured files, got %d", len(saved))
	}
	if saved["src/api/gemini.js"] != "export const ask = () => {};\n" {
		t.Errorf("unexpected content: %q", saved["src/api/gemini.js"])
	}
	if len(missing) != 1 || missing[0] != "src/services/ghost.js" {
		t.Errorf("expected ghost.js reported missing, got %v", missing)
	}
}

func TestCaptureLeavesSourceBranchCheckedOut(t *testing.T) {
	repo := testutil.NewTempGitRepo(t)
	defer repo.Cleanup()

	repo.CreateBranch("full")
	repo.Checkout("main")

	p := NewPreserver(git.NewRunner(repo.Path), fsops.NewOS(repo.Path))
	if _, _, err := p.Capture("full", []string{"README.md"}); err != nil {
		t.Fatalf("capture failed: %v", err)
	}

	if branch := repo.CurrentBranch(); branch != "full" {
		t.Errorf("expected to be on full after capture, got %s", branch)
	}
}

func TestCaptureMissingSourceBranchFails(t *testing.T) {
	repo := testutil.NewTempGitRepo(t)
	defer repo.Cleanup()

	p := NewPreserver(git.NewRunner(repo.Path), fsops.NewOS(repo.Path))
	if _, _, err := p.Capture("no-such-branch", []string{"README.md"}); err == nil {
		t.Fatal("expected error for missing source branch")
	}
}

func TestCaptureExactSubset(t *testing.T) {
	repo := testutil.NewTempGitRepo(t)
	defer repo.Cleanup()

	repo.CreateFile("present.txt", "here\n")
	repo.Commit("add present")

	p := NewPreserver(git.NewRunner(repo.Path), fsops.NewOS(repo.Path))
	saved, _, err := p.Capture("main", []string{"present.txt", "absent.txt"})
	if err != nil {
		t.Fatalf("capture failed: %v", err)
	}

	if _, ok := saved["absent.txt"]; ok {
		t.Error("absent path must not appear in the capture")
	}
	if _, ok := saved["present.txt"]; !ok {
		t.Error("present path missing from the capture")
	}
}
