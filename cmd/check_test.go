package cmd

import (
	"testing"

	"github.com/nmkale/restage/internal/testutil"
	"github.com/spf13/viper"
)

func TestCheckReadyRepo(t *testing.T) {
	repo := setupDefaultPlanRepo(t)
	defer repo.Cleanup()

	viper.Set("repo.root", repo.Path)
	viper.Set("manifest.path", "")
	defer viper.Reset()

	if err := runCheck(nil, nil); err != nil {
		t.Fatalf("check failed on a ready repository: %v", err)
	}

	// check is read-only: still on main, nothing committed.
	if branch := repo.CurrentBranch(); branch != "main" {
		t.Errorf("check changed the checked-out branch to %s", branch)
	}
}

func TestCheckMissingBranches(t *testing.T) {
	repo := testutil.NewTempGitRepo(t)
	defer repo.Cleanup()

	viper.Set("repo.root", repo.Path)
	viper.Set("manifest.path", "")
	defer viper.Reset()

	if err := runCheck(nil, nil); err == nil {
		t.Fatal("expected check to fail when plan branches are missing")
	}
}

func TestCheckNotARepo(t *testing.T) {
	viper.Set("repo.root", t.TempDir())
	viper.Set("manifest.path", "")
	defer viper.Reset()

	if err := runCheck(nil, nil); err == nil {
		t.Fatal("expected check to fail outside a git repository")
	}
}
