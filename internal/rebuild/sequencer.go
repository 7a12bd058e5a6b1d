package rebuild

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/nmkale/restage/internal/fsops"
	"github.com/nmkale/restage/internal/git"
	"github.com/nmkale/restage/internal/manifest"
	"github.com/nmkale/restage/internal/snapshot"
)

// Sequencer drives the full rebuild: snapshot capture first, then each
// branch in plan order, then the final checkout. Processing is strictly
// sequential; rebuilding a branch requires the previous branch's
// committed state as its reset target.
//
// On failure the sequencer halts where it is. There is no rollback;
// re-running from the start is the recovery path, and is safe because
// every rebuild begins with a hard reset.
type Sequencer struct {
	git  *git.Runner
	fs   *fsops.Ops
	plan *manifest.Plan
	out  io.Writer
}

// NewSequencer returns a Sequencer for the given plan.
func NewSequencer(g *git.Runner, fs *fsops.Ops, plan *manifest.Plan, out io.Writer) *Sequencer {
	return &Sequencer{git: g, fs: fs, plan: plan, out: out}
}

// Run executes the whole rebuild sequence.
func (s *Sequencer) Run() error {
	if !s.git.IsGitRepo() {
		return fmt.Errorf("not a git repository: %s", s.git.Dir)
	}
	for _, b := range s.plan.Branches {
		if !s.git.BranchExists(b.Name) {
			return fmt.Errorf("branch %s does not exist (restage rewrites branches, it does not create them)", b.Name)
		}
	}

	// Leftover stash entries from earlier interrupted runs are noise;
	// dropping one that does not exist is fine.
	s.git.StashDrop()

	// Capture must precede the first reset: the source branch's working
	// tree is the only place the advanced files exist at full fidelity.
	preserver := snapshot.NewPreserver(s.git, s.fs)
	saved, missing, err := preserver.Capture(s.plan.Snapshot.SourceBranch, s.plan.Snapshot.Paths)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Saved %d full-app files from %s\n", len(saved), s.plan.Snapshot.SourceBranch)
	if len(missing) > 0 {
		sort.Strings(missing)
		fmt.Fprintf(s.out, "Warning: %d snapshot paths are missing on %s and will not be restored:\n",
			len(missing), s.plan.Snapshot.SourceBranch)
		for _, rel := range missing {
			fmt.Fprintf(s.out, "  - %s\n", rel)
		}
	}

	rebuilder := NewRebuilder(s.git, s.fs, s.out)
	for _, spec := range s.plan.Branches {
		var extra map[string]string
		if spec.RestoreSnapshot {
			extra = saved
		}
		if err := rebuilder.Rebuild(spec, extra); err != nil {
			return fmt.Errorf("rebuild of %s failed: %w", spec.Name, err)
		}
	}

	if err := s.git.Checkout(s.plan.FinalCheckout); err != nil {
		return err
	}

	fmt.Fprintf(s.out, "\n✓ All branches rebuilt.\n\n")
	fmt.Fprintf(s.out, "Run this to force-push all branches:\n")
	fmt.Fprintf(s.out, "  git push origin %s --force\n", strings.Join(s.plan.BranchNames(), " "))
	return nil
}
