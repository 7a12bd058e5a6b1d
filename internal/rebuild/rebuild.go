// Package rebuild rewrites each branch in a plan so its tree reflects
// one incremental feature stage: checkout, hard-reset to the previous
// stage, delete superseded files, write this stage's files, commit.
package rebuild

import (
	"fmt"
	"io"

	"github.com/nmkale/restage/internal/fsops"
	"github.com/nmkale/restage/internal/git"
	"github.com/nmkale/restage/internal/manifest"
)

// Rebuilder rewrites a single branch to its staged file set.
type Rebuilder struct {
	git *git.Runner
	fs  *fsops.Ops
	out io.Writer
}

// NewRebuilder returns a Rebuilder over the given git runner and
// filesystem operations. Progress is written to out.
func NewRebuilder(g *git.Runner, fs *fsops.Ops, out io.Writer) *Rebuilder {
	return &Rebuilder{git: g, fs: fs, out: out}
}

// Rebuild rewrites one branch. The branch must exist; its history
// unique to the branch is discarded by the hard reset. Extra holds
// paths written after the branch's own writes; the terminal branch uses
// it to restore the preserved snapshot files. Any git failure aborts
// immediately, since a partially rebuilt branch would corrupt the base
// for the next branch in the progression.
func (r *Rebuilder) Rebuild(spec manifest.BranchSpec, extra map[string]string) error {
	fmt.Fprintf(r.out, "\n== Rebuilding: %s ==\n", spec.Name)

	if err := r.git.Checkout(spec.Name); err != nil {
		return err
	}
	if err := r.git.ResetHard(spec.BaseRef); err != nil {
		return err
	}

	for _, dir := range spec.RemoveDirs {
		if err := r.fs.RemoveDir(dir); err != nil {
			return err
		}
	}
	for _, file := range spec.RemoveFiles {
		if err := r.fs.Remove(file); err != nil {
			return err
		}
	}
	for _, w := range spec.Writes {
		if err := r.fs.Write(w.Path, w.Content); err != nil {
			return err
		}
	}
	for rel, content := range extra {
		if err := r.fs.Write(rel, content); err != nil {
			return err
		}
	}

	if err := r.git.AddAll(); err != nil {
		return err
	}

	staged, err := r.git.HasStagedChanges()
	if err != nil {
		return err
	}
	if !staged {
		// The branch already matches its staged file set; committing
		// would fail with "nothing to commit".
		fmt.Fprintf(r.out, "  nothing to commit on %s, leaving it at %s\n", spec.Name, spec.BaseRef)
		return nil
	}

	if err := r.git.Commit(spec.CommitMessage); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "  ✓ %s rebuilt\n", spec.Name)
	return nil
}
