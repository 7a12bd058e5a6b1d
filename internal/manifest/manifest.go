// Package manifest defines the branch rebuild plan: an ordered list of
// branch records, each naming its base ref, the files it removes, the
// files it writes, and its commit message. The plan is data, not code;
// a default plan is embedded and an alternative can be loaded from a
// YAML file.
package manifest

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultManifest []byte

// FileWrite is a single (path, content) pair applied to a branch's
// working tree before its commit.
type FileWrite struct {
	Path    string `yaml:"path"`
	Content string `yaml:"content"`
}

// BranchSpec describes how one branch is rebuilt.
type BranchSpec struct {
	// Name of the branch; it must already exist in the repository.
	Name string `yaml:"name"`

	// BaseRef is the ref the branch is hard-reset to before its files
	// are applied. For every branch after the first this is the previous
	// branch in the plan.
	BaseRef string `yaml:"base_ref"`

	// RemoveDirs and RemoveFiles are deleted from the working tree
	// after the reset, before any writes. Missing paths are ignored.
	RemoveDirs  []string `yaml:"remove_dirs,omitempty"`
	RemoveFiles []string `yaml:"remove_files,omitempty"`

	// Writes are applied in order after the deletions.
	Writes []FileWrite `yaml:"writes,omitempty"`

	// CommitMessage for the branch's single rebuilt commit.
	CommitMessage string `yaml:"commit_message"`

	// RestoreSnapshot marks the terminal branch: after its reset, every
	// path captured from the snapshot source is written back before the
	// commit. Exactly one branch carries this flag, and it must be last.
	RestoreSnapshot bool `yaml:"restore_snapshot,omitempty"`
}

// SnapshotSpec names the branch holding the most feature-complete tree
// and the paths to preserve from it before any reset runs.
type SnapshotSpec struct {
	SourceBranch string   `yaml:"source_branch"`
	Paths        []string `yaml:"paths"`
}

// Plan is the full rebuild manifest.
type Plan struct {
	Branches []BranchSpec `yaml:"branches"`
	Snapshot SnapshotSpec `yaml:"snapshot"`

	// FinalCheckout is the branch left checked out after the run.
	FinalCheckout string `yaml:"final_checkout"`
}

// Default returns the embedded rebuild plan.
func Default() (*Plan, error) {
	return parse(defaultManifest)
}

// Load reads a plan from a YAML file.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	plan, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return plan, nil
}

func parse(data []byte) (*Plan, error) {
	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return &plan, nil
}

// BranchNames returns the branch names in plan order.
func (p *Plan) BranchNames() []string {
	names := make([]string, len(p.Branches))
	for i, b := range p.Branches {
		names[i] = b.Name
	}
	return names
}

// Validate checks the structural invariants of the plan: branches form
// a linear progression (each base ref after the first is the previous
// branch), exactly one branch restores the snapshot and it is the last
// one, and the snapshot source matches the restoring branch.
func (p *Plan) Validate() error {
	if len(p.Branches) == 0 {
		return fmt.Errorf("manifest has no branches")
	}

	seen := make(map[string]bool)
	restoreCount := 0
	for i, b := range p.Branches {
		if b.Name == "" {
			return fmt.Errorf("branch %d has no name", i)
		}
		if seen[b.Name] {
			return fmt.Errorf("duplicate branch %s", b.Name)
		}
		seen[b.Name] = true

		if b.BaseRef == "" {
			return fmt.Errorf("branch %s has no base ref", b.Name)
		}
		if b.CommitMessage == "" {
			return fmt.Errorf("branch %s has no commit message", b.Name)
		}
		if i > 0 && b.BaseRef != p.Branches[i-1].Name {
			return fmt.Errorf("branch %s must rebase onto %s, not %s (plan is a linear progression)",
				b.Name, p.Branches[i-1].Name, b.BaseRef)
		}
		if b.RestoreSnapshot {
			restoreCount++
			if i != len(p.Branches)-1 {
				return fmt.Errorf("branch %s restores the snapshot but is not last", b.Name)
			}
		}
	}

	if restoreCount != 1 {
		return fmt.Errorf("exactly one branch must restore the snapshot, found %d", restoreCount)
	}
	if p.Snapshot.SourceBranch == "" {
		return fmt.Errorf("manifest has no snapshot source branch")
	}
	if last := p.Branches[len(p.Branches)-1]; p.Snapshot.SourceBranch != last.Name {
		return fmt.Errorf("snapshot source %s must be the restoring branch %s",
			p.Snapshot.SourceBranch, last.Name)
	}
	if len(p.Snapshot.Paths) == 0 {
		return fmt.Errorf("manifest has no snapshot paths")
	}
	if p.FinalCheckout == "" {
		return fmt.Errorf("manifest has no final checkout branch")
	}
	if !seen[p.FinalCheckout] {
		return fmt.Errorf("final checkout branch %s is not in the plan", p.FinalCheckout)
	}
	return nil
}
