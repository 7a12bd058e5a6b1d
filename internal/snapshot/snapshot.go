// Package snapshot preserves the most feature-complete branch's files
// in memory before the rebuild destroys them. Hard resets are the only
// mutation the rebuild performs, so the source branch's working tree is
// the single source of these files; capture must run before the first
// reset of any branch.
package snapshot

import (
	"fmt"

	"github.com/nmkale/restage/internal/fsops"
	"github.com/nmkale/restage/internal/git"
)

// Preserver captures file contents from a branch's working tree.
type Preserver struct {
	git *git.Runner
	fs  *fsops.Ops
}

// NewPreserver returns a Preserver over the given git runner and
// filesystem operations.
func NewPreserver(g *git.Runner, fs *fsops.Ops) *Preserver {
	return &Preserver{git: g, fs: fs}
}

// Capture checks out sourceBranch and reads every path in paths.
// The returned map holds exactly the subset of paths present on the
// branch; paths absent at capture time are returned in missing so the
// caller can surface the gap. A missing path is not an error, since a
// partially rebuilt repository may legitimately lack some of them.
func (p *Preserver) Capture(sourceBranch string, paths []string) (map[string]string, []string, error) {
	if err := p.git.Checkout(sourceBranch); err != nil {
		return nil, nil, fmt.Errorf("failed to checkout snapshot source: %w", err)
	}

	saved := make(map[string]string)
	var missing []string
	for _, rel := range paths {
		content, ok, err := p.fs.Read(rel)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to capture %s: %w", rel, err)
		}
		if !ok {
			missing = append(missing, rel)
			continue
		}
		saved[rel] = content
	}
	return saved, missing, nil
}
