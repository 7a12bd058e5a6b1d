package cmd

import (
	"fmt"
	"os"

	"github.com/nmkale/restage/internal/config"
	"github.com/nmkale/restage/internal/fsops"
	"github.com/nmkale/restage/internal/git"
	"github.com/nmkale/restage/internal/manifest"
	"github.com/nmkale/restage/internal/rebuild"
	"github.com/spf13/cobra"
)

var runDryRun bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Rebuild every branch in the plan",
	Long: `Rebuild every branch in the plan, in order.

The files unique to the final branch are captured first, before any
reset can destroy them. Then each branch is checked out, hard-reset to
its base, given its file set, and committed. The final branch gets the
captured files written back before its commit. On success the working
tree is returned to the plan's final checkout branch.

Any failing git command halts the run immediately where it is; there is
no rollback. Re-run from the start to recover.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Print the rebuild steps without touching the repository")
}

// loadPlan resolves the rebuild plan: an explicit manifest file when
// configured, the embedded default otherwise.
func loadPlan() (*manifest.Plan, error) {
	if path := config.GetManifestPath(); path != "" {
		return manifest.Load(path)
	}
	return manifest.Default()
}

func runRun(cmd *cobra.Command, args []string) error {
	plan, err := loadPlan()
	if err != nil {
		return err
	}

	if runDryRun {
		printDryRun(plan)
		return nil
	}

	root := config.GetRepoRoot()
	runner := git.NewRunner(root)
	fs := fsops.NewOS(root)

	seq := rebuild.NewSequencer(runner, fs, plan, os.Stdout)
	return seq.Run()
}

func printDryRun(plan *manifest.Plan) {
	fmt.Printf("Would capture %d paths from %s\n", len(plan.Snapshot.Paths), plan.Snapshot.SourceBranch)
	for _, b := range plan.Branches {
		fmt.Printf("\n== %s ==\n", b.Name)
		fmt.Printf("  checkout %s\n", b.Name)
		fmt.Printf("  reset --hard %s\n", b.BaseRef)
		for _, dir := range b.RemoveDirs {
			fmt.Printf("  remove dir %s\n", dir)
		}
		for _, file := range b.RemoveFiles {
			fmt.Printf("  remove %s\n", file)
		}
		for _, w := range b.Writes {
			fmt.Printf("  write %s (%d bytes)\n", w.Path, len(w.Content))
		}
		if b.RestoreSnapshot {
			fmt.Printf("  restore captured snapshot paths\n")
		}
		fmt.Printf("  commit %q\n", b.CommitMessage)
	}
	fmt.Printf("\nWould checkout %s\n", plan.FinalCheckout)
}
