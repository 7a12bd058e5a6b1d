package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/alpkeskin/gotoon"
	"github.com/nmkale/restage/internal/config"
	"github.com/nmkale/restage/internal/git"
	"github.com/spf13/cobra"
)

var (
	checkJSON bool
	checkToon bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the repository is ready for a rebuild",
	Long: `Verify the repository against the active manifest without changing
anything: every branch in the plan must exist, and the snapshot source
branch is inspected for which preserved paths it actually holds.

A missing snapshot path is reported but does not fail the check; the
rebuild restores whatever subset is present.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Output as JSON")
	checkCmd.Flags().BoolVar(&checkToon, "toon", false, "Output as Toon (token-efficient format for agentic tools)")
}

type checkReport struct {
	Repo            string   `json:"repo"`
	MissingBranches []string `json:"missing_branches,omitempty"`
	SnapshotSource  string   `json:"snapshot_source"`
	PresentPaths    []string `json:"present_paths"`
	MissingPaths    []string `json:"missing_paths,omitempty"`
	Ready           bool     `json:"ready"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	plan, err := loadPlan()
	if err != nil {
		return err
	}

	root := config.GetRepoRoot()
	runner := git.NewRunner(root)
	if !runner.IsGitRepo() {
		return fmt.Errorf("not a git repository: %s", root)
	}

	report := checkReport{
		Repo:           root,
		SnapshotSource: plan.Snapshot.SourceBranch,
	}
	for _, b := range plan.Branches {
		if !runner.BranchExists(b.Name) {
			report.MissingBranches = append(report.MissingBranches, b.Name)
		}
	}

	// Read the snapshot paths from the source branch's committed tree
	// instead of checking it out, so the check stays read-only.
	for _, rel := range plan.Snapshot.Paths {
		if _, err := runner.Run("cat-file", "-e", plan.Snapshot.SourceBranch+":"+rel); err != nil {
			report.MissingPaths = append(report.MissingPaths, rel)
		} else {
			report.PresentPaths = append(report.PresentPaths, rel)
		}
	}

	report.Ready = len(report.MissingBranches) == 0

	if checkJSON {
		output, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
	} else if checkToon {
		output, err := gotoon.Encode(report)
		if err != nil {
			return fmt.Errorf("failed to encode Toon: %w", err)
		}
		fmt.Println(output)
	} else {
		fmt.Printf("Repository: %s\n\n", report.Repo)
		if len(report.MissingBranches) > 0 {
			fmt.Printf("Missing branches (%d):\n", len(report.MissingBranches))
			for _, b := range report.MissingBranches {
				fmt.Printf("  ✗ %s\n", b)
			}
		} else {
			fmt.Printf("All %d branches exist\n", len(plan.Branches))
		}
		fmt.Printf("\nSnapshot source %s holds %d of %d preserved paths\n",
			report.SnapshotSource, len(report.PresentPaths), len(plan.Snapshot.Paths))
		for _, rel := range report.MissingPaths {
			fmt.Printf("  ✗ %s\n", rel)
		}
		fmt.Println()
		if report.Ready {
			fmt.Println("✓ Ready to rebuild")
		} else {
			fmt.Println("✗ Not ready: create the missing branches first")
		}
	}

	if !report.Ready {
		return fmt.Errorf("repository is not ready for a rebuild")
	}
	return nil
}
