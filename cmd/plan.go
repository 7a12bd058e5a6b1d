package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/alpkeskin/gotoon"
	"github.com/spf13/cobra"
)

var (
	planJSON bool
	planToon bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the branch progression the rebuild would apply",
	Long: `Show the branch progression from the active manifest without touching
the repository.

Examples:
  restage plan
  restage plan --json
  restage plan --manifest ./rebuild.yaml`,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().BoolVar(&planJSON, "json", false, "Output as JSON")
	planCmd.Flags().BoolVar(&planToon, "toon", false, "Output as Toon (token-efficient format for agentic tools)")
}

// planBranch is the machine-readable summary of one branch record.
type planBranch struct {
	Name            string `json:"name"`
	BaseRef         string `json:"base_ref"`
	Deletions       int    `json:"deletions"`
	Writes          int    `json:"writes"`
	RestoreSnapshot bool   `json:"restore_snapshot,omitempty"`
	CommitMessage   string `json:"commit_message"`
}

type planSummary struct {
	Branches       []planBranch `json:"branches"`
	SnapshotSource string       `json:"snapshot_source"`
	SnapshotPaths  int          `json:"snapshot_paths"`
	FinalCheckout  string       `json:"final_checkout"`
}

func runPlan(cmd *cobra.Command, args []string) error {
	plan, err := loadPlan()
	if err != nil {
		return err
	}

	summary := planSummary{
		SnapshotSource: plan.Snapshot.SourceBranch,
		SnapshotPaths:  len(plan.Snapshot.Paths),
		FinalCheckout:  plan.FinalCheckout,
	}
	for _, b := range plan.Branches {
		summary.Branches = append(summary.Branches, planBranch{
			Name:            b.Name,
			BaseRef:         b.BaseRef,
			Deletions:       len(b.RemoveDirs) + len(b.RemoveFiles),
			Writes:          len(b.Writes),
			RestoreSnapshot: b.RestoreSnapshot,
			CommitMessage:   b.CommitMessage,
		})
	}

	if planJSON {
		output, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if planToon {
		output, err := gotoon.Encode(summary)
		if err != nil {
			return fmt.Errorf("failed to encode Toon: %w", err)
		}
		fmt.Println(output)
		return nil
	}

	fmt.Println("Branch progression")
	fmt.Println("━━━━━━━━━━━━━━━━━━")
	fmt.Println()
	for _, b := range summary.Branches {
		fmt.Printf("  %s\n", b.Name)
		fmt.Printf("    Base:    %s\n", b.BaseRef)
		fmt.Printf("    Changes: %d deletions, %d writes\n", b.Deletions, b.Writes)
		if b.RestoreSnapshot {
			fmt.Printf("    Restores the captured snapshot\n")
		}
		fmt.Printf("    Commit:  %s\n", b.CommitMessage)
		fmt.Println()
	}
	fmt.Printf("Snapshot: %d paths from %s\n", summary.SnapshotPaths, summary.SnapshotSource)
	fmt.Printf("Final checkout: %s\n", summary.FinalCheckout)
	return nil
}
