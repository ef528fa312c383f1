package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/branch-pulse/internal/cli"
	"github.com/branch-pulse/internal/config"
	"github.com/branch-pulse/internal/csvio"
)

func branchesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "branches",
		Short: "Branch list utilities",
	}
	cmd.AddCommand(branchesCleanCmd())
	return cmd
}

func branchesCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean <branches.csv>",
		Short: "Deduplicate a branch list",
		Long: `Removes duplicate branch rows sharing the same name and address, keeping
the most complete row for each. Rows at different addresses stay distinct.`,
		Args: cobra.ExactArgs(1),
		RunE: runBranchesClean,
	}
	cmd.Flags().String("output", "", "write result here instead of overwriting the input")
	return cmd
}

func runBranchesClean(cmd *cobra.Command, args []string) error {
	input := config.ExpandPath(args[0])
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = input
	} else {
		output = config.ExpandPath(output)
	}

	branches, err := csvio.LoadBranches(input)
	if err != nil {
		return fmt.Errorf("failed to load branches: %w", err)
	}

	cleaned := csvio.CleanBranches(branches)
	if err := csvio.WriteBranches(output, cleaned); err != nil {
		return fmt.Errorf("failed to write branches: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Kept %d of %d branches (%d duplicates removed)",
		len(cleaned), len(branches), len(branches)-len(cleaned))))
	return nil
}
