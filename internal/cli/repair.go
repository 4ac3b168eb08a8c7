package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Renumber the manual order",
	Long: `Rewrite the manual order as 0..N-1 following the current display order.
Safe to run at any time; use it if an interrupted delete left gaps.`,
	Args: cobra.NoArgs,
	Run:  runRepair,
}

func runRepair(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	if err := c.Service.Renumber(context.Background()); err != nil {
		exitError("failed to renumber: %v", err)
	}
	fmt.Printf("Renumbered %d snippet(s)\n", len(c.Service.Snippets()))
}
