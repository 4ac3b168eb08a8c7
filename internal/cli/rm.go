package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:     "rm <id>...",
	Aliases: []string{"delete"},
	Short:   "Delete snippets",
	Long: `Delete snippets permanently. The remaining snippets keep their
relative order.`,
	Args: cobra.MinimumNArgs(1),
	Run:  runRm,
}

func runRm(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	c := initContext()
	defer c.Close()

	// Resolve everything first so a bad id deletes nothing
	var ids []string
	var titles []string
	for _, ref := range args {
		sn := c.resolveSnippet(ref)
		ids = append(ids, sn.ID)
		titles = append(titles, sn.Title)
	}

	red := color.New(color.FgRed)
	for i, id := range ids {
		found, err := c.Service.Delete(ctx, id)
		if err != nil {
			exitError("failed to delete %s: %v", shortID(id), err)
		}
		if !found {
			continue
		}
		red.Printf("Deleted ")
		fmt.Printf("%s %s\n", color.YellowString(shortID(id)), titles[i])
	}
}
