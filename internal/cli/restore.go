package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/kilupskalvis/snip/internal/core"
	"github.com/spf13/cobra"
)

var restoreCmd = &cobra.Command{
	Use:   "restore <id> <version>",
	Short: "Restore a snippet to an earlier version",
	Long: `Copy the title, code, description and tags of an earlier version back
onto the snippet. The state being replaced is saved as a new version, so a
restore can itself be undone.`,
	Args: cobra.ExactArgs(2),
	Run:  runRestore,
}

func runRestore(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	sn := c.resolveSnippet(args[0])
	v, err := core.ResolveVersion(&sn, args[1])
	if err != nil {
		exitError("%v", err)
	}

	restored, found, err := c.Service.RestoreVersion(context.Background(), sn.ID, v.ID)
	if err != nil {
		exitError("failed to restore: %v", err)
	}
	if !found {
		exitError("version %s of %s not found", args[1], sn.ShortID())
	}

	color.New(color.FgGreen).Printf("Restored ")
	fmt.Printf("%s to version %s (%s)\n", restored.ShortID(), v.ShortID(), relativeTime(v.Timestamp))
}
