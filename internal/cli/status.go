package cli

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the workspace status",
	Long: `Show where the workspace lives, which backend it uses, how many snippets,
tags and languages it holds, and when the last backup was taken.`,
	Run: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	snippets := c.Service.Snippets()
	favorites := 0
	gaps := false
	for i := range snippets {
		if snippets[i].Favorite {
			favorites++
		}
		if snippets[i].Order != i {
			gaps = true
		}
	}

	fmt.Printf("Workspace: %s\n", c.Config.SnipPath())
	fmt.Printf("Backend:   %s\n", c.Config.Backend)
	fmt.Printf("Snippets:  %d (%d favorite)\n", len(snippets), favorites)
	fmt.Printf("Tags:      %d\n", len(c.Service.AllTags()))
	fmt.Printf("Languages: %d\n", len(c.Service.AllLanguages()))

	entries, err := c.openArchive().List(context.Background())
	if err != nil {
		exitError("failed to list backups: %v", err)
	}
	if len(entries) == 0 {
		fmt.Println("Backups:   none")
	} else {
		fmt.Printf("Backups:   %d, latest %s (%s)\n",
			len(entries), color.YellowString(entries[0].ShortHash()), humanize.Time(entries[0].CreatedAt))
	}

	if gaps {
		color.New(color.FgYellow).Println("\nOrder has gaps or duplicates; run 'snip repair' to renumber.")
	}
}
