package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var favCmd = &cobra.Command{
	Use:   "fav <id>",
	Short: "Toggle the favorite flag",
	Args:  cobra.ExactArgs(1),
	Run:   runFav,
}

func runFav(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	target := c.resolveSnippet(args[0])
	sn, found, err := c.Service.ToggleFavorite(context.Background(), target.ID)
	if err != nil {
		exitError("failed to update snippet: %v", err)
	}
	if !found {
		exitError("snippet not found: %s", args[0])
	}

	if sn.Favorite {
		color.New(color.FgYellow).Printf("★ ")
		fmt.Printf("%s %s is now a favorite\n", sn.ShortID(), sn.Title)
	} else {
		fmt.Printf("  %s %s is no longer a favorite\n", sn.ShortID(), sn.Title)
	}
}
