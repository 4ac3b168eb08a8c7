package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kilupskalvis/snip/internal/models"
	"github.com/spf13/cobra"
)

var moveCmd = &cobra.Command{
	Use:   "move <id> <position>",
	Short: "Move a snippet to a new position",
	Long: `Move a snippet to a position in the manual order. Positions start at 0;
anything past the end moves the snippet to the end.

Examples:
  snip move 3f2a 0     Move to the top
  snip move 3f2a 99    Move to the bottom`,
	Args: cobra.ExactArgs(2),
	Run:  runMove,
}

func runMove(cmd *cobra.Command, args []string) {
	pos, err := strconv.Atoi(args[1])
	if err != nil || pos < 0 {
		exitError("invalid position %q", args[1])
	}

	c := initContext()
	defer c.Close()

	target := c.resolveSnippet(args[0])
	ids := moveID(c.Service.Snippets(), target.ID, pos)
	if err := c.Service.Reorder(context.Background(), ids); err != nil {
		exitError("failed to reorder: %v", err)
	}

	moved, _ := c.Service.Get(target.ID)
	fmt.Printf("Moved %s %s to position %d\n", moved.ShortID(), moved.Title, moved.Order)
}

// moveID returns the ids of list in display order with id moved to pos.
func moveID(list []models.Snippet, id string, pos int) []string {
	ids := make([]string, 0, len(list))
	for _, sn := range list {
		if sn.ID != id {
			ids = append(ids, sn.ID)
		}
	}
	if pos > len(ids) {
		pos = len(ids)
	}
	ids = append(ids, "")
	copy(ids[pos+1:], ids[pos:])
	ids[pos] = id
	return ids
}
