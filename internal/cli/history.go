package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/kilupskalvis/snip/internal/models"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:     "history <id>",
	Aliases: []string{"log"},
	Short:   "Show the version history of a snippet",
	Long: `List the saved versions of a snippet, newest first. Each version holds
the title, code, description and tags as they were before an edit.`,
	Args: cobra.ExactArgs(1),
	Run:  runHistory,
}

var (
	historyOneline bool
	historyJSON    bool
)

func init() {
	historyCmd.Flags().BoolVar(&historyOneline, "oneline", false, "Show each version on a single line")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Output versions as JSON")
}

func runHistory(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	sn := c.resolveSnippet(args[0])
	if historyJSON {
		printJSON(sn.Versions)
		return
	}

	if len(sn.Versions) == 0 {
		fmt.Printf("%s %s has no earlier versions\n", sn.ShortID(), sn.Title)
		return
	}

	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	for i := len(sn.Versions) - 1; i >= 0; i-- {
		v := &sn.Versions[i]
		if historyOneline {
			yellow.Printf("%s ", v.ShortID())
			fmt.Printf("%-16s %s\n", relativeTime(v.Timestamp), v.Title)
			continue
		}

		yellow.Printf("version %s", v.ID)
		if i == len(sn.Versions)-1 {
			cyan.Print(" (latest)")
		}
		fmt.Println()
		fmt.Printf("Date:   %s\n", formatTime(v.Timestamp))
		fmt.Printf("\n    %s\n", v.Title)
		fmt.Printf("    (%d block(s)%s)\n\n", len(v.CodeBlocks), tagSuffix(v))
	}
}

func tagSuffix(v *models.SnippetVersion) string {
	if len(v.Tags) == 0 {
		return ""
	}
	return fmt.Sprintf(", %d tag(s)", len(v.Tags))
}
