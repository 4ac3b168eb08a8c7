package cli

import (
	"fmt"
	"sort"

	"github.com/kilupskalvis/snip/internal/models"
	"github.com/spf13/cobra"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List tags with usage counts",
	Args:  cobra.NoArgs,
	Run:   runTags,
}

var langsCmd = &cobra.Command{
	Use:     "langs",
	Aliases: []string{"languages"},
	Short:   "List languages with usage counts",
	Args:    cobra.NoArgs,
	Run:     runLangs,
}

var (
	countsJSON bool
	countsToon bool
)

func init() {
	for _, cmd := range []*cobra.Command{tagsCmd, langsCmd} {
		cmd.Flags().BoolVar(&countsJSON, "json", false, "Output as JSON")
		cmd.Flags().BoolVar(&countsToon, "toon", false, "Output in LLM-friendly toon format")
	}
}

type usageCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func runTags(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	printCounts("tag", c.Service.AllTags(), c.Service.Snippets(), func(sn *models.Snippet) []string {
		return sn.Tags
	})
}

func runLangs(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	printCounts("language", c.Service.AllLanguages(), c.Service.Snippets(), func(sn *models.Snippet) []string {
		return uniqueStrings(sn.Language)
	})
}

// printCounts prints how many snippets use each name, most used first.
func printCounts(kind string, names []string, snippets []models.Snippet, values func(*models.Snippet) []string) {
	counts := make(map[string]int, len(names))
	for i := range snippets {
		for _, v := range values(&snippets[i]) {
			counts[v]++
		}
	}

	rows := make([]usageCount, 0, len(names))
	for _, name := range names {
		rows = append(rows, usageCount{Name: name, Count: counts[name]})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Count > rows[j].Count
	})

	switch {
	case countsJSON:
		printJSON(rows)
		return
	case countsToon:
		printToon(rows)
		return
	}

	if len(rows) == 0 {
		fmt.Printf("No %ss found\n", kind)
		return
	}

	fmt.Printf("Found %d %s(s):\n\n", len(rows), kind)
	for _, r := range rows {
		fmt.Printf("  %-30s %3d\n", r.Name, r.Count)
	}
}
