package cli

import (
	"fmt"

	"github.com/kilupskalvis/snip/internal/core"
	"github.com/kilupskalvis/snip/internal/models"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List snippets",
	Long: `List snippets in manual order, optionally filtered.

--lang matches snippets having any of the given languages. --tag matches only
snippets having all of the given tags. --search is a case-insensitive
substring match over title, description, tags and code.

--where takes an expression over the fields id, title, description, tags,
language, favorite, project, code, blocks, versions, order, created and
updated.

Examples:
  snip list --lang Go --lang Rust
  snip list --tag http --tag retry --favorites
  snip list -s "context.WithTimeout"
  snip list --where 'versions > 3 && "go" in tags'
  snip list --where 'updated > now() - duration("72h")'`,
	Args: cobra.NoArgs,
	Run:  runList,
}

var (
	listSearch    string
	listLangs     []string
	listTags      []string
	listFavorites bool
	listWhere     string
	listJSON      bool
	listToon      bool
	listLimit     int
)

func init() {
	f := listCmd.Flags()
	f.StringVarP(&listSearch, "search", "s", "", "Case-insensitive text search")
	f.StringArrayVar(&listLangs, "lang", nil, "Only snippets in any of these languages")
	f.StringArrayVar(&listTags, "tag", nil, "Only snippets with all of these tags")
	f.BoolVar(&listFavorites, "favorites", false, "Only favorites")
	f.StringVar(&listWhere, "where", "", "Filter expression")
	f.BoolVar(&listJSON, "json", false, "Output full records as JSON")
	f.BoolVar(&listToon, "toon", false, "Output in LLM-friendly toon format")
	f.IntVarP(&listLimit, "n", "n", 0, "Limit the number of snippets shown")
}

func runList(cmd *cobra.Command, args []string) {
	var query *core.Query
	if listWhere != "" {
		q, err := core.CompileQuery(listWhere)
		if err != nil {
			exitError("%v", err)
		}
		query = q
	}

	c := initContext()
	defer c.Close()

	tags := cleanTags(listTags)
	c.Service.SetFilters(models.FiltersPatch{
		Search:        &listSearch,
		Languages:     &listLangs,
		Tags:          &tags,
		FavoritesOnly: &listFavorites,
	})

	snippets := c.Service.Filtered()
	if query != nil {
		selected, err := query.Select(snippets)
		if err != nil {
			exitError("%v", err)
		}
		snippets = selected
	}
	if listLimit > 0 && len(snippets) > listLimit {
		snippets = snippets[:listLimit]
	}

	switch {
	case listJSON:
		printJSON(snippets)
		return
	case listToon:
		printToon(summarize(snippets))
		return
	}

	if len(snippets) == 0 {
		if c.Service.HasActiveFilters() || query != nil {
			fmt.Println("No snippets match")
		} else {
			fmt.Println("No snippets yet")
		}
		return
	}

	for i := range snippets {
		printSnippetLine(&snippets[i])
	}
}
