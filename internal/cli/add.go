package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/kilupskalvis/snip/internal/models"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new snippet",
	Long: `Add a new snippet at the end of the list.

Each --file becomes one code block. Without --file, code is read from stdin
when it is piped in. --lang sets the language of the matching block and
otherwise the extension decides.

Examples:
  snip add --title "HTTP GET" -f get.go --tag http --tag go
  snip add --title "Retry loop" -f retry.py -f retry.go
  pbpaste | snip add --title "Scratch" --lang Bash
  snip add --title "Notes only" --desc "remember to vacuum"`,
	Args: cobra.NoArgs,
	Run:  runAdd,
}

var (
	addTitle    string
	addDesc     string
	addTags     []string
	addProject  string
	addFavorite bool
	addFiles    []string
	addLangs    []string
)

func init() {
	f := addCmd.Flags()
	f.StringVarP(&addTitle, "title", "t", "", "Snippet title (required)")
	f.StringVarP(&addDesc, "desc", "d", "", "Description or notes")
	f.StringArrayVar(&addTags, "tag", nil, "Tag, repeat or comma-separate for multiple")
	f.StringVar(&addProject, "project", "", "Project the snippet belongs to")
	f.BoolVar(&addFavorite, "favorite", false, "Mark as favorite")
	f.StringArrayVarP(&addFiles, "file", "f", nil, "File holding a code block, repeat for multiple (- for stdin)")
	f.StringArrayVar(&addLangs, "lang", nil, "Language of the matching code block")
}

func runAdd(cmd *cobra.Command, args []string) {
	if strings.TrimSpace(addTitle) == "" {
		exitError("a title is required (--title)")
	}

	blocks, err := readCodeBlocks(addFiles, addLangs, os.Stdin, stdinIsPipe())
	if err != nil {
		exitError("%v", err)
	}

	c := initContext()
	defer c.Close()

	sn, err := c.Service.Add(context.Background(), models.SnippetInput{
		Title:       strings.TrimSpace(addTitle),
		CodeBlocks:  blocks,
		Description: addDesc,
		Tags:        cleanTags(addTags),
		Favorite:    addFavorite,
		Project:     addProject,
	})
	if err != nil {
		exitError("failed to add snippet: %v", err)
	}

	green := color.New(color.FgGreen)
	green.Printf("Added ")
	fmt.Printf("%s %s", color.YellowString(sn.ShortID()), sn.Title)
	if len(sn.CodeBlocks) > 0 {
		fmt.Printf(" (%d block(s): %s)", len(sn.CodeBlocks), strings.Join(uniqueStrings(sn.Language), ", "))
	}
	fmt.Println()
}
