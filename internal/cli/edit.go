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

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a snippet",
	Long: `Edit fields of a snippet. Only the flags given are changed.

The previous title, code, description and tags are kept as a version and can
be listed with 'snip history' and brought back with 'snip restore'.

Examples:
  snip edit 3f2a --title "Better title"
  snip edit 3f2a -f new.go              Replace all code blocks
  snip edit 3f2a --tag go --tag http    Replace the tag list
  snip edit 3f2a --tag ""               Clear all tags`,
	Args: cobra.ExactArgs(1),
	Run:  runEdit,
}

var (
	editTitle    string
	editDesc     string
	editTags     []string
	editProject  string
	editFavorite bool
	editFiles    []string
	editLangs    []string
)

func init() {
	f := editCmd.Flags()
	f.StringVarP(&editTitle, "title", "t", "", "New title")
	f.StringVarP(&editDesc, "desc", "d", "", "New description")
	f.StringArrayVar(&editTags, "tag", nil, "Replace tags, repeat or comma-separate for multiple")
	f.StringVar(&editProject, "project", "", "New project")
	f.BoolVar(&editFavorite, "favorite", false, "Set the favorite flag")
	f.StringArrayVarP(&editFiles, "file", "f", nil, "Replace code blocks with these files (- for stdin)")
	f.StringArrayVar(&editLangs, "lang", nil, "Language of the matching code block")
}

func runEdit(cmd *cobra.Command, args []string) {
	flags := cmd.Flags()
	var upd models.SnippetUpdate

	if flags.Changed("title") {
		title := strings.TrimSpace(editTitle)
		if title == "" {
			exitError("title cannot be empty")
		}
		upd.Title = &title
	}
	if flags.Changed("desc") {
		upd.Description = &editDesc
	}
	if flags.Changed("tag") {
		tags := cleanTags(editTags)
		upd.Tags = &tags
	}
	if flags.Changed("project") {
		upd.Project = &editProject
	}
	if flags.Changed("favorite") {
		upd.Favorite = &editFavorite
	}
	if flags.Changed("file") {
		blocks, err := readCodeBlocks(editFiles, editLangs, os.Stdin, false)
		if err != nil {
			exitError("%v", err)
		}
		upd.CodeBlocks = &blocks
	}
	if upd.IsEmpty() {
		exitError("nothing to change; pass at least one of --title, --desc, --tag, --project, --favorite, --file")
	}

	c := initContext()
	defer c.Close()

	target := c.resolveSnippet(args[0])
	sn, found, err := c.Service.Update(context.Background(), target.ID, upd)
	if err != nil {
		exitError("failed to update snippet: %v", err)
	}
	if !found {
		exitError("snippet not found: %s", args[0])
	}

	color.New(color.FgGreen).Printf("Updated ")
	fmt.Printf("%s %s (%d version(s))\n", color.YellowString(sn.ShortID()), sn.Title, len(sn.Versions))
}
