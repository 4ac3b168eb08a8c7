package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show snippet details",
	Long:  `Show a snippet with its description and all code blocks.`,
	Args:  cobra.ExactArgs(1),
	Run:   runShow,
}

var showJSON bool

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output the full record as JSON")
}

func runShow(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	sn := c.resolveSnippet(args[0])
	if showJSON {
		printJSON(sn)
		return
	}

	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)
	magenta := color.New(color.FgMagenta)
	faint := color.New(color.Faint)

	yellow.Printf("snippet %s", sn.ID)
	if sn.Favorite {
		yellow.Print(" ★")
	}
	fmt.Println()
	fmt.Printf("Title:    %s\n", sn.Title)
	if sn.Project != "" {
		fmt.Printf("Project:  %s\n", sn.Project)
	}
	if len(sn.Tags) > 0 {
		fmt.Print("Tags:    ")
		for _, t := range sn.Tags {
			magenta.Printf(" #%s", t)
		}
		fmt.Println()
	}
	fmt.Printf("Created:  %s\n", formatTime(sn.CreatedAt))
	fmt.Printf("Updated:  %s (%s)\n", formatTime(sn.UpdatedAt), relativeTime(sn.UpdatedAt))
	fmt.Printf("Order:    %d\n", sn.Order)
	fmt.Printf("Versions: %d\n", len(sn.Versions))

	if sn.Description != "" {
		fmt.Printf("\n    %s\n", strings.ReplaceAll(sn.Description, "\n", "\n    "))
	}

	for i, b := range sn.CodeBlocks {
		fmt.Println()
		cyan.Printf("── [%d] %s ", i+1, b.Language)
		faint.Printf("(%s)\n", shortID(b.ID))
		code := strings.TrimRight(b.Code, "\n")
		if code == "" {
			faint.Println("(empty)")
			continue
		}
		fmt.Println(code)
	}
}
