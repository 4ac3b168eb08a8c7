package cli

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/kilupskalvis/snip/internal/core"
	"github.com/spf13/cobra"
	"github.com/wI2L/jsondiff"
)

var diffCmd = &cobra.Command{
	Use:   "diff <id> <version>",
	Short: "Show changes since a version",
	Long: `Show what changed between an earlier version and the current snippet,
as JSON Patch operations over title, codeBlocks, description and tags.`,
	Args: cobra.ExactArgs(2),
	Run:  runDiff,
}

var diffJSON bool

func init() {
	diffCmd.Flags().BoolVar(&diffJSON, "json", false, "Output the raw JSON Patch")
}

func runDiff(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	sn := c.resolveSnippet(args[0])
	v, err := core.ResolveVersion(&sn, args[1])
	if err != nil {
		exitError("%v", err)
	}

	patch, found, err := c.Service.DiffVersion(sn.ID, v.ID)
	if err != nil {
		exitError("%v", err)
	}
	if !found {
		exitError("version %s of %s not found", args[1], sn.ShortID())
	}

	if diffJSON {
		if patch == nil {
			patch = jsondiff.Patch{}
		}
		printJSON(patch)
		return
	}

	if len(patch) == 0 {
		fmt.Println("No changes since this version")
		return
	}

	yellow := color.New(color.FgYellow)
	yellow.Printf("version %s", v.ShortID())
	fmt.Printf(" → current (%d change(s))\n\n", len(patch))
	printPatch(patch)
}

// printPatch prints patch operations in a diff-like form
func printPatch(patch jsondiff.Patch) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	for _, op := range patch {
		switch op.Type {
		case jsondiff.OperationAdd:
			green.Printf("  + %s: %s\n", op.Path, formatValue(op.Value))
		case jsondiff.OperationRemove:
			red.Printf("  - %s\n", op.Path)
		case jsondiff.OperationReplace:
			yellow.Printf("  ~ %s: %s\n", op.Path, formatValue(op.Value))
		default:
			fmt.Printf("  %s %s\n", op.Type, op.Path)
		}
	}
}

func formatValue(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	const limit = 80
	if len(data) > limit {
		return string(data[:limit]) + "…"
	}
	return string(data)
}
