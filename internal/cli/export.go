package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all snippets",
	Long: `Export every snippet, including version history, in display order.
The JSON form can be read back with 'snip import'.

Examples:
  snip export > snippets.json
  snip export -o snippets.json
  snip export --format yaml -o snippets.yaml`,
	Args: cobra.NoArgs,
	Run:  runExport,
}

var (
	exportFormat string
	exportOutput string
)

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Output format (json|yaml)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	var data []byte
	var err error
	switch exportFormat {
	case "json":
		data, err = c.Service.ExportJSON()
		if err == nil {
			data = append(data, '\n')
		}
	case "yaml", "yml":
		data, err = c.Service.ExportYAML()
	default:
		exitError("unknown format %q (want json or yaml)", exportFormat)
	}
	if err != nil {
		exitError("%v", err)
	}

	if exportOutput == "" {
		os.Stdout.Write(data)
		return
	}
	if err := os.WriteFile(exportOutput, data, 0644); err != nil {
		exitError("failed to write %s: %v", exportOutput, err)
	}
	fmt.Fprintf(os.Stderr, "Exported %d snippet(s) to %s\n", len(c.Service.Snippets()), exportOutput)
}
