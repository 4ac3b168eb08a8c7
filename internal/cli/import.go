package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/kilupskalvis/snip/internal/backup"
	"github.com/kilupskalvis/snip/internal/core"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace all snippets with an export file",
	Long: `Replace the whole collection with the snippets in a JSON export.

Records missing an id, a title or a codeBlocks array are skipped. The current
collection is saved to the backup archive first, unless --no-backup is given
or backup.on_import is false in the config. Use - to read from stdin.

Examples:
  snip import snippets.json
  snip import --no-backup snippets.json
  cat snippets.json | snip import -`,
	Args: cobra.ExactArgs(1),
	Run:  runImport,
}

var importNoBackup bool

func init() {
	importCmd.Flags().BoolVar(&importNoBackup, "no-backup", false, "Do not archive the current collection first")
}

func runImport(cmd *cobra.Command, args []string) {
	var data []byte
	var err error
	if args[0] == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		exitError("failed to read %s: %v", args[0], err)
	}

	c := initContext()
	defer c.Close()

	if !importNoBackup && c.Config.Backup.OnImport {
		entry := c.snapshot()
		fmt.Printf("Saved current collection as backup %s\n", entry.ShortHash())
	}

	res := c.importData(data)
	printImportResult(res)
}

// snapshot archives the current collection and prunes old backups
func (c *cmdContext) snapshot() backup.Entry {
	ctx := context.Background()

	data, err := c.Service.ExportJSON()
	if err != nil {
		exitError("failed to export current collection: %v", err)
	}

	archive := c.openArchive()
	entry, err := archive.Put(ctx, bytes.NewReader(data), len(c.Service.Snippets()))
	if err != nil {
		exitError("failed to write backup: %v", err)
	}

	if _, err := backup.Prune(ctx, archive, c.Config.Backup.Keep, c.Logger); err != nil {
		c.Logger.Warn("failed to prune backups", "error", err)
	}
	return entry
}

// importData replaces the collection with data
func (c *cmdContext) importData(data []byte) core.ImportResult {
	res, err := c.Service.ImportJSON(context.Background(), data)
	if err != nil {
		if errors.Is(err, core.ErrParse) {
			exitError("not a snippet export: %v", err)
		}
		exitError("import failed: %v", err)
	}
	return res
}

func printImportResult(res core.ImportResult) {
	color.New(color.FgGreen).Printf("Imported ")
	fmt.Printf("%d snippet(s)", res.Accepted)
	if res.Rejected > 0 {
		color.New(color.FgYellow).Printf(", skipped %d invalid record(s)", res.Rejected)
	}
	fmt.Println()
}
