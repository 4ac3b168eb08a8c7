package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/kilupskalvis/snip/internal/backup"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage collection backups",
	Long: `Manage the backup archive in .snip/backups.

A backup is a full JSON export. One is written automatically before every
import; identical collections share one backup.

Examples:
  snip backup create           Save the current collection
  snip backup list             List backups, newest first
  snip backup restore 9c1e     Replace the collection with a backup
  snip backup prune --keep 3   Delete all but the 3 newest backups`,
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Save the current collection",
	Args:  cobra.NoArgs,
	Run:   runBackupCreate,
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups",
	Args:  cobra.NoArgs,
	Run:   runBackupList,
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <hash>",
	Short: "Replace the collection with a backup",
	Long: `Replace the whole collection with a backup. The current collection is
backed up first, so a restore can be undone.`,
	Args: cobra.ExactArgs(1),
	Run:  runBackupRestore,
}

var backupPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old backups",
	Args:  cobra.NoArgs,
	Run:   runBackupPrune,
}

var (
	backupListJSON bool
	backupKeep     int
)

func init() {
	backupCmd.AddCommand(backupCreateCmd, backupListCmd, backupRestoreCmd, backupPruneCmd)

	backupListCmd.Flags().BoolVar(&backupListJSON, "json", false, "Output as JSON")
	backupPruneCmd.Flags().IntVar(&backupKeep, "keep", -1, "Backups to keep (default: backup.keep from config)")
}

func runBackupCreate(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	entry := c.snapshot()
	color.New(color.FgGreen).Printf("Saved ")
	fmt.Printf("backup %s (%d snippet(s), %s)\n", entry.ShortHash(), entry.Snippets, humanize.Bytes(uint64(entry.Size)))
}

func runBackupList(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	entries, err := c.openArchive().List(context.Background())
	if err != nil {
		exitError("%v", err)
	}

	if backupListJSON {
		if entries == nil {
			entries = []backup.Entry{}
		}
		printJSON(entries)
		return
	}

	if len(entries) == 0 {
		fmt.Println("No backups yet")
		return
	}

	yellow := color.New(color.FgYellow)
	for _, e := range entries {
		yellow.Printf("%s ", e.ShortHash())
		count := "?"
		if e.Snippets >= 0 {
			count = fmt.Sprint(e.Snippets)
		}
		fmt.Printf("%-16s %4s snippet(s) %10s\n", humanize.Time(e.CreatedAt), count, humanize.Bytes(uint64(e.Size)))
	}
}

func runBackupRestore(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	c := initContext()
	defer c.Close()

	archive := c.openArchive()
	entry, err := archive.Resolve(ctx, args[0])
	if err != nil {
		switch {
		case errors.Is(err, backup.ErrAmbiguous):
			exitError("backup %q is ambiguous, use more characters", args[0])
		case errors.Is(err, backup.ErrNotFound):
			exitError("backup not found: %s", args[0])
		default:
			exitError("%v", err)
		}
	}

	r, _, err := archive.Get(ctx, entry.Hash)
	if err != nil {
		exitError("failed to open backup: %v", err)
	}
	data, err := io.ReadAll(r)
	r.Close()
	if err != nil {
		exitError("failed to read backup: %v", err)
	}

	current := c.snapshot()
	fmt.Printf("Saved current collection as backup %s\n", current.ShortHash())

	res := c.importData(data)
	printImportResult(res)
}

func runBackupPrune(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	keep := c.Config.Backup.Keep
	if backupKeep >= 0 {
		keep = backupKeep
	}

	result, err := backup.Prune(context.Background(), c.openArchive(), keep, c.Logger)
	if err != nil {
		exitError("%v", err)
	}
	fmt.Printf("Deleted %d backup(s), kept %d\n", result.Deleted, result.Kept)
}
