package cli

import (
	"fmt"
	"os"

	"github.com/kilupskalvis/snip/internal/config"
	"github.com/kilupskalvis/snip/internal/store"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new snip workspace",
	Long: `Initialize a new snip workspace in the current directory.
This creates a .snip directory holding the snippet database, the backup
archive and the config file.`,
	Run: runInit,
}

var initBackend string

func init() {
	initCmd.Flags().StringVar(&initBackend, "backend", config.BackendBbolt, "Storage backend (bbolt|sqlite)")
}

func runInit(cmd *cobra.Command, args []string) {
	// Check if already initialized
	if root, err := config.FindRoot(); err == nil {
		exitError("snip workspace already exists at %s", root)
	}

	cwd, err := os.Getwd()
	if err != nil {
		exitError("%v", err)
	}

	cfg, err := config.Initialize(cwd, initBackend)
	if err != nil {
		exitError("failed to initialize config: %v", err)
	}

	// Create the database so later commands find it
	st, err := store.Open(cfg.Backend, cfg.DatabasePath())
	if err != nil {
		os.RemoveAll(cfg.SnipPath())
		exitError("failed to create store: %v", err)
	}
	st.Close()

	fmt.Printf("Initialized empty snip workspace in %s\n", cfg.SnipPath())
	fmt.Printf("Backend: %s\n", cfg.Backend)
	fmt.Printf("\nRun 'snip add --title \"...\" -f file.go' to add the first snippet.\n")
}
