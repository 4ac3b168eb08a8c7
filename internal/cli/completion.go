package cli

import (
	"context"
	"os"
	"slices"
	"strings"

	"github.com/kilupskalvis/snip/internal/config"
	"github.com/kilupskalvis/snip/internal/core"
	"github.com/kilupskalvis/snip/internal/models"
	"github.com/kilupskalvis/snip/internal/store"
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for snip. Snippet ids complete with
their titles shown as descriptions.

To load completions:

Bash:
  $ source <(snip completion bash)

Zsh:
  $ snip completion zsh > "${fpath[1]}/_snip"

Fish:
  $ snip completion fish > ~/.config/fish/completions/snip.fish

PowerShell:
  PS> snip completion powershell | Out-String | Invoke-Expression
`,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletionV2(os.Stdout, true)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		default:
			return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
		}
	},
}

func init() {
	// Commands whose first argument is a snippet id
	for _, c := range []*cobra.Command{editCmd, favCmd, moveCmd, showCmd, historyCmd, restoreCmd, diffCmd} {
		c.ValidArgsFunction = completeFirstSnippetID
	}
	rmCmd.ValidArgsFunction = completeSnippetIDs
}

func completeFirstSnippetID(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return completeSnippetIDs(cmd, args, toComplete)
}

func completeSnippetIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	snippets, err := loadForCompletion()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return snippetCompletions(snippets, toComplete, args), cobra.ShellCompDirectiveNoFileComp
}

// loadForCompletion reads the snippet list without exiting on failure.
func loadForCompletion() ([]models.Snippet, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(cfg.Backend, cfg.DatabasePath())
	if err != nil {
		return nil, err
	}
	defer st.Close()

	svc := core.New(st)
	if err := svc.Load(context.Background()); err != nil {
		return nil, err
	}
	return svc.Snippets(), nil
}

// snippetCompletions returns "id<TAB>title" candidates for ids starting with
// prefix, skipping ids already given on the command line.
func snippetCompletions(snippets []models.Snippet, prefix string, exclude []string) []string {
	var out []string
	for _, sn := range snippets {
		if !strings.HasPrefix(sn.ID, prefix) || slices.Contains(exclude, sn.ID) {
			continue
		}
		out = append(out, sn.ID+"\t"+sn.Title)
	}
	return out
}
