package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/mewc/pkg/mewc"
	"github.com/matzehuels/mewc/pkg/pipeline"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for mewc.

To load completions:

Bash:
  $ source <(mewc completion bash)

Zsh:
  $ mewc completion zsh > "${fpath[1]}/_mewc"

Fish:
  $ mewc completion fish > ~/.config/fish/completions/mewc.fish

PowerShell:
  PS> mewc completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// completeInstance completes the instance argument with .in and .json files.
func completeInstance(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return []string{"out"}, cobra.ShellCompDirectiveFilterFileExt
	}
	return []string{"in", "json"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeStrategy completes strategy names with their descriptions.
func completeStrategy(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, s := range mewc.Strategies() {
		out = append(out, s.String()+"\t"+s.Description())
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeFormat completes output format names.
func completeFormat(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{pipeline.FormatOut, pipeline.FormatJSON, pipeline.FormatDOT, pipeline.FormatSVG}, cobra.ShellCompDirectiveNoFileComp
}
