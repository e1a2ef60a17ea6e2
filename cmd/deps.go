package cmd

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wifibear/macbear/internal/tools"
	"github.com/wifibear/macbear/ui"
)

// depsCmd shows dependency status.
func depsCmd(env Env) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check link management tools",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(env.Stdout, ui.Banner())
			fmt.Fprintln(env.Stdout, "\n  Dependency Check:")
			deps := tools.NewDependencyChecker(tools.NewExecRunner(tools.DefaultTimeout, zerolog.Nop()))
			statuses := deps.CheckAll(cmd.Context())
			fmt.Fprint(env.Stdout, tools.FormatStatus(statuses))

			if missing := deps.MissingRequired(); len(missing) > 0 {
				fmt.Fprintln(env.Stdout, ui.Fail("\n  Missing required: "+strings.Join(missing, ", ")))
			}
			if !deps.IsAvailable("ip") && !deps.IsAvailable("ifconfig") {
				fmt.Fprintln(env.Stdout, ui.Warn("\n  No link management tool found. Install with: "+tools.InstallHint()))
			}
		},
	}
}

// versionCmd prints the version.
func versionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "macbear version %s\n", version)
		},
	}
}
