package cmd

import (
	"context"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
)

var profiler interface{ Stop() }

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "octograph",
	Short: "Compile graph match patterns into logical plans.",
	Long: `octograph compiles a graph match pattern, a set of sentences between tags,
into a logical plan of expand, filter, alias and join operators.`,
	Example: `octograph compile friends.yaml
octograph compile --strategy extend --format tree friends.yaml
octograph diff friends.json
octograph repl`,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if profilePath != "" {
			profiler = profile.Start(profile.CPUProfile, profile.ProfilePath(profilePath), profile.Quiet)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if profiler != nil {
			profiler.Stop()
		}
	},
}

func Execute(ctx context.Context) {
	cobra.CheckErr(rootCmd.ExecuteContext(ctx))
}

var profilePath string

func init() {
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "", "Write a CPU profile to the given directory.")
}
