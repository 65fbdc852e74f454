package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/cube2222/octograph/config"
	"github.com/cube2222/octograph/pattern"
	"github.com/cube2222/octograph/planner"
)

var diffCmd = &cobra.Command{
	Use:           "diff <pattern file>",
	Short:         "Show a unified diff between the plans of two strategies.",
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Read()
		if err != nil {
			return fmt.Errorf("couldn't read config: %w", err)
		}
		p, err := pattern.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("couldn't read pattern: %w", err)
		}
		return diffPlans(cmd.OutOrStdout(), cfg, p, diffFrom, diffTo)
	},
}

var diffFrom string
var diffTo string

func init() {
	rootCmd.AddCommand(diffCmd)
	diffCmd.Flags().StringVar(&diffFrom, "from", planner.StrategyNaive, "Strategy of the original plan.")
	diffCmd.Flags().StringVar(&diffTo, "to", planner.StrategyExtend, "Strategy of the compared plan.")
}

func diffPlans(w io.Writer, cfg *config.Config, p *pattern.Pattern, from, to string) error {
	var trees [2]strings.Builder
	for i, strategyName := range []string{from, to} {
		plan, err := buildPlan(cfg, strategyName, p)
		if err != nil {
			return fmt.Errorf("couldn't build %s plan: %w", strategyName, err)
		}
		if err := plan.FormatTree(&trees[i]); err != nil {
			return fmt.Errorf("couldn't format %s plan: %w", strategyName, err)
		}
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(trees[0].String()),
		B:        difflib.SplitLines(trees[1].String()),
		FromFile: from,
		ToFile:   to,
		Context:  2,
	})
	if err != nil {
		return fmt.Errorf("couldn't diff plans: %w", err)
	}
	if diff == "" {
		_, err = fmt.Fprintf(w, "%s and %s plans are identical\n", from, to)
		return err
	}
	_, err = io.WriteString(w, diff)
	return err
}
