package cmd

import (
	"crypto/rand"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cube2222/octograph/config"
	"github.com/cube2222/octograph/graph"
	"github.com/cube2222/octograph/logical"
	"github.com/cube2222/octograph/pattern"
	"github.com/cube2222/octograph/planner"
)

const (
	FormatTable = "table"
	FormatTree  = "tree"
	FormatDot   = "dot"
	FormatYAML  = "yaml"
)

var Formats = []string{FormatTable, FormatTree, FormatDot, FormatYAML}

var compileCmd = &cobra.Command{
	Use:   "compile <pattern file>",
	Short: "Compile a pattern file into a logical plan.",
	Long: `Compile a pattern file into a logical plan and print it.
Files with a .json extension are read as JSON with integer codes, everything else as YAML.`,
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		compileID := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()

		cfg, err := config.Read()
		if err != nil {
			return fmt.Errorf("couldn't read config: %w", err)
		}
		strategyName := cfg.Planner.Strategy
		if compileStrategy != "" {
			strategyName = compileStrategy
		}
		format := cfg.Output.Format
		if compileFormat != "" {
			format = compileFormat
		}

		p, err := pattern.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("couldn't read pattern: %w", err)
		}

		log.Printf("compilation %s: compiling %s with %s strategy", compileID, args[0], strategyName)
		start := time.Now()
		plan, err := buildPlan(cfg, strategyName, p)
		if err != nil {
			return err
		}
		log.Printf("compilation %s: compiled %d nodes in %s", compileID, plan.Len(), time.Since(start))

		if compileExplain {
			return explainPlan(cfg, plan)
		}
		return writePlan(cmd.OutOrStdout(), plan, format)
	},
}

var compileStrategy string
var compileFormat string
var compileExplain bool

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringVar(&compileStrategy, "strategy", "", fmt.Sprintf("Planner strategy, one of: %s.", strings.Join(planner.StrategyNames, ", ")))
	compileCmd.Flags().StringVar(&compileFormat, "format", "", fmt.Sprintf("Output format, one of: %s.", strings.Join(Formats, ", ")))
	compileCmd.Flags().BoolVar(&compileExplain, "explain", false, "Render the plan with graphviz and open it.")
}

func extendOptions(cfg *config.Config) ([]planner.ExtendOption, error) {
	hopWeight, err := config.GetFloat64(cfg.Options, "extend.hopWeight", config.WithDefault(planner.DefaultHopWeight))
	if err != nil {
		return nil, fmt.Errorf("couldn't get extend hop weight: %w", err)
	}
	filterWeight, err := config.GetFloat64(cfg.Options, "extend.filterWeight", config.WithDefault(planner.DefaultFilterWeight))
	if err != nil {
		return nil, fmt.Errorf("couldn't get extend filter weight: %w", err)
	}
	return []planner.ExtendOption{
		planner.WithHopWeight(hopWeight),
		planner.WithFilterWeight(filterWeight),
	}, nil
}

func buildPlan(cfg *config.Config, strategyName string, p *pattern.Pattern) (*logical.Plan, error) {
	opts, err := extendOptions(cfg)
	if err != nil {
		return nil, err
	}
	strategy, err := planner.NewStrategy(strategyName, p, opts...)
	if err != nil {
		return nil, fmt.Errorf("couldn't create planner strategy: %w", err)
	}
	plan, err := strategy.BuildLogicalPlan()
	if err != nil {
		return nil, fmt.Errorf("couldn't build logical plan: %w", err)
	}
	return plan, nil
}

func writePlan(w io.Writer, plan *logical.Plan, format string) error {
	switch format {
	case "", FormatTable:
		plan.FormatTable(w)
	case FormatTree:
		if err := plan.FormatTree(w); err != nil {
			return fmt.Errorf("couldn't write plan tree: %w", err)
		}
	case FormatDot:
		g, err := graph.Show(plan.Visualize())
		if err != nil {
			return fmt.Errorf("couldn't render plan graph: %w", err)
		}
		if _, err := io.WriteString(w, g.String()); err != nil {
			return fmt.Errorf("couldn't write plan graph: %w", err)
		}
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		if err := encoder.Encode(plan); err != nil {
			return fmt.Errorf("couldn't encode plan: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("couldn't encode plan: %w", err)
		}
	default:
		return fmt.Errorf("unknown output format %s, expected one of: %s", format, strings.Join(Formats, ", "))
	}
	return nil
}

func explainPlan(cfg *config.Config, plan *logical.Plan) error {
	command, err := config.GetString(cfg.Options, "explain.command", config.WithDefault("dot"))
	if err != nil {
		return fmt.Errorf("couldn't get explain command: %w", err)
	}
	args, err := config.GetStringList(cfg.Options, "explain.args", config.WithDefault([]string{"-Tpng"}))
	if err != nil {
		return fmt.Errorf("couldn't get explain arguments: %w", err)
	}
	g, err := graph.Show(plan.Visualize())
	if err != nil {
		return fmt.Errorf("couldn't render plan graph: %w", err)
	}

	file, err := os.CreateTemp(os.TempDir(), "octograph-explain-*.png")
	if err != nil {
		return fmt.Errorf("couldn't create temporary file: %w", err)
	}
	cmd := exec.Command(command, args...)
	cmd.Stdin = strings.NewReader(g.String())
	cmd.Stdout = file
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		file.Close()
		return fmt.Errorf("couldn't render graph: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("couldn't close temporary file: %w", err)
	}
	if err := open.Start(file.Name()); err != nil {
		return fmt.Errorf("couldn't open graph: %w", err)
	}
	return nil
}
