package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/c-bata/go-prompt"
	"github.com/spf13/cobra"

	"github.com/cube2222/octograph/config"
	"github.com/cube2222/octograph/logical"
	"github.com/cube2222/octograph/pattern"
	"github.com/cube2222/octograph/plancache"
	"github.com/cube2222/octograph/planner"
)

const replUsage = "load <file>, strategy <name>, format <name>, show, exit"

var replCmd = &cobra.Command{
	Use:           "repl",
	Short:         "Interactively compile patterns.",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Read()
		if err != nil {
			return fmt.Errorf("couldn't read config: %w", err)
		}
		maxSuggestions, err := config.GetInt(cfg.Options, "repl.maxSuggestions", config.WithDefault(6))
		if err != nil {
			return fmt.Errorf("couldn't get maximum suggestion count: %w", err)
		}
		state, err := newReplState(cfg, cmd.OutOrStdout())
		if err != nil {
			return err
		}

		fmt.Fprintln(state.out, replUsage)
		prompt.New(
			func(line string) {
				if state.execute(line) {
					state.close()
					os.Exit(0)
				}
			},
			state.complete,
			prompt.OptionPrefix("octograph> "),
			prompt.OptionTitle("octograph"),
			prompt.OptionMaxSuggestion(uint16(maxSuggestions)),
		).Run()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}

type replState struct {
	cfg *config.Config
	// cache is nil when disabled with repl.cache.
	cache    *plancache.Cache
	out      io.Writer
	path     string
	pattern  *pattern.Pattern
	strategy string
	format   string
}

func newReplState(cfg *config.Config, out io.Writer) (*replState, error) {
	useCache, err := config.GetBool(cfg.Options, "repl.cache", config.WithDefault(true))
	if err != nil {
		return nil, fmt.Errorf("couldn't get repl cache setting: %w", err)
	}
	state := &replState{
		cfg:      cfg,
		out:      out,
		strategy: cfg.Planner.Strategy,
		format:   cfg.Output.Format,
	}
	if useCache {
		cache, err := plancache.New(cfg.Planner.Cache.MaxCost)
		if err != nil {
			return nil, fmt.Errorf("couldn't create plan cache: %w", err)
		}
		state.cache = cache
	}
	return state, nil
}

// execute runs a single command line, reporting whether the shell should exit.
func (s *replState) execute(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch {
	case fields[0] == "exit":
		fmt.Fprintln(s.out, "Exiting.")
		return true
	case fields[0] == "load" && len(fields) == 2:
		p, err := pattern.ReadFile(fields[1])
		if err != nil {
			fmt.Fprintf(s.out, "couldn't read pattern: %s\n", err)
			return false
		}
		s.path = fields[1]
		s.pattern = p
		fmt.Fprintf(s.out, "Loaded %d sentences from %s.\n", len(p.Sentences), fields[1])
	case fields[0] == "strategy" && len(fields) == 2:
		if !contains(planner.StrategyNames, fields[1]) {
			fmt.Fprintf(s.out, "Unknown strategy %s, expected one of: %s.\n", fields[1], strings.Join(planner.StrategyNames, ", "))
			return false
		}
		s.strategy = fields[1]
	case fields[0] == "format" && len(fields) == 2:
		if !contains(Formats, fields[1]) {
			fmt.Fprintf(s.out, "Unknown format %s, expected one of: %s.\n", fields[1], strings.Join(Formats, ", "))
			return false
		}
		s.format = fields[1]
	case fields[0] == "show" && len(fields) == 1:
		if s.pattern == nil {
			fmt.Fprintln(s.out, "No pattern loaded.")
			return false
		}
		plan, err := s.plan()
		if err != nil {
			fmt.Fprintln(s.out, err)
			return false
		}
		if err := writePlan(s.out, plan, s.format); err != nil {
			fmt.Fprintln(s.out, err)
		}
	default:
		fmt.Fprintln(s.out, "Unknown command.")
		fmt.Fprintln(s.out, replUsage)
	}
	return false
}

func (s *replState) plan() (*logical.Plan, error) {
	log.Printf("compiling %s with %s strategy", s.path, s.strategy)
	build := func() (*logical.Plan, error) {
		return buildPlan(s.cfg, s.strategy, s.pattern)
	}
	if s.cache == nil {
		return build()
	}
	return s.cache.GetOrBuild(s.strategy, s.pattern, build)
}

func (s *replState) complete(d prompt.Document) []prompt.Suggest {
	fields := strings.Fields(d.TextBeforeCursor())
	if len(fields) == 0 || len(fields) == 1 && !strings.HasSuffix(d.TextBeforeCursor(), " ") {
		return prompt.FilterHasPrefix([]prompt.Suggest{
			{Text: "load", Description: "Load a pattern file."},
			{Text: "strategy", Description: "Set the planner strategy."},
			{Text: "format", Description: "Set the output format."},
			{Text: "show", Description: "Compile and print the loaded pattern."},
			{Text: "exit", Description: "Leave the shell."},
		}, d.GetWordBeforeCursor(), true)
	}

	var values []string
	switch fields[0] {
	case "strategy":
		values = planner.StrategyNames
	case "format":
		values = Formats
	default:
		return nil
	}
	suggestions := make([]prompt.Suggest, len(values))
	for i := range values {
		suggestions[i] = prompt.Suggest{Text: values[i]}
	}
	return prompt.FilterHasPrefix(suggestions, d.GetWordBeforeCursor(), true)
}

func (s *replState) close() {
	if s.cache != nil {
		s.cache.Close()
	}
}

func contains(values []string, value string) bool {
	for i := range values {
		if values[i] == value {
			return true
		}
	}
	return false
}
