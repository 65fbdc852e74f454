package planner

import (
	"log"

	"github.com/pkg/errors"

	"github.com/cube2222/octograph/logical"
	"github.com/cube2222/octograph/pattern"
	"github.com/cube2222/octograph/sentence"
)

var ErrUnknownStrategy = errors.New("unknown planner strategy")

// Strategy compiles a pattern into a logical plan.
// Each call compiles from scratch, so a Strategy may be used many times.
type Strategy interface {
	BuildLogicalPlan() (*logical.Plan, error)
}

const (
	StrategyNaive  = "naive"
	StrategyExtend = "extend"
)

// StrategyNames lists all names accepted by NewStrategy.
var StrategyNames = []string{StrategyNaive, StrategyExtend}

// NewStrategy creates the strategy with the given name. An empty name selects the naive strategy.
func NewStrategy(name string, p *pattern.Pattern, opts ...ExtendOption) (Strategy, error) {
	switch name {
	case "", StrategyNaive:
		log.Printf("using %s planner strategy", StrategyNaive)
		return NewNaiveStrategy(p)
	case StrategyExtend:
		log.Printf("using %s planner strategy", StrategyExtend)
		return NewExtendStrategy(p, opts...)
	}
	return nil, errors.Wrapf(ErrUnknownStrategy, "strategy %s", name)
}

// loadSentences validates all pattern sentences, merging them by their start and end tags.
func loadSentences(p *pattern.Pattern) (*sentence.Arena, *sentence.Merger, error) {
	if err := p.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "invalid pattern")
	}
	arena := sentence.NewArena()
	merger := sentence.NewMerger(arena)
	for i := range p.Sentences {
		id, err := arena.AddBase(p.Sentences[i])
		if err != nil {
			return nil, nil, errors.Wrapf(err, "couldn't add sentence with index %d", i)
		}
		merger.Add(id)
	}
	return arena, merger, nil
}

// finishPlan renders the fully joined sentence and normalizes it into a plan with a single root.
func finishPlan(arena *sentence.Arena, id sentence.ID) (*logical.Plan, error) {
	plan, err := arena.BuildLogicalPlan(id)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't build logical plan")
	}
	if err := plan.Preprocess(); err != nil {
		return nil, errors.Wrap(err, "couldn't normalize logical plan")
	}
	if err := plan.Validate(); err != nil {
		return nil, errors.Wrap(err, "built invalid logical plan")
	}
	return plan, nil
}

// NaiveStrategy extracts maximal chains of composable sentences depth first and joins the chains together.
type NaiveStrategy struct {
	pattern *pattern.Pattern
}

// NewNaiveStrategy fails on malformed patterns, before any planning happens.
func NewNaiveStrategy(p *pattern.Pattern) (*NaiveStrategy, error) {
	if _, _, err := loadSentences(p); err != nil {
		return nil, err
	}
	return &NaiveStrategy{pattern: p}, nil
}

func (s *NaiveStrategy) BuildLogicalPlan() (*logical.Plan, error) {
	arena, merger, err := loadSentences(s.pattern)
	if err != nil {
		return nil, err
	}

	extractor, err := newChainExtractor(arena, merger, s.pattern.Sentences[0].Start)
	if err != nil {
		return nil, err
	}
	chains, err := extractor.extractChains()
	if err != nil {
		return nil, errors.Wrap(err, "couldn't extract chains")
	}
	joined, err := foldChains(arena, chains)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't join chains")
	}
	return finishPlan(arena, joined)
}
