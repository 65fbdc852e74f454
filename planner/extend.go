package planner

import (
	"log"
	"math"

	"github.com/pkg/errors"

	"github.com/cube2222/octograph/logical"
	"github.com/cube2222/octograph/pattern"
	"github.com/cube2222/octograph/sentence"
)

var ErrNoInnerSentence = errors.New("pattern has no inner sentence to start from")

const (
	DefaultHopWeight    = 1.0
	DefaultFilterWeight = 0.5
)

type ExtendOption func(*ExtendStrategy)

// WithHopWeight sets the cost of a single traversal hop.
func WithHopWeight(weight float64) ExtendOption {
	return func(s *ExtendStrategy) {
		s.hopWeight = weight
	}
}

// WithFilterWeight sets how much a single filter lowers the cost, as filters shrink intermediate results.
func WithFilterWeight(weight float64) ExtendOption {
	return func(s *ExtendStrategy) {
		s.filterWeight = weight
	}
}

// ExtendStrategy grows the match from the cheapest sentence,
// always joining the cheapest sentence connected to the tags matched so far.
// Negated sentences are attached last.
type ExtendStrategy struct {
	pattern      *pattern.Pattern
	hopWeight    float64
	filterWeight float64
}

func NewExtendStrategy(p *pattern.Pattern, opts ...ExtendOption) (*ExtendStrategy, error) {
	if _, _, err := loadSentences(p); err != nil {
		return nil, err
	}
	s := &ExtendStrategy{
		pattern:      p,
		hopWeight:    DefaultHopWeight,
		filterWeight: DefaultFilterWeight,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// weightedEdge is a merged sentence viewed as an edge between its tags.
type weightedEdge struct {
	key      sentence.Key
	fragment sentence.ID
	tags     sentence.TagSet
	weight   float64
	inner    bool
}

// patternGraph holds the edges not matched yet, ordered by key.
type patternGraph struct {
	edges []weightedEdge
}

func (s *ExtendStrategy) buildPatternGraph(arena *sentence.Arena, merger *sentence.Merger) (*patternGraph, error) {
	g := &patternGraph{}
	for _, key := range merger.Keys() {
		merged, _ := merger.Take(key)
		fragment, ok := arena.MergedToJoin(merged)
		if !ok {
			return nil, errors.Wrapf(sentence.ErrInvalidMerge, "couldn't join members of %s", arena.Describe(merged))
		}
		filters, hops := arena.Stats(merged)
		g.edges = append(g.edges, weightedEdge{
			key:      key,
			fragment: fragment,
			tags:     arena.Tags(fragment),
			weight:   s.hopWeight*float64(hops) - s.filterWeight*float64(filters),
			inner:    arena.JoinKind(fragment) == pattern.JoinKindInner,
		})
	}
	return g, nil
}

// takeCheapest removes and returns the cheapest edge matching the filter, the first one in key order on ties.
func (g *patternGraph) takeCheapest(inner bool, connected func(edge weightedEdge) bool) (weightedEdge, bool) {
	best := -1
	bestWeight := math.Inf(1)
	for i, edge := range g.edges {
		if edge.inner != inner || !connected(edge) {
			continue
		}
		if best == -1 || edge.weight < bestWeight {
			best = i
			bestWeight = edge.weight
		}
	}
	if best == -1 {
		return weightedEdge{}, false
	}
	out := g.edges[best]
	g.edges = append(g.edges[:best:best], g.edges[best+1:]...)
	return out, true
}

func (g *patternGraph) hasEdges(inner bool) bool {
	for _, edge := range g.edges {
		if edge.inner == inner {
			return true
		}
	}
	return false
}

func (s *ExtendStrategy) BuildLogicalPlan() (*logical.Plan, error) {
	arena, merger, err := loadSentences(s.pattern)
	if err != nil {
		return nil, err
	}
	g, err := s.buildPatternGraph(arena, merger)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't build weighted pattern graph")
	}

	everything := func(edge weightedEdge) bool { return true }
	seed, ok := g.takeCheapest(true, everything)
	if !ok {
		return nil, ErrNoInnerSentence
	}
	out := arena.Single(seed.fragment)
	matched := seed.tags

	connected := func(edge weightedEdge) bool {
		return matched.Intersection(edge.tags).Len() > 0
	}
	for _, inner := range []bool{true, false} {
		for g.hasEdges(inner) {
			edge, ok := g.takeCheapest(inner, connected)
			if !ok {
				return nil, errors.Wrapf(ErrDisconnected, "no sentence connected to tags %s", matched)
			}
			joined, ok := arena.Join(out, edge.fragment)
			if !ok {
				return nil, errors.Wrapf(ErrDisconnected, "couldn't join %s with %s", arena.Describe(out), arena.Describe(edge.fragment))
			}
			log.Printf("extending match of %s with %s, weight %.2f", matched, arena.Describe(edge.fragment), edge.weight)
			out = joined
			matched = matched.Union(edge.tags)
		}
	}

	return finishPlan(arena, out)
}
