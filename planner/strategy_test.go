package planner

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cube2222/octograph/logical"
	"github.com/cube2222/octograph/pattern"
)

func TestNaiveStrategy_BuildLogicalPlan(t *testing.T) {
	knows := pattern.Params{Labels: []string{"knows"}}
	tests := []struct {
		name         string
		pattern      *pattern.Pattern
		wantNodes    []string
		wantChildren [][]int
	}{
		{
			name:    "linear",
			pattern: newPattern(inner("a", "b"), inner("b", "c")),
			wantNodes: []string{
				"As(a)", "EdgeStep(out())", "As(b)", "EdgeStep(out())", "As(c)",
			},
			wantChildren: [][]int{{1}, {2}, {3}, {4}, {}},
		},
		{
			name:    "fork",
			pattern: newPattern(inner("a", "b"), inner("a", "c")),
			wantNodes: []string{
				"As(None)",
				"As(a)", "EdgeStep(out())", "As(b)",
				"As(a)", "EdgeStep(out())", "As(c)",
				"Join(inner; @a, @a)",
			},
			wantChildren: [][]int{{1, 4}, {2}, {3}, {7}, {5}, {6}, {7}, {}},
		},
		{
			name:    "triangle",
			pattern: newPattern(inner("a", "b"), inner("b", "c"), inner("a", "c")),
			wantNodes: []string{
				"As(None)",
				"As(a)", "EdgeStep(out())", "As(b)", "EdgeStep(out())", "As(c)",
				"As(a)", "EdgeStep(out())", "As(c)",
				"Join(inner; @a, @c, @a, @c)",
			},
			wantChildren: [][]int{{1, 6}, {2}, {3}, {4}, {5}, {9}, {7}, {8}, {9}, {}},
		},
		{
			name:    "anti on the right",
			pattern: newPattern(inner("a", "b"), hop("a", "b", pattern.JoinKindAnti, knows)),
			wantNodes: []string{
				"As(None)",
				"As(a)", "EdgeStep(out())", "As(b)",
				"As(a)", "EdgeStep(out(knows))", "As(b)",
				"Join(anti; @a, @b, @a, @b)",
			},
			wantChildren: [][]int{{1, 4}, {2}, {3}, {7}, {5}, {6}, {7}, {}},
		},
		{
			name:    "anti on the right when declared first",
			pattern: newPattern(hop("a", "b", pattern.JoinKindAnti, knows), inner("a", "b")),
			wantNodes: []string{
				"As(None)",
				"As(a)", "EdgeStep(out())", "As(b)",
				"As(a)", "EdgeStep(out(knows))", "As(b)",
				"Join(anti; @a, @b, @a, @b)",
			},
			wantChildren: [][]int{{1, 4}, {2}, {3}, {7}, {5}, {6}, {7}, {}},
		},
		{
			name:    "reversed sentence",
			pattern: newPattern(inner("a", "b"), inner("c", "a")),
			wantNodes: []string{
				"As(None)",
				"As(a)", "EdgeStep(out())", "As(b)",
				"As(a)", "EdgeStep(in())", "As(c)",
				"Join(inner; @a, @a)",
			},
			wantChildren: [][]int{{1, 4}, {2}, {3}, {7}, {5}, {6}, {7}, {}},
		},
		{
			name:    "filtered sentence into the root isn't reversed",
			pattern: newPattern(inner("a", "b"), hop("c", "a", pattern.JoinKindInner, pattern.Params{Predicate: "x"})),
			wantNodes: []string{
				"As(None)",
				"As(a)", "EdgeStep(out())", "As(b)",
				"As(c)", "EdgeStep(out(where x))", "As(a)",
				"Join(inner; @a, @a)",
			},
			wantChildren: [][]int{{1, 4}, {2}, {3}, {7}, {5}, {6}, {7}, {}},
		},
		{
			name:    "filtered sentence into a neighbor isn't reversed",
			pattern: newPattern(inner("a", "b"), hop("c", "b", pattern.JoinKindInner, pattern.Params{Predicate: "x"})),
			wantNodes: []string{
				"As(None)",
				"As(a)", "EdgeStep(out())", "As(b)",
				"As(c)", "EdgeStep(out(where x))", "As(b)",
				"Join(inner; @b, @b)",
			},
			wantChildren: [][]int{{1, 4}, {2}, {3}, {7}, {5}, {6}, {7}, {}},
		},
		{
			name:    "negated continuation is joined instead of composed",
			pattern: newPattern(inner("a", "b"), hop("b", "c", pattern.JoinKindAnti, pattern.Params{})),
			wantNodes: []string{
				"As(None)",
				"As(a)", "EdgeStep(out())", "As(b)",
				"As(b)", "EdgeStep(out())", "As(c)",
				"Join(anti; @b, @b)",
			},
			wantChildren: [][]int{{1, 4}, {2}, {3}, {7}, {5}, {6}, {7}, {}},
		},
		{
			name:    "self loop",
			pattern: newPattern(inner("a", "a"), inner("a", "b")),
			wantNodes: []string{
				"As(None)",
				"As(a)", "EdgeStep(out())", "As(a)",
				"As(a)", "EdgeStep(out())", "As(b)",
				"Join(inner; @a, @a)",
			},
			wantChildren: [][]int{{1, 4}, {2}, {3}, {7}, {5}, {6}, {7}, {}},
		},
		{
			name:         "no end tag",
			pattern:      newPattern(inner("a", "")),
			wantNodes:    []string{"As(a)", "EdgeStep(out())"},
			wantChildren: [][]int{{1}, {}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy, err := NewNaiveStrategy(tt.pattern)
			require.NoError(t, err)

			plan, err := strategy.BuildLogicalPlan()
			require.NoError(t, err)
			assert.Equal(t, tt.wantNodes, operators(plan))
			assert.Equal(t, tt.wantChildren, children(plan))
			assert.Equal(t, []int{0}, plan.Roots)
			assert.NoError(t, plan.Validate())
		})
	}
}

func TestNaiveStrategy_Disconnected(t *testing.T) {
	tests := []struct {
		name    string
		pattern *pattern.Pattern
	}{
		{
			name:    "two components",
			pattern: newPattern(inner("a", "b"), inner("b", "c"), inner("d", "e")),
		},
		{
			name:    "isolated sentence without end tag",
			pattern: newPattern(inner("a", "b"), inner("c", "")),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy, err := NewNaiveStrategy(tt.pattern)
			require.NoError(t, err)

			_, err = strategy.BuildLogicalPlan()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDisconnected), "got %v", err)
		})
	}
}

func TestNaiveStrategy_MalformedInput(t *testing.T) {
	path := pattern.Sentence{
		Start: pattern.NameTag("a"),
		End:   pattern.NameTag("b"),
		Binders: []pattern.Binder{
			pattern.NewPathBinder(pattern.PathStep{Lower: 1, Upper: 3}),
		},
	}
	tests := []struct {
		name    string
		pattern *pattern.Pattern
		wantErr error
	}{
		{
			name:    "empty pattern",
			pattern: newPattern(),
			wantErr: pattern.ErrEmptyPattern,
		},
		{
			name:    "missing start tag",
			pattern: newPattern(inner("a", "b"), pattern.Sentence{Binders: inner("a", "b").Binders}),
			wantErr: pattern.ErrMissingStartTag,
		},
		{
			name:    "empty sentence",
			pattern: newPattern(pattern.Sentence{Start: pattern.NameTag("a")}),
			wantErr: pattern.ErrEmptySentence,
		},
		{
			name:    "terminal path",
			pattern: newPattern(path),
			wantErr: pattern.ErrPathBinding,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewNaiveStrategy(tt.pattern)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestNaiveStrategy_Repeatable(t *testing.T) {
	strategy, err := NewNaiveStrategy(newPattern(inner("a", "b"), inner("b", "c"), inner("a", "c")))
	require.NoError(t, err)

	first, err := strategy.BuildLogicalPlan()
	require.NoError(t, err)
	second, err := strategy.BuildLogicalPlan()
	require.NoError(t, err)
	assert.Equal(t, operators(first), operators(second))
	assert.Equal(t, children(first), children(second))
}

func TestExtendStrategy_BuildLogicalPlan(t *testing.T) {
	filtered := pattern.Params{Predicate: "age > 3"}
	tests := []struct {
		name      string
		pattern   *pattern.Pattern
		opts      []ExtendOption
		wantJoins int
		check     func(t *testing.T, plan *logical.Plan)
	}{
		{
			name:      "single sentence",
			pattern:   newPattern(inner("a", "b")),
			wantJoins: 0,
			check: func(t *testing.T, plan *logical.Plan) {
				assert.Equal(t, []string{"As(a)", "EdgeStep(out())", "As(b)"}, operators(plan))
			},
		},
		{
			name:      "triangle",
			pattern:   newPattern(inner("a", "b"), inner("b", "c"), inner("a", "c")),
			wantJoins: 2,
		},
		{
			name:      "filtered sentence seeds the match",
			pattern:   newPattern(inner("a", "b"), hop("a", "c", pattern.JoinKindInner, filtered)),
			wantJoins: 1,
			check: func(t *testing.T, plan *logical.Plan) {
				ops := operators(plan)
				assert.Equal(t, "As(a)", ops[1])
				assert.Equal(t, "EdgeStep(out(where age > 3))", ops[2])
			},
		},
		{
			name:      "filters ignored with zero weight",
			pattern:   newPattern(inner("a", "b"), hop("a", "c", pattern.JoinKindInner, filtered)),
			opts:      []ExtendOption{WithFilterWeight(0)},
			wantJoins: 1,
			check: func(t *testing.T, plan *logical.Plan) {
				ops := operators(plan)
				assert.Equal(t, "EdgeStep(out())", ops[2])
			},
		},
		{
			name: "negated sentence attached last",
			pattern: newPattern(
				hop("b", "c", pattern.JoinKindAnti, pattern.Params{}),
				inner("a", "b"),
				inner("a", "c"),
			),
			wantJoins: 2,
			check: func(t *testing.T, plan *logical.Plan) {
				last, _ := plan.LastNode()
				assert.Equal(t, "Join(anti; @b, @c, @b, @c)", plan.Nodes[last].Operator.String())
			},
		},
		{
			name:      "merged sentences",
			pattern:   newPattern(inner("a", "b"), hop("a", "b", pattern.JoinKindAnti, pattern.Params{})),
			wantJoins: 1,
			check: func(t *testing.T, plan *logical.Plan) {
				node, ok := joinNode(plan)
				require.True(t, ok)
				assert.Equal(t, pattern.JoinKindAnti, node.Operator.Join.Kind)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy, err := NewExtendStrategy(tt.pattern, tt.opts...)
			require.NoError(t, err)

			plan, err := strategy.BuildLogicalPlan()
			require.NoError(t, err)
			assert.Equal(t, tt.wantJoins, plan.CountNodes(logical.NodeTypeJoin))
			assert.NoError(t, plan.Validate())
			if tt.check != nil {
				tt.check(t, plan)
			}
		})
	}
}

func TestExtendStrategy_Errors(t *testing.T) {
	tests := []struct {
		name    string
		pattern *pattern.Pattern
		wantErr error
	}{
		{
			name:    "disconnected",
			pattern: newPattern(inner("a", "b"), inner("b", "c"), inner("d", "e")),
			wantErr: ErrDisconnected,
		},
		{
			name:    "disconnected negated sentence",
			pattern: newPattern(inner("a", "b"), hop("c", "d", pattern.JoinKindAnti, pattern.Params{})),
			wantErr: ErrDisconnected,
		},
		{
			name:    "only negated sentences",
			pattern: newPattern(hop("a", "b", pattern.JoinKindAnti, pattern.Params{})),
			wantErr: ErrNoInnerSentence,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy, err := NewExtendStrategy(tt.pattern)
			require.NoError(t, err)

			_, err = strategy.BuildLogicalPlan()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestNewStrategy(t *testing.T) {
	p := newPattern(inner("a", "b"), inner("a", "c"))
	tests := []struct {
		name     string
		strategy string
		wantErr  bool
	}{
		{name: "default", strategy: ""},
		{name: "naive", strategy: StrategyNaive},
		{name: "extend", strategy: StrategyExtend},
		{name: "unknown", strategy: "random", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy, err := NewStrategy(tt.strategy, p)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnknownStrategy))
				return
			}
			require.NoError(t, err)

			plan, err := strategy.BuildLogicalPlan()
			require.NoError(t, err)
			assert.Equal(t, 1, plan.CountNodes(logical.NodeTypeJoin))
		})
	}
}
