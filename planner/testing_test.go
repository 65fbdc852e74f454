package planner

import (
	"github.com/cube2222/octograph/logical"
	"github.com/cube2222/octograph/pattern"
)

func hop(start, end string, kind pattern.JoinKind, params pattern.Params) pattern.Sentence {
	out := pattern.Sentence{
		Start: pattern.NameTag(start),
		Binders: []pattern.Binder{
			pattern.NewEdgeBinder(pattern.EdgeStep{
				Direction: pattern.DirectionOut,
				ExpandOpt: pattern.ExpandOptVertex,
				Params:    params,
			}),
		},
		JoinKind: kind,
	}
	if end != "" {
		out.End = pattern.NameTag(end)
	}
	return out
}

func inner(start, end string) pattern.Sentence {
	return hop(start, end, pattern.JoinKindInner, pattern.Params{})
}

func newPattern(sentences ...pattern.Sentence) *pattern.Pattern {
	return &pattern.Pattern{Sentences: sentences}
}

func operators(plan *logical.Plan) []string {
	out := make([]string, len(plan.Nodes))
	for i := range plan.Nodes {
		out[i] = plan.Nodes[i].Operator.String()
	}
	return out
}

func children(plan *logical.Plan) [][]int {
	out := make([][]int, len(plan.Nodes))
	for i := range plan.Nodes {
		out[i] = plan.Nodes[i].Children
		if out[i] == nil {
			out[i] = []int{}
		}
	}
	return out
}

func joinNode(plan *logical.Plan) (logical.Node, bool) {
	for _, node := range plan.Nodes {
		if node.Operator.NodeType == logical.NodeTypeJoin {
			return node, true
		}
	}
	return logical.Node{}, false
}
