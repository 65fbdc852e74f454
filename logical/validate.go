package logical

import (
	"github.com/pkg/errors"

	"github.com/cube2222/octograph/pattern"
)

// Validate checks the plan is what the physical assembler expects:
// a connected DAG reachable from a single root, with every join key bound by an upstream As.
func (p *Plan) Validate() error {
	if len(p.Roots) != 1 {
		return errors.Wrapf(ErrInvalidPlan, "expected exactly one root, got %d", len(p.Roots))
	}
	root := p.Roots[0]
	if root < 0 || root >= len(p.Nodes) {
		return errors.Wrapf(ErrInvalidPlan, "root %d out of range", root)
	}

	parents := make([][]int, len(p.Nodes))
	for i, node := range p.Nodes {
		for _, child := range node.Children {
			if child < 0 || child >= len(p.Nodes) {
				return errors.Wrapf(ErrInvalidPlan, "node %d has child %d out of range", i, child)
			}
			if child == i {
				return errors.Wrapf(ErrInvalidPlan, "node %d is its own child", i)
			}
			parents[child] = append(parents[child], i)
		}
	}

	const (
		unvisited = iota
		inProgress
		done
	)
	state := make([]int, len(p.Nodes))
	var visit func(i int) error
	visit = func(i int) error {
		switch state[i] {
		case inProgress:
			return errors.Wrapf(ErrInvalidPlan, "cycle through node %d", i)
		case done:
			return nil
		}
		state[i] = inProgress
		for _, child := range p.Nodes[i].Children {
			if err := visit(child); err != nil {
				return err
			}
		}
		state[i] = done
		return nil
	}
	if err := visit(root); err != nil {
		return err
	}
	for i := range state {
		if state[i] != done {
			return errors.Wrapf(ErrInvalidPlan, "node %d isn't reachable from the root", i)
		}
	}

	for i, node := range p.Nodes {
		if node.Operator.NodeType != NodeTypeJoin {
			continue
		}
		bound := p.boundTags(parents, i)
		for _, key := range append(append([]TagRef{}, node.Operator.Join.LeftKeys...), node.Operator.Join.RightKeys...) {
			if _, ok := bound[key.Tag]; !ok {
				return errors.Wrapf(ErrInvalidPlan, "join node %d key %s isn't bound upstream", i, key)
			}
		}
	}

	return nil
}

// boundTags returns all tags aliased by ancestors of the given node.
func (p *Plan) boundTags(parents [][]int, node int) map[pattern.Tag]struct{} {
	out := make(map[pattern.Tag]struct{})
	visited := make(map[int]struct{})
	queue := append([]int{}, parents[node]...)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if _, ok := visited[cur]; ok {
			continue
		}
		visited[cur] = struct{}{}
		switch op := p.Nodes[cur].Operator; op.NodeType {
		case NodeTypeAs:
			if op.As.Alias.IsValid() {
				out[op.As.Alias] = struct{}{}
			}
		case NodeTypeProject:
			if op.Project.Alias.IsValid() {
				out[op.Project.Alias] = struct{}{}
			}
		}
		queue = append(queue, parents[cur]...)
	}
	return out
}
