package logical

import (
	"github.com/pkg/errors"

	"github.com/cube2222/octograph/pattern"
)

var (
	ErrTooManyRoots = errors.New("plan has more than two roots")
	ErrInvalidPlan  = errors.New("invalid logical plan")
)

type Node struct {
	Operator Operator
	Children []int
}

// Plan is a DAG of operators stored as a flat node list.
// Children and Roots are indices into Nodes.
type Plan struct {
	Nodes []Node
	Roots []int
}

func (p *Plan) Len() int {
	return len(p.Nodes)
}

// LastNode returns the index of the most recently appended node.
func (p *Plan) LastNode() (int, bool) {
	if len(p.Nodes) == 0 {
		return 0, false
	}
	return len(p.Nodes) - 1, true
}

// AppendNode adds the operator as a child of all parents. A node without parents becomes a root.
func (p *Plan) AppendNode(op Operator, parents ...int) int {
	id := len(p.Nodes)
	p.Nodes = append(p.Nodes, Node{Operator: op})
	for _, parent := range parents {
		p.Nodes[parent].Children = append(p.Nodes[parent].Children, id)
	}
	if len(parents) == 0 {
		p.Roots = append(p.Roots, id)
	}
	return id
}

// AppendPlan splices other in, shifting its indices by the current size of the plan.
// The roots of other become children of all parents, or roots of the plan if there are none.
// Operators are copied, so other may be modified afterwards.
func (p *Plan) AppendPlan(other *Plan, parents ...int) {
	offset := len(p.Nodes)
	for _, node := range other.Nodes {
		children := make([]int, len(node.Children))
		for i := range node.Children {
			children[i] = node.Children[i] + offset
		}
		p.Nodes = append(p.Nodes, Node{
			Operator: node.Operator.Clone(),
			Children: children,
		})
	}
	for _, root := range other.Roots {
		if len(parents) == 0 {
			p.Roots = append(p.Roots, root+offset)
			continue
		}
		for _, parent := range parents {
			p.Nodes[parent].Children = append(p.Nodes[parent].Children, root+offset)
		}
	}
}

// Preprocess normalizes the plan to a single root.
// With two roots, an As(None) node is inserted at index 0, pointing at both.
func (p *Plan) Preprocess() error {
	switch len(p.Roots) {
	case 0:
		if len(p.Nodes) == 0 {
			return nil
		}
		return errors.Wrap(ErrInvalidPlan, "plan with nodes has no roots")
	case 1:
		return nil
	case 2:
	default:
		return errors.Wrapf(ErrTooManyRoots, "got %d roots", len(p.Roots))
	}

	nodes := make([]Node, 0, len(p.Nodes)+1)
	nodes = append(nodes, Node{
		Operator: NewAs(pattern.NoTag),
		Children: []int{p.Roots[0] + 1, p.Roots[1] + 1},
	})
	for _, node := range p.Nodes {
		children := make([]int, len(node.Children))
		for i := range node.Children {
			children[i] = node.Children[i] + 1
		}
		nodes = append(nodes, Node{
			Operator: node.Operator,
			Children: children,
		})
	}
	p.Nodes = nodes
	p.Roots = []int{0}
	return nil
}

// Clone returns a deep copy of the plan, operators included.
func (p *Plan) Clone() *Plan {
	out := &Plan{
		Nodes: make([]Node, len(p.Nodes)),
		Roots: append([]int(nil), p.Roots...),
	}
	for i, node := range p.Nodes {
		out.Nodes[i] = Node{
			Operator: node.Operator.Clone(),
			Children: append([]int(nil), node.Children...),
		}
	}
	return out
}

// CountNodes returns the number of nodes with the given type.
func (p *Plan) CountNodes(nodeType NodeType) int {
	count := 0
	for i := range p.Nodes {
		if p.Nodes[i].Operator.NodeType == nodeType {
			count++
		}
	}
	return count
}
