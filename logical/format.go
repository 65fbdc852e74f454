package logical

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kr/text"
	"github.com/olekukonko/tablewriter"

	"github.com/cube2222/octograph/graph"
)

func explainOperator(op Operator) *graph.Node {
	var out *graph.Node
	switch op.NodeType {
	case NodeTypeAs:
		out = graph.NewNode("as")
		out.AddField("alias", op.As.Alias.String())

	case NodeTypeProject:
		out = graph.NewNode("project")
		out.AddField("expression", op.Project.Expression.String())
		out.AddField("alias", op.Project.Alias.String())
		out.AddField("append", strconv.FormatBool(op.Project.Append))

	case NodeTypeEdgeStep:
		out = graph.NewNode("edge step")
		out.AddField("direction", op.EdgeStep.Direction.String())
		out.AddField("expand", op.EdgeStep.ExpandOpt.String())
		if params := op.EdgeStep.Params.String(); params != "" {
			out.AddField("params", params)
		}

	case NodeTypeVertexStep:
		out = graph.NewNode("vertex step")
		out.AddField("opt", op.VertexStep.Opt.String())
		if params := op.VertexStep.Params.String(); params != "" {
			out.AddField("params", params)
		}

	case NodeTypePathStep:
		out = graph.NewNode("path step")
		out.AddField("hops", fmt.Sprintf("[%d, %d)", op.PathStep.Lower, op.PathStep.Upper))
		out.AddField("edge", op.PathStep.Edge.String())

	case NodeTypeSelect:
		out = graph.NewNode("select")
		out.AddField("predicate", op.Select.Predicate)

	case NodeTypeJoin:
		out = graph.NewNode("join")
		out.AddField("kind", op.Join.Kind.String())
		out.AddField("left keys", joinTagRefs(op.Join.LeftKeys))
		out.AddField("right keys", joinTagRefs(op.Join.RightKeys))

	default:
		panic(fmt.Sprintf("unexhaustive node type match: %v", op.NodeType))
	}
	return out
}

var _ graph.Visualizer = &Plan{}

// Visualize builds the explain graph of the plan, sharing nodes the way the plan does.
func (p *Plan) Visualize() *graph.Node {
	nodes := make([]*graph.Node, len(p.Nodes))
	for i := range p.Nodes {
		nodes[i] = explainOperator(p.Nodes[i].Operator)
	}
	for i := range p.Nodes {
		for j, child := range p.Nodes[i].Children {
			nodes[i].AddChild(fmt.Sprintf("child_%d", j), nodes[child])
		}
	}

	if len(p.Roots) == 1 {
		return nodes[p.Roots[0]]
	}
	out := graph.NewNode("plan")
	for i, root := range p.Roots {
		out.AddChild(fmt.Sprintf("root_%d", i), nodes[root])
	}
	return out
}

// FormatTree writes the plan as an indented tree.
// Nodes reachable through more than one parent are expanded once and referenced afterwards.
func (p *Plan) FormatTree(w io.Writer) error {
	printed := make(map[int]bool)
	var format func(i int) string
	format = func(i int) string {
		if printed[i] {
			return fmt.Sprintf("-> #%d\n", i)
		}
		printed[i] = true

		var sb strings.Builder
		fmt.Fprintf(&sb, "#%d %s\n", i, p.Nodes[i].Operator)
		for _, child := range p.Nodes[i].Children {
			sb.WriteString(text.Indent(format(child), "  "))
		}
		return sb.String()
	}

	for _, root := range p.Roots {
		if _, err := io.WriteString(w, format(root)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Plan) FormatTable(w io.Writer) {
	roots := make(map[int]bool)
	for _, root := range p.Roots {
		roots[root] = true
	}

	table := tablewriter.NewWriter(w)
	table.SetColWidth(64)
	table.SetRowLine(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"id", "operator", "children", "root"})
	for i, node := range p.Nodes {
		children := make([]string, len(node.Children))
		for j := range node.Children {
			children[j] = strconv.Itoa(node.Children[j])
		}
		root := ""
		if roots[i] {
			root = "*"
		}
		table.Append([]string{
			strconv.Itoa(i),
			node.Operator.String(),
			strings.Join(children, ", "),
			root,
		})
	}
	table.Render()
}

type yamlNode struct {
	ID       int    `yaml:"id"`
	Operator string `yaml:"operator"`
	Children []int  `yaml:"children,flow"`
}

type yamlPlan struct {
	Nodes []yamlNode `yaml:"nodes"`
	Roots []int      `yaml:"roots,flow"`
}

func (p *Plan) MarshalYAML() (interface{}, error) {
	out := yamlPlan{
		Nodes: make([]yamlNode, len(p.Nodes)),
		Roots: p.Roots,
	}
	for i, node := range p.Nodes {
		out.Nodes[i] = yamlNode{
			ID:       i,
			Operator: node.Operator.String(),
			Children: node.Children,
		}
	}
	return out, nil
}
