package logical

import (
	"fmt"
	"strings"

	"github.com/cube2222/octograph/pattern"
)

type NodeType int

const (
	NodeTypeAs NodeType = iota
	NodeTypeProject
	NodeTypeEdgeStep
	NodeTypeVertexStep
	NodeTypePathStep
	NodeTypeSelect
	NodeTypeJoin
)

func (t NodeType) String() string {
	switch t {
	case NodeTypeAs:
		return "as"
	case NodeTypeProject:
		return "project"
	case NodeTypeEdgeStep:
		return "edge_step"
	case NodeTypeVertexStep:
		return "vertex_step"
	case NodeTypePathStep:
		return "path_step"
	case NodeTypeSelect:
		return "select"
	case NodeTypeJoin:
		return "join"
	}
	return "unknown"
}

type Operator struct {
	NodeType NodeType
	// Only one of the below may be non-null.
	As         *As
	Project    *Project
	EdgeStep   *pattern.EdgeStep
	VertexStep *pattern.VertexStep
	PathStep   *pattern.PathStep
	Select     *pattern.PredicateStep
	Join       *Join
}

// As binds the current value under Alias. An absent alias just forwards the value.
type As struct {
	Alias pattern.Tag
}

// TagRef references the value bound under a tag.
type TagRef struct {
	Tag pattern.Tag
}

func (ref TagRef) String() string {
	return fmt.Sprintf("@%s", ref.Tag)
}

type Project struct {
	Expression TagRef
	Alias      pattern.Tag
	Append     bool
}

type Join struct {
	LeftKeys  []TagRef
	RightKeys []TagRef
	Kind      pattern.JoinKind
}

func NewAs(alias pattern.Tag) Operator {
	return Operator{
		NodeType: NodeTypeAs,
		As:       &As{Alias: alias},
	}
}

func NewProject(expr TagRef, alias pattern.Tag, appendColumns bool) Operator {
	return Operator{
		NodeType: NodeTypeProject,
		Project: &Project{
			Expression: expr,
			Alias:      alias,
			Append:     appendColumns,
		},
	}
}

// NewJoin creates a join operator keyed on the given tags on both sides.
func NewJoin(keys []pattern.Tag, kind pattern.JoinKind) Operator {
	leftKeys := make([]TagRef, len(keys))
	rightKeys := make([]TagRef, len(keys))
	for i := range keys {
		leftKeys[i] = TagRef{Tag: keys[i]}
		rightKeys[i] = TagRef{Tag: keys[i]}
	}
	return Operator{
		NodeType: NodeTypeJoin,
		Join: &Join{
			LeftKeys:  leftKeys,
			RightKeys: rightKeys,
			Kind:      kind,
		},
	}
}

// NewTraversal creates the operator executing a single binder of a sentence.
func NewTraversal(binder pattern.Binder) Operator {
	binder = binder.Clone()
	switch binder.BinderType {
	case pattern.BinderTypeEdge:
		return Operator{NodeType: NodeTypeEdgeStep, EdgeStep: binder.Edge}
	case pattern.BinderTypeVertex:
		return Operator{NodeType: NodeTypeVertexStep, VertexStep: binder.Vertex}
	case pattern.BinderTypePath:
		return Operator{NodeType: NodeTypePathStep, PathStep: binder.Path}
	case pattern.BinderTypePredicate:
		return Operator{NodeType: NodeTypeSelect, Select: binder.Predicate}
	}
	panic(fmt.Sprintf("unrecognized binder type: %v", binder.BinderType))
}

// Clone returns a deep copy, so that the copy may be modified freely.
func (op Operator) Clone() Operator {
	switch op.NodeType {
	case NodeTypeAs:
		as := *op.As
		return Operator{NodeType: op.NodeType, As: &as}
	case NodeTypeProject:
		project := *op.Project
		return Operator{NodeType: op.NodeType, Project: &project}
	case NodeTypeJoin:
		join := *op.Join
		join.LeftKeys = append([]TagRef(nil), op.Join.LeftKeys...)
		join.RightKeys = append([]TagRef(nil), op.Join.RightKeys...)
		return Operator{NodeType: op.NodeType, Join: &join}
	case NodeTypeEdgeStep:
		return NewTraversal(pattern.NewEdgeBinder(*op.EdgeStep))
	case NodeTypeVertexStep:
		return NewTraversal(pattern.NewVertexBinder(*op.VertexStep))
	case NodeTypePathStep:
		return NewTraversal(pattern.NewPathBinder(*op.PathStep))
	case NodeTypeSelect:
		return NewTraversal(pattern.NewPredicateBinder(op.Select.Predicate))
	}
	panic(fmt.Sprintf("unrecognized node type: %v", op.NodeType))
}

func joinTagRefs(refs []TagRef) string {
	out := make([]string, len(refs))
	for i := range refs {
		out[i] = refs[i].String()
	}
	return strings.Join(out, ", ")
}

func (op Operator) String() string {
	switch op.NodeType {
	case NodeTypeAs:
		return fmt.Sprintf("As(%s)", op.As.Alias)
	case NodeTypeProject:
		return fmt.Sprintf("Project(%s, alias=%s, append=%t)", op.Project.Expression, op.Project.Alias, op.Project.Append)
	case NodeTypeEdgeStep:
		return fmt.Sprintf("EdgeStep(%s)", op.EdgeStep)
	case NodeTypeVertexStep:
		return fmt.Sprintf("VertexStep(%s)", op.VertexStep)
	case NodeTypePathStep:
		return fmt.Sprintf("PathStep(%s)", op.PathStep)
	case NodeTypeSelect:
		return fmt.Sprintf("Select(%s)", op.Select.Predicate)
	case NodeTypeJoin:
		return fmt.Sprintf("Join(%s; %s, %s)", op.Join.Kind, joinTagRefs(op.Join.LeftKeys), joinTagRefs(op.Join.RightKeys))
	}
	return "unknown"
}
