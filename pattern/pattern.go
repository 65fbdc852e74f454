package pattern

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrEmptyPattern    = errors.New("pattern has no sentences")
	ErrMissingStartTag = errors.New("sentence has no start tag")
	ErrEmptySentence   = errors.New("sentence has no binders")
	ErrPathBinding     = errors.New("path can't be bound as a terminal entity")
	ErrInvalidHopRange = errors.New("invalid hop range")
	ErrMalformedBinder = errors.New("malformed binder")
	ErrInvalidTag      = errors.New("invalid tag")
)

// Params configures what a traversal step reads and filters on.
type Params struct {
	Labels     []string
	Columns    []string
	AllColumns bool
	Predicate  string
}

func (p Params) HasPredicate() bool {
	return p.Predicate != ""
}

func (p Params) HasColumns() bool {
	return len(p.Columns) > 0 || p.AllColumns
}

// IsFiltering is true if the step carries a predicate or an explicit column clause.
func (p Params) IsFiltering() bool {
	return p.HasPredicate() || p.HasColumns()
}

func (p Params) String() string {
	var parts []string
	if len(p.Labels) > 0 {
		parts = append(parts, strings.Join(p.Labels, "|"))
	}
	if p.AllColumns {
		parts = append(parts, "columns=*")
	} else if len(p.Columns) > 0 {
		parts = append(parts, fmt.Sprintf("columns=%s", strings.Join(p.Columns, ",")))
	}
	if p.HasPredicate() {
		parts = append(parts, fmt.Sprintf("where %s", p.Predicate))
	}
	return strings.Join(parts, "; ")
}

func (p Params) clone() Params {
	out := p
	out.Labels = append([]string(nil), p.Labels...)
	out.Columns = append([]string(nil), p.Columns...)
	return out
}

type EdgeStep struct {
	Direction Direction
	ExpandOpt ExpandOpt
	Params    Params
}

func (s EdgeStep) String() string {
	name := s.Direction.String()
	switch s.ExpandOpt {
	case ExpandOptEdge:
		name += "E"
	case ExpandOptDegree:
		name += "Degree"
	}
	return fmt.Sprintf("%s(%s)", name, s.Params)
}

type VertexStep struct {
	Opt    VertexOpt
	Params Params
}

func (s VertexStep) String() string {
	return fmt.Sprintf("getV[%s](%s)", s.Opt, s.Params)
}

// PathStep repeats its edge step between Lower (inclusive) and Upper (exclusive) times.
type PathStep struct {
	Edge  EdgeStep
	Lower int
	Upper int
}

func (s PathStep) String() string {
	return fmt.Sprintf("path[%d..%d](%s)", s.Lower, s.Upper, s.Edge)
}

type PredicateStep struct {
	Predicate string
}

func (s PredicateStep) String() string {
	return fmt.Sprintf("select(%s)", s.Predicate)
}

type BinderType int

const (
	BinderTypeEdge BinderType = iota
	BinderTypeVertex
	BinderTypePath
	BinderTypePredicate
)

func (t BinderType) String() string {
	switch t {
	case BinderTypeEdge:
		return "edge"
	case BinderTypeVertex:
		return "vertex"
	case BinderTypePath:
		return "path"
	case BinderTypePredicate:
		return "predicate"
	}
	return "unknown"
}

type Binder struct {
	BinderType BinderType
	// Only one of the below may be non-null.
	Edge      *EdgeStep
	Vertex    *VertexStep
	Path      *PathStep
	Predicate *PredicateStep
}

func NewEdgeBinder(step EdgeStep) Binder {
	return Binder{BinderType: BinderTypeEdge, Edge: &step}
}

func NewVertexBinder(step VertexStep) Binder {
	return Binder{BinderType: BinderTypeVertex, Vertex: &step}
}

func NewPathBinder(step PathStep) Binder {
	return Binder{BinderType: BinderTypePath, Path: &step}
}

func NewPredicateBinder(predicate string) Binder {
	return Binder{BinderType: BinderTypePredicate, Predicate: &PredicateStep{Predicate: predicate}}
}

// Clone returns a deep copy, so that the copy may be modified freely.
func (b Binder) Clone() Binder {
	out := Binder{BinderType: b.BinderType}
	switch b.BinderType {
	case BinderTypeEdge:
		step := *b.Edge
		step.Params = b.Edge.Params.clone()
		out.Edge = &step
	case BinderTypeVertex:
		step := *b.Vertex
		step.Params = b.Vertex.Params.clone()
		out.Vertex = &step
	case BinderTypePath:
		step := *b.Path
		step.Edge.Params = b.Path.Edge.Params.clone()
		out.Path = &step
	case BinderTypePredicate:
		step := *b.Predicate
		out.Predicate = &step
	}
	return out
}

func (b Binder) String() string {
	switch b.BinderType {
	case BinderTypeEdge:
		return b.Edge.String()
	case BinderTypeVertex:
		return b.Vertex.String()
	case BinderTypePath:
		return b.Path.String()
	case BinderTypePredicate:
		return b.Predicate.String()
	}
	return "unknown"
}

func (b Binder) Validate() error {
	switch b.BinderType {
	case BinderTypeEdge:
		if b.Edge == nil {
			return errors.Wrap(ErrMalformedBinder, "edge binder without edge step")
		}
	case BinderTypeVertex:
		if b.Vertex == nil {
			return errors.Wrap(ErrMalformedBinder, "vertex binder without vertex step")
		}
	case BinderTypePath:
		if b.Path == nil {
			return errors.Wrap(ErrMalformedBinder, "path binder without path step")
		}
		if b.Path.Lower < 0 || b.Path.Upper <= b.Path.Lower {
			return errors.Wrapf(ErrInvalidHopRange, "[%d, %d)", b.Path.Lower, b.Path.Upper)
		}
	case BinderTypePredicate:
		if b.Predicate == nil || b.Predicate.Predicate == "" {
			return errors.Wrap(ErrMalformedBinder, "predicate binder without predicate")
		}
	default:
		return errors.Wrapf(ErrMalformedBinder, "binder type %d", b.BinderType)
	}
	return nil
}

// Sentence is a raw pattern sentence, as it arrives from the caller.
type Sentence struct {
	Start    Tag
	End      Tag
	Binders  []Binder
	JoinKind JoinKind
}

func (s Sentence) Validate() error {
	if !s.Start.IsValid() {
		return ErrMissingStartTag
	}
	if len(s.Binders) == 0 {
		return ErrEmptySentence
	}
	for i := range s.Binders {
		if err := s.Binders[i].Validate(); err != nil {
			return errors.Wrapf(err, "invalid binder with index %d", i)
		}
	}
	return nil
}

func (s Sentence) String() string {
	binders := make([]string, len(s.Binders))
	for i := range s.Binders {
		binders[i] = s.Binders[i].String()
	}
	return fmt.Sprintf("%s-[%s]->%s (%s)", s.Start, strings.Join(binders, "."), s.End, s.JoinKind)
}

type Pattern struct {
	Sentences []Sentence
}

func (p *Pattern) Validate() error {
	if len(p.Sentences) == 0 {
		return ErrEmptyPattern
	}
	for i := range p.Sentences {
		if err := p.Sentences[i].Validate(); err != nil {
			return errors.Wrapf(err, "invalid sentence with index %d", i)
		}
	}
	return nil
}
