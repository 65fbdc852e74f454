package pattern

import (
	"github.com/pkg/errors"
)

var ErrUnknownCode = errors.New("unknown wire code")

type JoinKind int

const (
	JoinKindInner JoinKind = iota
	JoinKindLeftOuter
	JoinKindRightOuter
	JoinKindFullOuter
	JoinKindSemi
	JoinKindAnti
	JoinKindTimes
)

func (k JoinKind) String() string {
	switch k {
	case JoinKindInner:
		return "inner"
	case JoinKindLeftOuter:
		return "left_outer"
	case JoinKindRightOuter:
		return "right_outer"
	case JoinKindFullOuter:
		return "full_outer"
	case JoinKindSemi:
		return "semi"
	case JoinKindAnti:
		return "anti"
	case JoinKindTimes:
		return "times"
	}
	return "unknown"
}

// DecodeJoinKind maps a wire-level join kind code onto JoinKind.
func DecodeJoinKind(code int32) (JoinKind, error) {
	switch code {
	case 0:
		return JoinKindInner, nil
	case 1:
		return JoinKindLeftOuter, nil
	case 2:
		return JoinKindRightOuter, nil
	case 3:
		return JoinKindFullOuter, nil
	case 4:
		return JoinKindSemi, nil
	case 5:
		return JoinKindAnti, nil
	case 6:
		return JoinKindTimes, nil
	}
	return 0, errors.Wrapf(ErrUnknownCode, "join kind %d", code)
}

func ParseJoinKind(name string) (JoinKind, error) {
	for k := JoinKindInner; k <= JoinKindTimes; k++ {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, errors.Errorf("unknown join kind: %s", name)
}

type Direction int

const (
	DirectionOut Direction = iota
	DirectionIn
	DirectionBoth
)

func (d Direction) String() string {
	switch d {
	case DirectionOut:
		return "out"
	case DirectionIn:
		return "in"
	case DirectionBoth:
		return "both"
	}
	return "unknown"
}

// Reverse returns the direction of the same edge walked from the other side.
func (d Direction) Reverse() Direction {
	switch d {
	case DirectionOut:
		return DirectionIn
	case DirectionIn:
		return DirectionOut
	}
	return d
}

func DecodeDirection(code int32) (Direction, error) {
	switch code {
	case 0:
		return DirectionOut, nil
	case 1:
		return DirectionIn, nil
	case 2:
		return DirectionBoth, nil
	}
	return 0, errors.Wrapf(ErrUnknownCode, "direction %d", code)
}

func ParseDirection(name string) (Direction, error) {
	for d := DirectionOut; d <= DirectionBoth; d++ {
		if d.String() == name {
			return d, nil
		}
	}
	return 0, errors.Errorf("unknown direction: %s", name)
}

// ExpandOpt says what an edge step yields: the adjacent vertex, the edge itself, or the degree.
type ExpandOpt int

const (
	ExpandOptVertex ExpandOpt = iota
	ExpandOptEdge
	ExpandOptDegree
)

func (o ExpandOpt) String() string {
	switch o {
	case ExpandOptVertex:
		return "vertex"
	case ExpandOptEdge:
		return "edge"
	case ExpandOptDegree:
		return "degree"
	}
	return "unknown"
}

func DecodeExpandOpt(code int32) (ExpandOpt, error) {
	switch code {
	case 0:
		return ExpandOptVertex, nil
	case 1:
		return ExpandOptEdge, nil
	case 2:
		return ExpandOptDegree, nil
	}
	return 0, errors.Wrapf(ErrUnknownCode, "expand option %d", code)
}

func ParseExpandOpt(name string) (ExpandOpt, error) {
	for o := ExpandOptVertex; o <= ExpandOptDegree; o++ {
		if o.String() == name {
			return o, nil
		}
	}
	return 0, errors.Errorf("unknown expand option: %s", name)
}

// VertexOpt selects which endpoint of the current edge a vertex step moves to.
type VertexOpt int

const (
	VertexOptStart VertexOpt = iota
	VertexOptEnd
	VertexOptOther
	VertexOptBoth
	VertexOptItself
)

func (o VertexOpt) String() string {
	switch o {
	case VertexOptStart:
		return "start"
	case VertexOptEnd:
		return "end"
	case VertexOptOther:
		return "other"
	case VertexOptBoth:
		return "both"
	case VertexOptItself:
		return "itself"
	}
	return "unknown"
}

// Reverse swaps the start and end endpoints, the rest are symmetric.
func (o VertexOpt) Reverse() VertexOpt {
	switch o {
	case VertexOptStart:
		return VertexOptEnd
	case VertexOptEnd:
		return VertexOptStart
	}
	return o
}

func DecodeVertexOpt(code int32) (VertexOpt, error) {
	switch code {
	case 0:
		return VertexOptStart, nil
	case 1:
		return VertexOptEnd, nil
	case 2:
		return VertexOptOther, nil
	case 3:
		return VertexOptBoth, nil
	case 4:
		return VertexOptItself, nil
	}
	return 0, errors.Wrapf(ErrUnknownCode, "vertex option %d", code)
}

func ParseVertexOpt(name string) (VertexOpt, error) {
	for o := VertexOptStart; o <= VertexOptItself; o++ {
		if o.String() == name {
			return o, nil
		}
	}
	return 0, errors.Errorf("unknown vertex option: %s", name)
}
