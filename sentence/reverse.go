package sentence

import (
	"github.com/cube2222/octograph/pattern"
)

// Reverse flips the sentence so it's walked from its end tag.
// It returns false and leaves the sentence untouched if that isn't possible.
// Only base and merged sentences can be reversed; a merged sentence only if all of its members can.
func (a *Arena) Reverse(id ID) bool {
	s := a.sentences[id]
	switch s.SentenceType {
	case SentenceTypeBase:
		reversed, ok := reverseBase(s.Base)
		if !ok {
			return false
		}
		a.sentences[id].Base = reversed

	case SentenceTypeMerged:
		reversed := make([]*Base, len(s.Merged.Members))
		for i, member := range s.Merged.Members {
			var ok bool
			if reversed[i], ok = reverseBase(a.sentences[member].Base); !ok {
				return false
			}
		}
		for i, member := range s.Merged.Members {
			a.sentences[member].Base = reversed[i]
		}
		a.sentences[id].Merged = &Merged{
			StartTag: s.Merged.EndTag,
			EndTag:   s.Merged.StartTag,
			Tags:     s.Merged.Tags,
			Members:  s.Merged.Members,
		}

	default:
		return false
	}
	return true
}

func reverseBase(b *Base) (*Base, bool) {
	if !b.EndTag.IsValid() {
		return nil, false
	}

	// Walking from the other end visits the binders backwards.
	binders := make([]pattern.Binder, len(b.Binders))
	for i := range b.Binders {
		binder, ok := reverseBinder(b.Binders[i])
		if !ok {
			return nil, false
		}
		binders[len(b.Binders)-1-i] = binder
	}

	out := *b
	out.StartTag, out.EndTag = b.EndTag, b.StartTag
	out.Binders = binders
	return &out, true
}

func reverseBinder(binder pattern.Binder) (pattern.Binder, bool) {
	out := binder.Clone()
	switch out.BinderType {
	case pattern.BinderTypeEdge:
		if !isReversibleEdge(*out.Edge) {
			return pattern.Binder{}, false
		}
		out.Edge.Direction = out.Edge.Direction.Reverse()
	case pattern.BinderTypePath:
		if !isReversibleEdge(out.Path.Edge) {
			return pattern.Binder{}, false
		}
		out.Path.Edge.Direction = out.Path.Edge.Direction.Reverse()
	case pattern.BinderTypeVertex:
		out.Vertex.Opt = out.Vertex.Opt.Reverse()
	}
	return out, true
}

// isReversibleEdge is false for steps yielding anything but the adjacent vertex,
// and for steps with columns or predicates, which are tied to the walk direction.
func isReversibleEdge(step pattern.EdgeStep) bool {
	return step.ExpandOpt == pattern.ExpandOptVertex &&
		!step.Params.HasColumns() &&
		!step.Params.HasPredicate()
}
