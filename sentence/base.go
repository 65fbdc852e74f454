package sentence

import (
	"github.com/pkg/errors"

	"github.com/cube2222/octograph/pattern"
)

// AddBase validates a raw pattern sentence and stores it as a base sentence.
func (a *Arena) AddBase(raw pattern.Sentence) (ID, error) {
	if !raw.Start.IsValid() {
		return NoSentence, pattern.ErrMissingStartTag
	}
	if len(raw.Binders) == 0 {
		return NoSentence, pattern.ErrEmptySentence
	}

	binders := make([]pattern.Binder, len(raw.Binders))
	var filters, hops int
	for i := range raw.Binders {
		if err := raw.Binders[i].Validate(); err != nil {
			return NoSentence, errors.Wrapf(err, "invalid binder with index %d", i)
		}
		binders[i] = raw.Binders[i].Clone()
		f, h := binderStats(binders[i])
		filters += f
		hops += h
	}

	bindingKind, err := terminalBinding(binders)
	if err != nil {
		return NoSentence, err
	}

	return a.add(Sentence{
		SentenceType: SentenceTypeBase,
		Base: &Base{
			StartTag:        raw.Start,
			EndTag:          raw.End,
			Tags:            NewTagSet(raw.Start, raw.End),
			Binders:         binders,
			JoinKind:        raw.JoinKind,
			BindingKind:     bindingKind,
			FilterCount:     filters,
			HopCount:        hops,
			EmitsStartAlias: true,
		},
	}), nil
}

func binderStats(binder pattern.Binder) (filters, hops int) {
	switch binder.BinderType {
	case pattern.BinderTypeEdge:
		hops = 1
		if binder.Edge.Params.IsFiltering() {
			filters = 1
		}
	case pattern.BinderTypeVertex:
		if binder.Vertex.Params.IsFiltering() {
			filters = 1
		}
	case pattern.BinderTypePath:
		hops = binder.Path.Upper
		if binder.Path.Edge.Params.IsFiltering() {
			filters = binder.Path.Upper
		}
	case pattern.BinderTypePredicate:
		filters = 1
	}
	return filters, hops
}

// terminalBinding decides what the sentence binds its end tag to.
// Trailing predicates don't change the binding.
func terminalBinding(binders []pattern.Binder) (BindingKind, error) {
	for i := len(binders) - 1; i >= 0; i-- {
		switch binders[i].BinderType {
		case pattern.BinderTypePredicate:
			continue
		case pattern.BinderTypePath:
			return 0, pattern.ErrPathBinding
		case pattern.BinderTypeEdge:
			if binders[i].Edge.ExpandOpt == pattern.ExpandOptEdge {
				return BindingKindEdge, nil
			}
		}
		return BindingKindVertex, nil
	}
	return BindingKindVertex, nil
}
