package sentence

import (
	"github.com/cube2222/octograph/pattern"
)

// Composite fuses tail into head as a single linear walk.
// Both have to be inner, head has to contain the start tag of tail, and they may share at most one tag.
// Sharing two tags is a join, not a walk.
func (a *Arena) Composite(head, tail ID) (ID, bool) {
	if a.JoinKind(head) != pattern.JoinKindInner || a.JoinKind(tail) != pattern.JoinKindInner {
		return NoSentence, false
	}
	headTags, tailTags := a.Tags(head), a.Tags(tail)
	if !headTags.Contains(a.StartTag(tail)) {
		return NoSentence, false
	}
	if headTags.Intersection(tailTags).Len() > 1 {
		return NoSentence, false
	}

	return a.add(Sentence{
		SentenceType: SentenceTypeComposed,
		Composed: &Composed{
			Head: head,
			Tail: tail,
			Tags: headTags.Union(tailTags),
		},
	}), true
}

// Leaf wraps a sentence as a chain without a tail.
func (a *Arena) Leaf(head ID) ID {
	return a.add(Sentence{
		SentenceType: SentenceTypeComposed,
		Composed: &Composed{
			Head: head,
			Tail: NoSentence,
			Tags: a.Tags(head),
		},
	})
}

// Join joins two fragments on their common tags.
// A non-inner fragment always ends up on the right and decides the join kind.
// Two non-inner fragments can't be joined.
func (a *Arena) Join(left, right ID) (ID, bool) {
	leftTags, rightTags := a.Tags(left), a.Tags(right)
	common := leftTags.Intersection(rightTags)
	if common.Len() == 0 {
		return NoSentence, false
	}

	leftKind, rightKind := a.JoinKind(left), a.JoinKind(right)
	kind := pattern.JoinKindInner
	switch {
	case leftKind != pattern.JoinKindInner && rightKind != pattern.JoinKindInner:
		return NoSentence, false
	case leftKind != pattern.JoinKindInner:
		left, right = right, left
		kind = leftKind
	case rightKind != pattern.JoinKindInner:
		kind = rightKind
	}

	return a.add(Sentence{
		SentenceType: SentenceTypeJoin,
		Join: &Join{
			Left:       left,
			Right:      right,
			CommonTags: common,
			Tags:       leftTags.Union(rightTags),
			JoinKind:   kind,
		},
	}), true
}

// Single wraps a fragment as a join without a right side.
func (a *Arena) Single(left ID) ID {
	return a.add(Sentence{
		SentenceType: SentenceTypeJoin,
		Join: &Join{
			Left:       left,
			Right:      NoSentence,
			CommonTags: NewTagSet(),
			Tags:       a.Tags(left),
			JoinKind:   a.JoinKind(left),
		},
	})
}

// MergedToJoin folds the members of a merged sentence into a left-deep join tree.
// A single member is returned as is. Otherwise the first member has to be inner.
func (a *Arena) MergedToJoin(id ID) (ID, bool) {
	members := a.sentences[id].Merged.Members
	if len(members) == 1 {
		return members[0], true
	}
	if a.JoinKind(members[0]) != pattern.JoinKindInner {
		return NoSentence, false
	}

	out := members[0]
	for _, member := range members[1:] {
		joined, ok := a.Join(out, member)
		if !ok {
			return NoSentence, false
		}
		out = joined
	}
	return out, true
}
