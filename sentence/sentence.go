package sentence

import (
	"fmt"
	"strings"

	"github.com/cube2222/octograph/pattern"
)

// ID addresses a sentence stored in an Arena.
type ID int

// NoSentence marks an absent tail or right side.
const NoSentence ID = -1

type SentenceType int

const (
	SentenceTypeBase SentenceType = iota
	SentenceTypeMerged
	SentenceTypeComposed
	SentenceTypeJoin
)

func (t SentenceType) String() string {
	switch t {
	case SentenceTypeBase:
		return "base"
	case SentenceTypeMerged:
		return "merged"
	case SentenceTypeComposed:
		return "composed"
	case SentenceTypeJoin:
		return "join"
	}
	return "unknown"
}

type Sentence struct {
	SentenceType SentenceType
	// Only one of the below may be non-null.
	Base     *Base
	Merged   *Merged
	Composed *Composed
	Join     *Join
}

type BindingKind int

const (
	BindingKindVertex BindingKind = iota
	BindingKindEdge
)

func (k BindingKind) String() string {
	switch k {
	case BindingKindVertex:
		return "vertex"
	case BindingKindEdge:
		return "edge"
	}
	return "unknown"
}

// Base is a single pattern sentence with its advisory statistics.
type Base struct {
	StartTag    pattern.Tag
	EndTag      pattern.Tag
	Tags        TagSet
	Binders     []pattern.Binder
	JoinKind    pattern.JoinKind
	BindingKind BindingKind
	FilterCount int
	HopCount    int
	// EmitsStartAlias is cleared for sentences continuing a chain, so the shared tag isn't aliased twice.
	EmitsStartAlias bool
}

// Merged groups base sentences with the same start and end tag.
// Inner members always come before non-inner ones.
type Merged struct {
	StartTag pattern.Tag
	EndTag   pattern.Tag
	Tags     TagSet
	Members  []ID
}

// Composed is a linear chain: Tail continues the walk of Head.
type Composed struct {
	Head ID
	Tail ID
	Tags TagSet
}

type Join struct {
	Left       ID
	Right      ID
	CommonTags TagSet
	Tags       TagSet
	JoinKind   pattern.JoinKind
}

// Arena owns all sentences of a single compilation.
// Composite sentences reference their parts by ID.
type Arena struct {
	sentences []Sentence
}

func NewArena() *Arena {
	return &Arena{}
}

func (a *Arena) add(s Sentence) ID {
	a.sentences = append(a.sentences, s)
	return ID(len(a.sentences) - 1)
}

func (a *Arena) Len() int {
	return len(a.sentences)
}

func (a *Arena) Get(id ID) Sentence {
	return a.sentences[id]
}

func (a *Arena) Tags(id ID) TagSet {
	s := a.sentences[id]
	switch s.SentenceType {
	case SentenceTypeBase:
		return s.Base.Tags
	case SentenceTypeMerged:
		return s.Merged.Tags
	case SentenceTypeComposed:
		return s.Composed.Tags
	case SentenceTypeJoin:
		return s.Join.Tags
	}
	panic(fmt.Sprintf("unexhaustive sentence type match: %v", s.SentenceType))
}

func (a *Arena) StartTag(id ID) pattern.Tag {
	s := a.sentences[id]
	switch s.SentenceType {
	case SentenceTypeBase:
		return s.Base.StartTag
	case SentenceTypeMerged:
		return s.Merged.StartTag
	case SentenceTypeComposed:
		return a.StartTag(s.Composed.Head)
	case SentenceTypeJoin:
		return a.StartTag(s.Join.Left)
	}
	panic(fmt.Sprintf("unexhaustive sentence type match: %v", s.SentenceType))
}

// JoinKind is the kind the sentence has as an operand of composition or join.
// A join fragment is a complete relation, so it's always inner, whatever its own join kind.
func (a *Arena) JoinKind(id ID) pattern.JoinKind {
	s := a.sentences[id]
	switch s.SentenceType {
	case SentenceTypeBase:
		return s.Base.JoinKind
	case SentenceTypeMerged:
		return a.JoinKind(s.Merged.Members[0])
	case SentenceTypeComposed:
		return a.JoinKind(s.Composed.Head)
	case SentenceTypeJoin:
		if s.Join.Right == NoSentence {
			return a.JoinKind(s.Join.Left)
		}
		return pattern.JoinKindInner
	}
	panic(fmt.Sprintf("unexhaustive sentence type match: %v", s.SentenceType))
}

// SetStartAlias sets whether the sentence binds its start tag when rendered.
func (a *Arena) SetStartAlias(id ID, emit bool) {
	s := a.sentences[id]
	switch s.SentenceType {
	case SentenceTypeBase:
		s.Base.EmitsStartAlias = emit
	case SentenceTypeMerged:
		for _, member := range s.Merged.Members {
			a.SetStartAlias(member, emit)
		}
	case SentenceTypeComposed:
		a.SetStartAlias(s.Composed.Head, emit)
	case SentenceTypeJoin:
		a.SetStartAlias(s.Join.Left, emit)
		if s.Join.Right != NoSentence {
			a.SetStartAlias(s.Join.Right, emit)
		}
	}
}

// Stats sums the filter and hop counts of all base sentences.
func (a *Arena) Stats(id ID) (filters, hops int) {
	s := a.sentences[id]
	var parts []ID
	switch s.SentenceType {
	case SentenceTypeBase:
		return s.Base.FilterCount, s.Base.HopCount
	case SentenceTypeMerged:
		parts = s.Merged.Members
	case SentenceTypeComposed:
		parts = []ID{s.Composed.Head, s.Composed.Tail}
	case SentenceTypeJoin:
		parts = []ID{s.Join.Left, s.Join.Right}
	}
	for _, part := range parts {
		if part == NoSentence {
			continue
		}
		f, h := a.Stats(part)
		filters += f
		hops += h
	}
	return filters, hops
}

// Describe returns a short human-readable form of the sentence, for logs and errors.
func (a *Arena) Describe(id ID) string {
	if id == NoSentence {
		return "<none>"
	}
	s := a.sentences[id]
	switch s.SentenceType {
	case SentenceTypeBase:
		binders := make([]string, len(s.Base.Binders))
		for i := range s.Base.Binders {
			binders[i] = s.Base.Binders[i].String()
		}
		out := fmt.Sprintf("%s-[%s]->%s", s.Base.StartTag, strings.Join(binders, "."), s.Base.EndTag)
		if s.Base.JoinKind != pattern.JoinKindInner {
			out += fmt.Sprintf("(%s)", s.Base.JoinKind)
		}
		return out
	case SentenceTypeMerged:
		members := make([]string, len(s.Merged.Members))
		for i := range s.Merged.Members {
			members[i] = a.Describe(s.Merged.Members[i])
		}
		return "[" + strings.Join(members, " & ") + "]"
	case SentenceTypeComposed:
		if s.Composed.Tail == NoSentence {
			return a.Describe(s.Composed.Head)
		}
		return fmt.Sprintf("(%s ~ %s)", a.Describe(s.Composed.Head), a.Describe(s.Composed.Tail))
	case SentenceTypeJoin:
		if s.Join.Right == NoSentence {
			return a.Describe(s.Join.Left)
		}
		return fmt.Sprintf("(%s %s-join%s %s)", a.Describe(s.Join.Left), s.Join.JoinKind, s.Join.CommonTags, a.Describe(s.Join.Right))
	}
	return "unknown"
}
