package sentence

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/cube2222/octograph/logical"
	"github.com/cube2222/octograph/pattern"
)

var ErrInvalidMerge = errors.New("merged sentence has no inner member to start the join with")

// BuildLogicalPlan renders the sentence tree into a flat logical plan.
// Join fragments come out with two roots, one per side; the caller normalizes them.
func (a *Arena) BuildLogicalPlan(id ID) (*logical.Plan, error) {
	s := a.sentences[id]
	switch s.SentenceType {
	case SentenceTypeBase:
		return buildBase(s.Base), nil

	case SentenceTypeMerged:
		joined, ok := a.MergedToJoin(id)
		if !ok {
			return nil, errors.Wrapf(ErrInvalidMerge, "couldn't join members of %s", a.Describe(id))
		}
		return a.BuildLogicalPlan(joined)

	case SentenceTypeComposed:
		return a.buildComposed(s.Composed)

	case SentenceTypeJoin:
		return a.buildJoin(s.Join)
	}
	panic(fmt.Sprintf("unexhaustive sentence type match: %v", s.SentenceType))
}

func buildBase(b *Base) *logical.Plan {
	plan := &logical.Plan{}
	var parents []int
	if b.EmitsStartAlias {
		parents = []int{plan.AppendNode(logical.NewAs(b.StartTag))}
	}
	for _, binder := range b.Binders {
		parents = []int{plan.AppendNode(logical.NewTraversal(binder), parents...)}
	}
	if b.EndTag.IsValid() {
		plan.AppendNode(logical.NewAs(b.EndTag), parents...)
	}
	return plan
}

func (a *Arena) buildComposed(c *Composed) (*logical.Plan, error) {
	plan, err := a.BuildLogicalPlan(c.Head)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't build logical plan of chain head")
	}
	if c.Tail == NoSentence {
		return plan, nil
	}
	tail, err := a.BuildLogicalPlan(c.Tail)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't build logical plan of chain tail")
	}

	last, _ := plan.LastNode()
	if start := a.StartTag(c.Head); start == a.StartTag(c.Tail) {
		// The tail branches off the start tag of the head, so it has to be brought back.
		last = plan.AppendNode(logical.NewProject(logical.TagRef{Tag: start}, pattern.NoTag, true), last)
	}
	plan.AppendPlan(tail, last)
	return plan, nil
}

func (a *Arena) buildJoin(j *Join) (*logical.Plan, error) {
	plan, err := a.BuildLogicalPlan(j.Left)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't build logical plan of join left side")
	}
	if j.Right == NoSentence {
		return plan, nil
	}
	right, err := a.BuildLogicalPlan(j.Right)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't build logical plan of join right side")
	}

	if err := plan.Preprocess(); err != nil {
		return nil, errors.Wrap(err, "couldn't normalize join left side")
	}
	if err := right.Preprocess(); err != nil {
		return nil, errors.Wrap(err, "couldn't normalize join right side")
	}

	leftLast, _ := plan.LastNode()
	rightLast, _ := right.LastNode()
	rightLast += plan.Len()

	plan.AppendPlan(right)
	plan.AppendNode(logical.NewJoin(j.CommonTags.Tags(), j.JoinKind), leftLast, rightLast)
	return plan, nil
}
