package sentence

import (
	"strings"

	"github.com/google/btree"

	"github.com/cube2222/octograph/pattern"
)

type tagItem pattern.Tag

func (t tagItem) Less(than btree.Item) bool {
	other, ok := than.(tagItem)
	if !ok {
		return true
	}

	return pattern.Tag(t).Less(pattern.Tag(other))
}

// TagSet is an ordered set of valid tags. It's never modified after creation.
type TagSet struct {
	tree *btree.BTree
}

func NewTagSet(tags ...pattern.Tag) TagSet {
	tree := btree.New(2)
	for _, tag := range tags {
		if tag.IsValid() {
			tree.ReplaceOrInsert(tagItem(tag))
		}
	}
	return TagSet{tree: tree}
}

func (s TagSet) Len() int {
	if s.tree == nil {
		return 0
	}
	return s.tree.Len()
}

func (s TagSet) Contains(tag pattern.Tag) bool {
	if s.tree == nil {
		return false
	}
	return s.tree.Has(tagItem(tag))
}

// Tags returns the tags in ascending order.
func (s TagSet) Tags() []pattern.Tag {
	if s.tree == nil {
		return nil
	}
	out := make([]pattern.Tag, 0, s.tree.Len())
	s.tree.Ascend(func(item btree.Item) bool {
		out = append(out, pattern.Tag(item.(tagItem)))
		return true
	})
	return out
}

func (s TagSet) Union(other TagSet) TagSet {
	return NewTagSet(append(s.Tags(), other.Tags()...)...)
}

func (s TagSet) Intersection(other TagSet) TagSet {
	var common []pattern.Tag
	for _, tag := range s.Tags() {
		if other.Contains(tag) {
			common = append(common, tag)
		}
	}
	return NewTagSet(common...)
}

func (s TagSet) String() string {
	tags := s.Tags()
	out := make([]string, len(tags))
	for i := range tags {
		out[i] = tags[i].String()
	}
	return "{" + strings.Join(out, ", ") + "}"
}
