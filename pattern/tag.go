package pattern

import (
	"fmt"
	"strings"
)

type tagKind uint8

const (
	tagNone tagKind = iota
	tagID
	tagName
)

// Tag names a bound point of a pattern. It's either an integer or a name.
// The zero value is the absent tag.
//
// Tags are totally ordered: the absent tag first, then integer tags by value,
// then named tags lexicographically.
type Tag struct {
	kind tagKind
	id   int32
	name string
}

var NoTag = Tag{}

func IDTag(id int32) Tag {
	return Tag{kind: tagID, id: id}
}

func NameTag(name string) Tag {
	return Tag{kind: tagName, name: name}
}

func (t Tag) IsValid() bool {
	return t.kind != tagNone
}

func (t Tag) IsID() bool {
	return t.kind == tagID
}

func (t Tag) ID() int32 {
	return t.id
}

func (t Tag) Name() string {
	return t.name
}

func (t Tag) Compare(other Tag) int {
	if t.kind != other.kind {
		if t.kind < other.kind {
			return -1
		}
		return 1
	}
	switch t.kind {
	case tagID:
		switch {
		case t.id < other.id:
			return -1
		case t.id > other.id:
			return 1
		}
		return 0
	case tagName:
		return strings.Compare(t.name, other.name)
	}
	return 0
}

func (t Tag) Less(other Tag) bool {
	return t.Compare(other) == -1
}

func (t Tag) String() string {
	switch t.kind {
	case tagID:
		return fmt.Sprintf("#%d", t.id)
	case tagName:
		return t.name
	}
	return "None"
}

func (t Tag) MarshalYAML() (interface{}, error) {
	switch t.kind {
	case tagID:
		return t.id, nil
	case tagName:
		return t.name, nil
	}
	return nil, nil
}
