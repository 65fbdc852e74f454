package sentence

import (
	"sort"

	"github.com/cube2222/octograph/pattern"
)

// Key identifies a merged sentence by its start and end tag.
type Key struct {
	Start pattern.Tag
	End   pattern.Tag
}

func (k Key) Less(other Key) bool {
	if c := k.Start.Compare(other.Start); c != 0 {
		return c == -1
	}
	return k.End.Less(other.End)
}

// Merger groups base sentences sharing the same start and end tag.
type Merger struct {
	arena *Arena
	table map[Key]ID
}

func NewMerger(arena *Arena) *Merger {
	return &Merger{
		arena: arena,
		table: make(map[Key]ID),
	}
}

// Add merges the base sentence into the merged sentence for its tags, creating it if needed.
func (m *Merger) Add(base ID) {
	b := m.arena.sentences[base].Base
	key := Key{Start: b.StartTag, End: b.EndTag}

	merged, ok := m.table[key]
	if !ok {
		m.table[key] = m.arena.add(Sentence{
			SentenceType: SentenceTypeMerged,
			Merged: &Merged{
				StartTag: b.StartTag,
				EndTag:   b.EndTag,
				Tags:     b.Tags,
				Members:  []ID{base},
			},
		})
		return
	}

	s := m.arena.sentences[merged].Merged
	s.Members = append(s.Members, base)
	// Bubble a new inner member ahead of the non-inner ones, so the first join built is inner.
	for i := len(s.Members) - 1; i > 0; i-- {
		if m.arena.JoinKind(s.Members[i]) != pattern.JoinKindInner || m.arena.JoinKind(s.Members[i-1]) == pattern.JoinKindInner {
			break
		}
		s.Members[i], s.Members[i-1] = s.Members[i-1], s.Members[i]
	}
}

func (m *Merger) Len() int {
	return len(m.table)
}

func (m *Merger) Get(key Key) (ID, bool) {
	id, ok := m.table[key]
	return id, ok
}

// Take removes and returns the merged sentence for the key.
func (m *Merger) Take(key Key) (ID, bool) {
	id, ok := m.table[key]
	if ok {
		delete(m.table, key)
	}
	return id, ok
}

// Keys returns all keys, ordered by start tag, then end tag.
func (m *Merger) Keys() []Key {
	out := make([]Key, 0, len(m.table))
	for key := range m.table {
		out = append(out, key)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Less(out[j])
	})
	return out
}
