package planner

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cube2222/octograph/pattern"
	"github.com/cube2222/octograph/sentence"
)

func tags(names ...string) []pattern.Tag {
	out := make([]pattern.Tag, len(names))
	for i := range names {
		if names[i] == "" {
			out[i] = pattern.NoTag
			continue
		}
		out[i] = pattern.NameTag(names[i])
	}
	return out
}

func TestTagQueue_popUnvisited(t *testing.T) {
	tests := []struct {
		name      string
		queue     []string
		visited   []string
		self      string
		want      string
		wantOK    bool
		wantQueue []string
	}{
		{
			name:      "first unvisited",
			queue:     []string{"a", "b", "c"},
			visited:   []string{"x"},
			self:      "x",
			want:      "a",
			wantOK:    true,
			wantQueue: []string{"b", "c"},
		},
		{
			name:      "visited rotated to the back",
			queue:     []string{"a", "b", "c"},
			visited:   []string{"a", "b", "x"},
			self:      "x",
			want:      "c",
			wantOK:    true,
			wantQueue: []string{"a", "b"},
		},
		{
			name:      "all visited keeps order after a full rotation",
			queue:     []string{"a", "b"},
			visited:   []string{"a", "b", "x"},
			self:      "x",
			wantOK:    false,
			wantQueue: []string{"a", "b"},
		},
		{
			name:      "self loop accepted",
			queue:     []string{"x"},
			visited:   []string{"x"},
			self:      "x",
			want:      "x",
			wantOK:    true,
			wantQueue: []string{},
		},
		{
			name:      "absent end tag",
			queue:     []string{""},
			visited:   []string{"x"},
			self:      "x",
			want:      "",
			wantOK:    true,
			wantQueue: []string{},
		},
		{
			name:      "empty",
			self:      "x",
			wantOK:    false,
			wantQueue: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &tagQueue{}
			for _, tag := range tags(tt.queue...) {
				require.NoError(t, q.push(tag))
			}
			visited := make(map[pattern.Tag]bool)
			for _, tag := range tags(tt.visited...) {
				visited[tag] = true
			}

			got, ok := q.popUnvisited(visited, pattern.NameTag(tt.self))
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tags(tt.want)[0], got)
			}
			assert.Equal(t, tags(tt.wantQueue...), append([]pattern.Tag{}, q.Tags()...))
		})
	}
}

func TestTagQueue_pushDuplicate(t *testing.T) {
	q := &tagQueue{}
	require.NoError(t, q.push(pattern.NameTag("a")))
	err := q.push(pattern.NameTag("a"))
	assert.True(t, errors.Is(err, errDuplicateNeighbor))
	assert.Equal(t, 1, q.Len())
}

func TestNewAdjacencyGraph(t *testing.T) {
	keys := []sentence.Key{
		{Start: pattern.NameTag("a"), End: pattern.NoTag},
		{Start: pattern.NameTag("a"), End: pattern.NameTag("b")},
		{Start: pattern.NameTag("a"), End: pattern.NameTag("c")},
		{Start: pattern.NameTag("b"), End: pattern.NameTag("c")},
	}
	g, err := newAdjacencyGraph(keys)
	require.NoError(t, err)
	assert.Equal(t, 3, g.Len())

	a, ok := g.get(pattern.NameTag("a"))
	require.True(t, ok)
	assert.Equal(t, tags("", "b", "c"), a.out.Tags())
	assert.Empty(t, a.in.Tags())

	c, ok := g.get(pattern.NameTag("c"))
	require.True(t, ok)
	assert.Empty(t, c.out.Tags())
	assert.Equal(t, tags("a", "b"), c.in.Tags())

	_, ok = g.get(pattern.NoTag)
	assert.False(t, ok)

	root, ok := g.maxOutDegree()
	require.True(t, ok)
	assert.Equal(t, pattern.NameTag("a"), root)
}

func TestAdjacencyGraph_maxOutDegreeTies(t *testing.T) {
	keys := []sentence.Key{
		{Start: pattern.NameTag("b"), End: pattern.NameTag("c")},
		{Start: pattern.NameTag("d"), End: pattern.NameTag("e")},
	}
	g, err := newAdjacencyGraph(keys)
	require.NoError(t, err)

	root, ok := g.maxOutDegree()
	require.True(t, ok)
	assert.Equal(t, pattern.NameTag("b"), root)
}

func TestAdjacencyGraph_dropIfExhausted(t *testing.T) {
	g, err := newAdjacencyGraph([]sentence.Key{{Start: pattern.NameTag("a"), End: pattern.NameTag("b")}})
	require.NoError(t, err)

	g.dropIfExhausted(pattern.NameTag("a"))
	assert.True(t, g.hasEntries(pattern.NameTag("a")))

	a, _ := g.get(pattern.NameTag("a"))
	a.out.popFront()
	g.dropIfExhausted(pattern.NameTag("a"))
	assert.False(t, g.hasEntries(pattern.NameTag("a")))
	assert.Equal(t, 1, g.Len())

	_, ok := g.maxOutDegree()
	assert.False(t, ok)
}
