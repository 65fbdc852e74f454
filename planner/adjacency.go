package planner

import (
	"github.com/pkg/errors"
	"github.com/tidwall/btree"

	"github.com/cube2222/octograph/pattern"
	"github.com/cube2222/octograph/sentence"
)

var errDuplicateNeighbor = errors.New("neighbor queued twice")

// tagQueue is a double-ended queue of neighbor tags. A tag is never queued twice.
type tagQueue struct {
	tags []pattern.Tag
}

func (q *tagQueue) Len() int {
	return len(q.tags)
}

func (q *tagQueue) Tags() []pattern.Tag {
	return q.tags
}

func (q *tagQueue) push(tag pattern.Tag) error {
	for _, queued := range q.tags {
		if queued == tag {
			return errors.Wrapf(errDuplicateNeighbor, "tag %s", tag)
		}
	}
	q.tags = append(q.tags, tag)
	return nil
}

func (q *tagQueue) popFront() pattern.Tag {
	out := q.tags[0]
	q.tags = q.tags[1:]
	return out
}

func (q *tagQueue) pushBack(tag pattern.Tag) {
	q.tags = append(q.tags, tag)
}

func (q *tagQueue) remove(tag pattern.Tag) bool {
	for i := range q.tags {
		if q.tags[i] == tag {
			q.tags = append(q.tags[:i:i], q.tags[i+1:]...)
			return true
		}
	}
	return false
}

// popUnvisited pops the first tag that isn't visited, moving visited ones to the back.
// It gives up after a single rotation. A self-loop back to self is always accepted.
func (q *tagQueue) popUnvisited(visited map[pattern.Tag]bool, self pattern.Tag) (pattern.Tag, bool) {
	count := q.Len()
	for i := 0; i < count; i++ {
		tag := q.popFront()
		if !visited[tag] || tag == self {
			return tag, true
		}
		q.pushBack(tag)
	}
	return pattern.NoTag, false
}

type adjacency struct {
	tag pattern.Tag
	// Out holds end tags of sentences starting here, In holds start tags of sentences ending here.
	out tagQueue
	in  tagQueue
}

func (adj *adjacency) exhausted() bool {
	return adj.out.Len() == 0 && adj.in.Len() == 0
}

// adjacencyGraph maps tags to their neighbors, iterated in tag order.
type adjacencyGraph struct {
	tree *btree.Generic[*adjacency]
}

// newAdjacencyGraph builds the graph from merged sentence keys.
// Keys are expected ordered, which makes every neighbor queue ordered as well.
func newAdjacencyGraph(keys []sentence.Key) (*adjacencyGraph, error) {
	g := &adjacencyGraph{
		tree: btree.NewGenericOptions(func(a, b *adjacency) bool {
			return a.tag.Less(b.tag)
		}, btree.Options{NoLocks: true}),
	}
	for _, key := range keys {
		if err := g.getOrCreate(key.Start).out.push(key.End); err != nil {
			return nil, errors.Wrapf(err, "couldn't add out neighbor of %s", key.Start)
		}
		if !key.End.IsValid() {
			continue
		}
		if err := g.getOrCreate(key.End).in.push(key.Start); err != nil {
			return nil, errors.Wrapf(err, "couldn't add in neighbor of %s", key.End)
		}
	}
	return g, nil
}

func (g *adjacencyGraph) get(tag pattern.Tag) (*adjacency, bool) {
	return g.tree.Get(&adjacency{tag: tag})
}

func (g *adjacencyGraph) getOrCreate(tag pattern.Tag) *adjacency {
	if adj, ok := g.get(tag); ok {
		return adj
	}
	adj := &adjacency{tag: tag}
	g.tree.Set(adj)
	return adj
}

func (g *adjacencyGraph) Len() int {
	return g.tree.Len()
}

func (g *adjacencyGraph) hasEntries(tag pattern.Tag) bool {
	adj, ok := g.get(tag)
	return ok && !adj.exhausted()
}

// dropIfExhausted removes the tag once it has no neighbors left.
func (g *adjacencyGraph) dropIfExhausted(tag pattern.Tag) {
	if adj, ok := g.get(tag); ok && adj.exhausted() {
		g.tree.Delete(adj)
	}
}

// maxOutDegree returns the tag with the most out neighbors, the first one in tag order on ties.
func (g *adjacencyGraph) maxOutDegree() (pattern.Tag, bool) {
	var best *adjacency
	g.tree.Scan(func(adj *adjacency) bool {
		if adj.out.Len() > 0 && (best == nil || adj.out.Len() > best.out.Len()) {
			best = adj
		}
		return true
	})
	if best == nil {
		return pattern.NoTag, false
	}
	return best.tag, true
}
