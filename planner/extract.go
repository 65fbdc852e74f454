package planner

import (
	"log"

	"github.com/pkg/errors"

	"github.com/cube2222/octograph/pattern"
	"github.com/cube2222/octograph/sentence"
)

var ErrDisconnected = errors.New("pattern is disconnected")

// chainExtractor greedily takes maximal chains of composable sentences out of the adjacency graph,
// walking it depth first.
type chainExtractor struct {
	arena        *sentence.Arena
	merger       *sentence.Merger
	graph        *adjacencyGraph
	defaultStart pattern.Tag
	visited      map[pattern.Tag]bool

	// Chains which couldn't be composed with the sentence leading to them; they get joined instead.
	detached []sentence.ID
}

func newChainExtractor(arena *sentence.Arena, merger *sentence.Merger, defaultStart pattern.Tag) (*chainExtractor, error) {
	graph, err := newAdjacencyGraph(merger.Keys())
	if err != nil {
		return nil, errors.Wrap(err, "couldn't build tag adjacency graph")
	}
	return &chainExtractor{
		arena:        arena,
		merger:       merger,
		graph:        graph,
		defaultStart: defaultStart,
	}, nil
}

// extractChains consumes all merged sentences, returning the chains in extraction order.
func (e *chainExtractor) extractChains() ([]sentence.ID, error) {
	var chains []sentence.ID
	for e.merger.Len() > 0 {
		chain, ok, err := e.extractChain()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.Wrapf(ErrDisconnected, "couldn't extract a chain, %d sentences left", e.merger.Len())
		}
		chains = append(chains, chain)
		chains = append(chains, e.detached...)
		e.detached = nil
	}
	return chains, nil
}

func (e *chainExtractor) rootCandidates() []pattern.Tag {
	var out []pattern.Tag
	if e.graph.hasEntries(e.defaultStart) {
		out = append(out, e.defaultStart)
	}
	if tag, ok := e.graph.maxOutDegree(); ok && (len(out) == 0 || out[0] != tag) {
		out = append(out, tag)
	}
	return out
}

func (e *chainExtractor) extractChain() (sentence.ID, bool, error) {
	for _, root := range e.rootCandidates() {
		e.visited = make(map[pattern.Tag]bool)
		chain, ok, err := e.extend(root, true)
		if err != nil {
			return sentence.NoSentence, false, errors.Wrapf(err, "couldn't extract chain from %s", root)
		}
		if ok {
			return chain, true, nil
		}
	}
	return sentence.NoSentence, false, nil
}

// extend takes one sentence adjacent to tag and recursively extends it with a chain from its other end.
func (e *chainExtractor) extend(tag pattern.Tag, isRoot bool) (sentence.ID, bool, error) {
	adj, ok := e.graph.get(tag)
	if !ok {
		return sentence.NoSentence, false, nil
	}
	e.visited[tag] = true
	defer delete(e.visited, tag)

	reversed := false
	neighbor, ok := adj.out.popUnvisited(e.visited, tag)
	if !ok {
		neighbor, ok = adj.in.popUnvisited(e.visited, tag)
		reversed = true
	}
	if !ok {
		return sentence.NoSentence, false, nil
	}

	key := sentence.Key{Start: tag, End: neighbor}
	if reversed {
		key = sentence.Key{Start: neighbor, End: tag}
	}
	id, ok := e.merger.Get(key)
	if !ok {
		return sentence.NoSentence, false, errors.Errorf("no sentence for adjacency %s -> %s", key.Start, key.End)
	}

	e.arena.SetStartAlias(id, isRoot)
	if reversed {
		if !e.arena.Reverse(id) {
			log.Printf("couldn't reverse %s, leaving it for another path", e.arena.Describe(id))
			adj.in.pushBack(neighbor)
			return sentence.NoSentence, false, nil
		}
	}
	e.merger.Take(key)

	if reversed {
		if other, ok := e.graph.get(neighbor); ok {
			other.out.remove(tag)
			e.graph.dropIfExhausted(neighbor)
		}
	} else if neighbor.IsValid() {
		if other, ok := e.graph.get(neighbor); ok {
			other.in.remove(tag)
			if neighbor != tag {
				e.graph.dropIfExhausted(neighbor)
			}
		}
	}

	chain := sentence.NoSentence
	if neighbor.IsValid() && neighbor != tag {
		further, ok, err := e.extend(neighbor, false)
		if err != nil {
			return sentence.NoSentence, false, err
		}
		if ok {
			if composed, ok := e.arena.Composite(id, further); ok {
				chain = composed
			} else {
				log.Printf("couldn't composite %s with %s, joining instead", e.arena.Describe(id), e.arena.Describe(further))
				e.arena.SetStartAlias(further, true)
				e.detached = append(e.detached, further)
			}
		}
	}
	if chain == sentence.NoSentence {
		chain = e.arena.Leaf(id)
	}

	e.graph.dropIfExhausted(tag)
	return chain, true, nil
}

// foldChains joins all chains into one, retrying those which don't share tags with the result yet.
func foldChains(arena *sentence.Arena, chains []sentence.ID) (sentence.ID, error) {
	if len(chains) == 0 {
		return sentence.NoSentence, errors.Wrap(ErrDisconnected, "no chains to join")
	}
	out := chains[0]
	queue := append([]sentence.ID{}, chains[1:]...)
	stalled := 0
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if joined, ok := arena.Join(out, next); ok {
			out = joined
			stalled = 0
			continue
		}
		queue = append(queue, next)
		stalled++
		if stalled >= len(queue) {
			return sentence.NoSentence, errors.Wrapf(ErrDisconnected, "couldn't join %s with %s", arena.Describe(out), arena.Describe(queue[0]))
		}
	}
	return out, nil
}
