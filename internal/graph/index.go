package graph

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/bowerhall/skugraph/internal/triple"
)

// Index answers forward and reverse point queries over a set of triples.
// It starts unbuilt; every Build publishes a fresh snapshot, so readers
// keep using whichever snapshot they loaded and never see a partial build.
type Index struct {
	current atomic.Pointer[snapshot]
	buildMu sync.Mutex
}

func New() *Index {
	return &Index{}
}

// Build replaces any previous state with indexes over triples.
func (idx *Index) Build(triples []triple.Triple) {
	idx.BuildWithGeneration(triples, "")
}

// BuildWithGeneration is Build with an identifier recorded on the snapshot,
// so logs and stored snapshots can tell reloads apart.
func (idx *Index) BuildWithGeneration(triples []triple.Triple, generation string) {
	idx.buildMu.Lock()
	defer idx.buildMu.Unlock()

	snap := &snapshot{
		forward:    make(map[key]Set),
		reverse:    make(map[key]Set),
		triples:    make([]triple.Triple, len(triples)),
		generation: generation,
		builtAt:    time.Now(),
	}
	copy(snap.triples, triples)

	for _, t := range triples {
		add(snap.forward, key{t.Subject, t.Relation}, t.Object)
		add(snap.reverse, key{t.Object, t.Relation}, t.Subject)
	}

	idx.current.Store(snap)
}

func add(m map[key]Set, k key, v string) {
	set, ok := m[k]
	if !ok {
		set = make(Set)
		m[k] = set
	}
	set[v] = struct{}{}
}

func (idx *Index) Built() bool {
	return idx.current.Load() != nil
}

// Forward returns the objects o for which (subject, relation, o) was loaded.
// A key with no facts yields an empty set and no error.
func (idx *Index) Forward(subject, relation string) (Set, error) {
	if err := validate("subject", subject, relation); err != nil {
		return nil, err
	}

	snap := idx.current.Load()
	if snap == nil {
		return nil, ErrNotBuilt
	}

	return lookup(snap.forward, key{subject, relation}), nil
}

// Reverse returns the subjects s for which (s, relation, object) was loaded.
func (idx *Index) Reverse(object, relation string) (Set, error) {
	if err := validate("object", object, relation); err != nil {
		return nil, err
	}

	snap := idx.current.Load()
	if snap == nil {
		return nil, ErrNotBuilt
	}

	return lookup(snap.reverse, key{object, relation}), nil
}

func validate(entityArg, entity, relation string) error {
	if entity == "" {
		return &InvalidQueryError{Arg: entityArg}
	}
	if relation == "" {
		return &InvalidQueryError{Arg: "relation"}
	}
	return nil
}

// lookup copies the stored set so callers cannot mutate the snapshot.
func lookup(m map[key]Set, k key) Set {
	stored := m[k]
	out := make(Set, len(stored))
	for v := range stored {
		out[v] = struct{}{}
	}
	return out
}

// Facts lists every loaded triple in load order, duplicates included.
func (idx *Index) Facts() ([]triple.Triple, error) {
	snap := idx.current.Load()
	if snap == nil {
		return nil, ErrNotBuilt
	}

	out := make([]triple.Triple, len(snap.triples))
	copy(out, snap.triples)
	return out, nil
}

func (idx *Index) Stats() (Stats, error) {
	snap := idx.current.Load()
	if snap == nil {
		return Stats{}, ErrNotBuilt
	}

	facts := make(map[triple.Triple]struct{}, len(snap.triples))
	entities := make(map[string]struct{})
	relations := make(map[string]struct{})

	for _, t := range snap.triples {
		facts[t] = struct{}{}
		entities[t.Subject] = struct{}{}
		entities[t.Object] = struct{}{}
		relations[t.Relation] = struct{}{}
	}

	return Stats{
		Generation: snap.generation,
		BuiltAt:    snap.builtAt,
		Triples:    len(snap.triples),
		Facts:      len(facts),
		Entities:   len(entities),
		Relations:  len(relations),
	}, nil
}
