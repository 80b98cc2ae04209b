package graph

import (
	"errors"
	"sort"
	"time"

	"github.com/bowerhall/skugraph/internal/triple"
)

var (
	ErrNotBuilt     = errors.New("index not built")
	ErrInvalidQuery = errors.New("invalid query")
)

// InvalidQueryError names the query argument that was missing or empty.
type InvalidQueryError struct {
	Arg    string
	Reason string
}

func (e *InvalidQueryError) Error() string {
	if e.Reason != "" {
		return "invalid query: " + e.Reason
	}
	return "invalid query: " + e.Arg + " is required"
}

func (e *InvalidQueryError) Unwrap() error {
	return ErrInvalidQuery
}

// Set is an unordered set of entity names.
type Set map[string]struct{}

func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

func (s Set) Len() int {
	return len(s)
}

// Sorted returns the members in ascending order. Never nil, so it encodes
// as [] rather than null.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

type key struct {
	entity   string
	relation string
}

// snapshot is one immutable build. Both directions are published together.
type snapshot struct {
	forward    map[key]Set
	reverse    map[key]Set
	triples    []triple.Triple
	generation string
	builtAt    time.Time
}

type Stats struct {
	Generation string
	BuiltAt    time.Time
	Triples    int // including duplicates
	Facts      int // distinct triples
	Entities   int
	Relations  int
}
