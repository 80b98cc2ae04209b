package triple

import (
	"errors"
	"fmt"
)

// ErrMalformed is matched by every *ParseError.
var ErrMalformed = errors.New("malformed triple")

// Triple is a single (subject, relation, object) fact. Values are compared
// by all three fields, so a Triple can be used as a map key.
type Triple struct {
	Subject  string
	Relation string
	Object   string
}

func (t Triple) String() string {
	return t.Subject + " " + t.Relation + " " + t.Object
}

// Literal renders the triple in .sku line form. ParseLine(t.Literal())
// returns t.
func (t Triple) Literal() string {
	return fmt.Sprintf("(%q, %q, %q)", t.Subject, t.Relation, t.Object)
}

// Source is a named sequence of raw lines, usually the contents of one
// .sku file.
type Source struct {
	Name  string
	Lines []string
}

// Result holds everything a load produced. Triples keep source order and
// line order. Failures are never fatal to the load.
type Result struct {
	Triples  []Triple
	Failures []*ParseError
}

type ParseError struct {
	Source string
	Line   int // 1-based, 0 when unknown
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	switch {
	case e.Source != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, e.Reason)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	default:
		return e.Reason
	}
}

func (e *ParseError) Unwrap() error {
	return ErrMalformed
}
