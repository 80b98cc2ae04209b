package query

import (
	"encoding/json"
	"errors"

	"github.com/bowerhall/skugraph/internal/graph"
)

const (
	msgInvalidJSON     = "Invalid JSON input."
	msgUnsupportedType = "Unsupported queryType provided."
	msgForwardArgs     = "For a forward query, 'subject' and 'relation' are required."
	msgReverseArgs     = "For a reverse query, 'object' and 'relation' are required."
	msgNotLoaded       = "Knowledge graph is not loaded."
)

var ErrUnsupportedType = errors.New("unsupported query type")

// FromArgs picks the query direction from command-line arguments: a
// subject means forward, an object means reverse. Supplying both or
// neither is an invalid query.
func FromArgs(subject, object, relation string) (Request, error) {
	switch {
	case subject != "" && object != "":
		return Request{}, &graph.InvalidQueryError{Arg: "subject", Reason: "subject and object are mutually exclusive"}
	case subject == "" && object == "":
		return Request{}, &graph.InvalidQueryError{Arg: "subject", Reason: "one of subject or object is required"}
	case relation == "":
		return Request{}, &graph.InvalidQueryError{Arg: "relation"}
	}

	if subject != "" {
		return Request{QueryType: TypeForward, Subject: subject, Relation: relation}, nil
	}
	return Request{QueryType: TypeReverse, Object: object, Relation: relation}, nil
}

// Resolve runs req against idx.
func Resolve(idx Index, req Request) (graph.Set, error) {
	switch req.QueryType {
	case TypeForward:
		return idx.Forward(req.Subject, req.Relation)
	case TypeReverse:
		return idx.Reverse(req.Object, req.Relation)
	default:
		return nil, ErrUnsupportedType
	}
}

// Execute resolves req and reports the outcome as a Response. It never
// returns an error: failures become error responses.
func Execute(idx Index, req Request) Response {
	set, err := Resolve(idx, req)
	if err != nil {
		return errorResponse(req, err)
	}

	return Response{
		QueryType: req.QueryType,
		Subject:   req.Subject,
		Object:    req.Object,
		Relation:  req.Relation,
		Results:   set.Sorted(),
	}
}

// ExecuteJSON decodes one JSON request and executes it. An argument of
// the wrong JSON type is an invalid query, not invalid JSON.
func ExecuteJSON(idx Index, raw string) Response {
	var wire wireRequest
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return Response{Error: msgInvalidJSON, Details: err.Error()}
	}

	req, badArg := wire.request()
	if badArg != "" {
		return errorResponse(req, &graph.InvalidQueryError{Arg: badArg, Reason: "must be a string"})
	}

	return Execute(idx, req)
}

func errorResponse(req Request, err error) Response {
	switch {
	case errors.Is(err, ErrUnsupportedType):
		return Response{Error: msgUnsupportedType}
	case errors.Is(err, graph.ErrInvalidQuery):
		if req.QueryType == TypeReverse {
			return Response{Error: msgReverseArgs}
		}
		return Response{Error: msgForwardArgs}
	case errors.Is(err, graph.ErrNotBuilt):
		return Response{Error: msgNotLoaded}
	default:
		return Response{Error: err.Error()}
	}
}
