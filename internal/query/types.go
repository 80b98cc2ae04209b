package query

import (
	"encoding/json"

	"github.com/bowerhall/skugraph/internal/graph"
)

const (
	TypeForward = "retrieve_fact"
	TypeReverse = "retrieve_fact_reverse"
)

// Index is the read side of graph.Index.
type Index interface {
	Forward(subject, relation string) (graph.Set, error)
	Reverse(object, relation string) (graph.Set, error)
}

type Request struct {
	QueryType string `json:"queryType"`
	Subject   string `json:"subject,omitempty"`
	Object    string `json:"object,omitempty"`
	Relation  string `json:"relation,omitempty"`
}

// wireRequest holds the raw fields so a non-string argument can be told
// apart from malformed JSON.
type wireRequest struct {
	QueryType json.RawMessage `json:"queryType"`
	Subject   json.RawMessage `json:"subject"`
	Object    json.RawMessage `json:"object"`
	Relation  json.RawMessage `json:"relation"`
}

// request converts w and names the first argument of the request's
// direction that is not a JSON string or null. A non-string queryType
// leaves QueryType empty, which is reported as unsupported.
func (w wireRequest) request() (Request, string) {
	var req Request
	asString(w.QueryType, &req.QueryType)

	subjectOK := asString(w.Subject, &req.Subject)
	objectOK := asString(w.Object, &req.Object)
	relationOK := asString(w.Relation, &req.Relation)

	switch req.QueryType {
	case TypeForward:
		if !subjectOK {
			return req, "subject"
		}
	case TypeReverse:
		if !objectOK {
			return req, "object"
		}
	default:
		return req, ""
	}

	if !relationOK {
		return req, "relation"
	}
	return req, ""
}

func asString(raw json.RawMessage, dst *string) bool {
	if len(raw) == 0 {
		return true
	}
	return json.Unmarshal(raw, dst) == nil
}

// Response is either a result (Error empty) or an error report. The two
// encode to different JSON shapes.
type Response struct {
	QueryType string
	Subject   string
	Object    string
	Relation  string
	Results   []string
	Error     string
	Details   string
}

type resultJSON struct {
	QueryType string   `json:"queryType"`
	Subject   string   `json:"subject,omitempty"`
	Object    string   `json:"object,omitempty"`
	Relation  string   `json:"relation"`
	Response  []string `json:"response"`
}

type errorJSON struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (r Response) MarshalJSON() ([]byte, error) {
	if r.Error != "" {
		return json.Marshal(errorJSON{Error: r.Error, Details: r.Details})
	}

	results := r.Results
	if results == nil {
		results = []string{}
	}

	return json.Marshal(resultJSON{
		QueryType: r.QueryType,
		Subject:   r.Subject,
		Object:    r.Object,
		Relation:  r.Relation,
		Response:  results,
	})
}
