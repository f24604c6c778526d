// Package graphtest provides an in-memory graph.Runner for tests.
package graphtest

import (
	"context"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/oceanicsdotio/oceanics.io-sub000/cypher"
)

// Call is one query received by a Runner.
type Call struct {
	Query      string
	Params     map[string]any
	AccessMode cypher.AccessMode
}

// Runner records every query and answers with Respond. A nil Respond
// answers every query with an empty result.
type Runner struct {
	mu      sync.Mutex
	calls   []Call
	Respond func(Call) (*neo4j.EagerResult, error)
}

// Run records a parameterized query. These always count as writes.
func (r *Runner) Run(_ context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
	return r.record(Call{Query: query, Params: params, AccessMode: cypher.Write})
}

// Execute records a rendered query.
func (r *Runner) Execute(_ context.Context, q cypher.Cypher) (*neo4j.EagerResult, error) {
	return r.record(Call{Query: q.Query, AccessMode: q.AccessMode})
}

func (r *Runner) record(call Call) (*neo4j.EagerResult, error) {
	r.mu.Lock()
	r.calls = append(r.calls, call)
	respond := r.Respond
	r.mu.Unlock()

	if respond == nil {
		return &neo4j.EagerResult{}, nil
	}
	result, err := respond(call)
	if result == nil && err == nil {
		result = &neo4j.EagerResult{}
	}
	return result, err
}

// Calls returns a copy of every call so far.
func (r *Runner) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Queries returns the query text of every call so far.
func (r *Runner) Queries() []string {
	calls := r.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Query
	}
	return out
}

// Records builds a result with one single-column record per value.
func Records(key string, values ...any) *neo4j.EagerResult {
	result := &neo4j.EagerResult{Keys: []string{key}}
	for _, v := range values {
		result.Records = append(result.Records, &neo4j.Record{
			Keys:   []string{key},
			Values: []any{v},
		})
	}
	return result
}
