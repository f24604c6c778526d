package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/oceanicsdotio/oceanics.io-sub000/cypher"
)

// Store is the entry point to the database for the API. It runs rendered
// queries, decodes their results, and hands out repositories for tagged
// entity types.
type Store struct {
	runner Runner
	// metaCache stores parsed entityMetadata keyed by reflect.Type.
	metaCache sync.Map
}

// NewStore creates a Store over runner.
func NewStore(runner Runner) *Store {
	return &Store{runner: runner}
}

// RepositoryFor returns a repository for T, reusing cached tag metadata.
func RepositoryFor[T any](s *Store) (*Repository[T], error) {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	if cached, ok := s.metaCache.Load(typ); ok {
		return newRepository[T](s.runner, cached.(*entityMetadata)), nil
	}
	meta, err := parseTagsFromType(typ)
	if err != nil {
		return nil, err
	}
	s.metaCache.Store(typ, meta)
	return newRepository[T](s.runner, meta), nil
}

// Exec runs q and discards its records.
func (s *Store) Exec(ctx context.Context, q cypher.Cypher) error {
	_, err := s.runner.Execute(ctx, q)
	return err
}

// Exists reports whether q returned at least one record.
func (s *Store) Exists(ctx context.Context, q cypher.Cypher) (bool, error) {
	result, err := s.runner.Execute(ctx, q)
	if err != nil {
		return false, err
	}
	return len(result.Records) > 0, nil
}

// Graph runs q and folds every node and relationship it returns into a
// de-duplicated GraphResult.
//
// The query decides what is included through its RETURN clause, e.g.
// `RETURN n` from Node.Load. Elements returned in several rows appear once.
//
// Returns:
//   - The GraphResult.
//   - ErrNotFound if the query returned no records.
//   - Any error from execution.
func (s *Store) Graph(ctx context.Context, q cypher.Cypher) (*GraphResult, error) {
	result, err := s.runner.Execute(ctx, q)
	if err != nil {
		return nil, err
	}
	return Collect(result)
}

// Document runs a query that returns a single JSON string, such as
// Links.Query or cypher.Labels, and returns that document.
func (s *Store) Document(ctx context.Context, q cypher.Cypher) (json.RawMessage, error) {
	result, err := s.runner.Execute(ctx, q)
	if err != nil {
		return nil, err
	}
	return Document(result)
}

// Count runs a query that returns a single integer.
func (s *Store) Count(ctx context.Context, q cypher.Cypher) (int64, error) {
	result, err := s.runner.Execute(ctx, q)
	if err != nil {
		return 0, err
	}
	return Count(result)
}

// Migrate applies the User email constraint and a uuid index for each label.
func (s *Store) Migrate(ctx context.Context, labels ...string) error {
	constraint, err := cypher.NewNode(nil, "n", "User").UniqueConstraint("email")
	if err != nil {
		return err
	}
	queries := []cypher.Cypher{constraint}
	for _, label := range append([]string{"User"}, labels...) {
		index, err := cypher.NewNode(nil, "n", label).Index("uuid")
		if err != nil {
			return fmt.Errorf("index for %q: %w", label, err)
		}
		queries = append(queries, index)
	}
	for _, q := range queries {
		if err := s.Exec(ctx, q); err != nil {
			return fmt.Errorf("could not migrate: %w", err)
		}
	}
	return nil
}

// Collect converts node and relationship values of result into a GraphResult.
func Collect(result *neo4j.EagerResult) (*GraphResult, error) {
	if len(result.Records) == 0 {
		return nil, ErrNotFound
	}

	graph := &GraphResult{
		Nodes: make([]*GraphNode, 0),
		Edges: make([]*Edge, 0),
	}
	seenNodeIDs := make(map[string]bool)
	seenEdgeIDs := make(map[string]bool)

	for _, record := range result.Records {
		for _, value := range record.Values {
			switch v := value.(type) {
			case neo4j.Node:
				if !seenNodeIDs[v.ElementId] {
					graph.Nodes = append(graph.Nodes, &GraphNode{
						ID:         v.ElementId,
						Labels:     v.Labels,
						Properties: v.Props,
					})
					seenNodeIDs[v.ElementId] = true
				}
			case neo4j.Relationship:
				if !seenEdgeIDs[v.ElementId] {
					graph.Edges = append(graph.Edges, &Edge{
						ID:         v.ElementId,
						Source:     v.StartElementId,
						Target:     v.EndElementId,
						Type:       v.Type,
						Properties: v.Props,
					})
					seenEdgeIDs[v.ElementId] = true
				}
			}
		}
	}
	return graph, nil
}

// Document returns the JSON string held by the first value of the first record.
func Document(result *neo4j.EagerResult) (json.RawMessage, error) {
	if len(result.Records) == 0 || len(result.Records[0].Values) == 0 {
		return nil, ErrNotFound
	}
	text, ok := result.Records[0].Values[0].(string)
	if !ok {
		return nil, fmt.Errorf("expected a JSON string, got %T", result.Records[0].Values[0])
	}
	if !json.Valid([]byte(text)) {
		return nil, fmt.Errorf("query returned invalid JSON")
	}
	return json.RawMessage(text), nil
}

// Count returns the integer held by the first value of the first record.
func Count(result *neo4j.EagerResult) (int64, error) {
	if len(result.Records) == 0 || len(result.Records[0].Values) == 0 {
		return 0, ErrNotFound
	}
	n, ok := result.Records[0].Values[0].(int64)
	if !ok {
		return 0, fmt.Errorf("expected an integer, got %T", result.Records[0].Values[0])
	}
	return n, nil
}
