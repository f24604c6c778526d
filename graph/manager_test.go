package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanicsdotio/oceanics.io-sub000/cypher"
	"github.com/oceanicsdotio/oceanics.io-sub000/graph/graphtest"
)

func TestCollect_Deduplicates(t *testing.T) {
	thing := neo4j.Node{ElementId: "4:a:1", Labels: []string{"Things"}, Props: map[string]any{"uuid": "abc"}}
	sensor := neo4j.Node{ElementId: "4:a:2", Labels: []string{"Sensors"}, Props: map[string]any{"uuid": "def"}}
	rel := neo4j.Relationship{ElementId: "5:a:1", StartElementId: "4:a:1", EndElementId: "4:a:2", Type: "Has"}

	result := &neo4j.EagerResult{
		Keys: []string{"n0", "r", "n1"},
		Records: []*neo4j.Record{
			{Keys: []string{"n0", "r", "n1"}, Values: []any{thing, rel, sensor}},
			{Keys: []string{"n0", "r", "n1"}, Values: []any{thing, rel, sensor}},
		},
	}

	graph, err := Collect(result)
	require.NoError(t, err)
	require.Len(t, graph.Nodes, 2)
	require.Len(t, graph.Edges, 1)
	assert.Equal(t, "4:a:1", graph.Nodes[0].ID)
	assert.Equal(t, []string{"Sensors"}, graph.Nodes[1].Labels)
	assert.Equal(t, "4:a:2", graph.Edges[0].Target)
	assert.Equal(t, "Has", graph.Edges[0].Type)

	_, err = Collect(&neo4j.EagerResult{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocument(t *testing.T) {
	doc, err := Document(graphtest.Records("value", `{"count": 1, "value": [{"uuid": "abc"}]}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"count": 1, "value": [{"uuid": "abc"}]}`, string(doc))

	_, err = Document(&neo4j.EagerResult{})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = Document(graphtest.Records("value", int64(3)))
	assert.Error(t, err)

	_, err = Document(graphtest.Records("value", `{"count":`))
	assert.Error(t, err)
}

func TestCount(t *testing.T) {
	n, err := Count(graphtest.Records("count(n)", int64(7)))
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	_, err = Count(graphtest.Records("count(n)", "seven"))
	assert.Error(t, err)
}

func TestStore_ExecuteRoutesByAccessMode(t *testing.T) {
	runner := &graphtest.Runner{}
	store := NewStore(runner)
	ctx := context.Background()

	load, err := cypher.NewNode(nil, "n", "Things").Load("")
	require.NoError(t, err)
	_, err = store.Exists(ctx, load)
	require.NoError(t, err)
	require.NoError(t, store.Exec(ctx, cypher.NewNode(nil, "n", "Things").Delete()))

	calls := runner.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, cypher.Read, calls[0].AccessMode)
	assert.Equal(t, cypher.Write, calls[1].AccessMode)
}

func TestStore_PropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	store := NewStore(&graphtest.Runner{Respond: func(graphtest.Call) (*neo4j.EagerResult, error) {
		return nil, boom
	}})
	ctx := context.Background()
	q := cypher.NewNode(nil, "n", "Things").Count()

	_, err := store.Graph(ctx, q)
	assert.ErrorIs(t, err, boom)
	_, err = store.Document(ctx, q)
	assert.ErrorIs(t, err, boom)
	_, err = store.Count(ctx, q)
	assert.ErrorIs(t, err, boom)
	_, err = store.Exists(ctx, q)
	assert.ErrorIs(t, err, boom)
}

func TestStore_Migrate(t *testing.T) {
	runner := &graphtest.Runner{}
	store := NewStore(runner)

	require.NoError(t, store.Migrate(context.Background(), "Things"))
	assert.Equal(t, []string{
		"CREATE CONSTRAINT IF NOT EXISTS FOR (n:User) REQUIRE n.email IS UNIQUE",
		"CREATE INDEX IF NOT EXISTS FOR (n:User) ON (n.uuid)",
		"CREATE INDEX IF NOT EXISTS FOR (n:Things) ON (n.uuid)",
	}, runner.Queries())

	err := store.Migrate(context.Background(), "not a label")
	assert.ErrorIs(t, err, cypher.ErrLabelInvalid)
}

func TestRepositoryFor_CachesMetadata(t *testing.T) {
	store := NewStore(&graphtest.Runner{})

	first, err := RepositoryFor[Account](store)
	require.NoError(t, err)
	second, err := RepositoryFor[Account](store)
	require.NoError(t, err)

	assert.Same(t, first.meta, second.meta)
	assert.Equal(t, "User", first.Label())
}
