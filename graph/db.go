// Package graph executes rendered Cypher against Neo4j and decodes the
// results for API responses.
package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/oceanicsdotio/oceanics.io-sub000/cypher"
)

// Runner defines the interface for a query executor.
// It abstracts the execution of Cypher, allowing the driver to be replaced by
// a fake in tests.
type Runner interface {
	// Run executes a parameterized query on the writer and returns a fully-buffered result.
	Run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error)

	// Execute runs a rendered query, routed by its access mode.
	Execute(ctx context.Context, q cypher.Cypher) (*neo4j.EagerResult, error)
}

// Neo4jExecutor is the Runner backed by the official Neo4j Go driver. It owns
// the driver and the target database name.
type Neo4jExecutor struct {
	Driver neo4j.DriverWithContext
	DBName string
}

// NewNeo4jExecutor creates a driver for the given instance.
//
// Parameters:
//   - uri: The connection URI for the Neo4j instance (e.g., "neo4j+s://xxxx.databases.neo4j.io").
//   - username: The database user.
//   - password: The database password.
//   - dbName: The name of the database to run queries against (e.g., "neo4j").
//
// Returns:
//
//	The executor, or an error if the driver cannot be created.
func NewNeo4jExecutor(uri, username, password, dbName string) (*Neo4jExecutor, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("could not create Neo4j driver: %w", err)
	}
	return &Neo4jExecutor{Driver: driver, DBName: dbName}, nil
}

// Verify checks connectivity to the database.
func (e *Neo4jExecutor) Verify(ctx context.Context) error {
	return e.Driver.VerifyConnectivity(ctx)
}

// Close releases the driver's connections.
func (e *Neo4jExecutor) Close(ctx context.Context) error {
	return e.Driver.Close(ctx)
}

// Run executes a parameterized query with ExecuteQuery, which handles session
// and transaction management. Queries are routed to the writer.
//
// Parameters:
//   - ctx: The context for the query execution.
//   - query: The Cypher query string to execute.
//   - params: A map of parameters to be used in the query.
//
// Returns:
//
//	An EagerResult containing all buffered records, or an error if execution fails.
func (e *Neo4jExecutor) Run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
	return e.run(ctx, query, params, neo4j.ExecuteQueryWithWritersRouting())
}

// Execute runs a rendered query. READ queries may be served by a reader;
// WRITE queries always go to the writer.
func (e *Neo4jExecutor) Execute(ctx context.Context, q cypher.Cypher) (*neo4j.EagerResult, error) {
	routing := neo4j.ExecuteQueryWithWritersRouting()
	if q.AccessMode == cypher.Read {
		routing = neo4j.ExecuteQueryWithReadersRouting()
	}
	return e.run(ctx, q.Query, nil, routing)
}

func (e *Neo4jExecutor) run(ctx context.Context, query string, params map[string]any, routing neo4j.ExecuteQueryConfigurationOption) (*neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(
		ctx,
		e.Driver,
		query,
		params,
		neo4j.EagerResultTransformer, // Buffers all results in memory before returning.
		neo4j.ExecuteQueryWithDatabase(e.DBName),
		routing,
	)
	if err != nil {
		return nil, fmt.Errorf("error executing neo4j query: %w", err)
	}
	return result, nil
}
