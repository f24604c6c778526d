package graph

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/saulfrancisco-ruizacevedo/gocypher"
)

// ErrNotFound is returned by lookups that match nothing.
var ErrNotFound = errors.New("record not found")

// Repository provides parameterized CRUD for a tagged entity type T. It is
// used for records whose values must never be inlined into query text, such
// as account credentials.
type Repository[T any] struct {
	runner Runner
	meta   *entityMetadata
}

// NewRepository creates a repository for T from its struct tags.
//
// Parameters:
//   - runner: The Runner used to execute every query.
//
// Returns:
//
//	A new Repository, or an error if the struct tags are invalid.
func NewRepository[T any](runner Runner) (*Repository[T], error) {
	meta, err := parseTags[T]()
	if err != nil {
		return nil, err
	}
	return newRepository[T](runner, meta), nil
}

func newRepository[T any](runner Runner, meta *entityMetadata) *Repository[T] {
	return &Repository[T]{runner: runner, meta: meta}
}

// Label is the node label the repository reads and writes.
func (r *Repository[T]) Label() string { return r.meta.Label }

// Save merges the entity on its primary key and sets every other tagged field.
//
// Parameters:
//   - ctx: The context for the query execution.
//   - entity: A pointer to the entity to save.
//
// Returns:
//
//	An error if building or executing the query fails.
func (r *Repository[T]) Save(ctx context.Context, entity *T) error {
	val := reflect.ValueOf(entity).Elem()
	pkValue := val.FieldByName(r.meta.PKField).Interface()
	mergeProps := map[string]interface{}{r.meta.PKProp: pkValue}

	setProps := make(map[string]interface{})
	for _, m := range r.meta.Mappings {
		if m.Field != r.meta.PKField {
			setProps["n."+m.Property] = val.FieldByName(m.Field).Interface()
		}
	}

	query, params, err := gocypher.NewQueryBuilder().
		Merge(gocypher.N("n", r.meta.Label).WithProperties(mergeProps)).
		Set(setProps).
		Return("n").
		Build()
	if err != nil {
		return err
	}
	_, err = r.runner.Run(ctx, query, params)
	return err
}

// FindByID retrieves an entity by primary key.
//
// Returns:
//
//	The entity, ErrNotFound if none matches, or an error if the query or
//	mapping fails.
func (r *Repository[T]) FindByID(ctx context.Context, id interface{}) (*T, error) {
	return r.FindOne(ctx, map[string]interface{}{r.meta.PKProp: id})
}

// FindOne retrieves the single entity whose properties equal props.
func (r *Repository[T]) FindOne(ctx context.Context, props map[string]interface{}) (*T, error) {
	query, params, err := gocypher.NewQueryBuilder().
		Match(gocypher.N("n", r.meta.Label).WithProperties(props)).
		Return("n").
		Build()
	if err != nil {
		return nil, err
	}

	eagerResult, err := r.runner.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}
	if len(eagerResult.Records) == 0 {
		return nil, ErrNotFound
	}
	if len(eagerResult.Records) > 1 {
		return nil, fmt.Errorf("expected 1 record but found %d", len(eagerResult.Records))
	}

	nodeValue, ok := eagerResult.Records[0].Get("n")
	if !ok {
		return nil, fmt.Errorf("could not find return value 'n' in query result")
	}
	node, ok := nodeValue.(neo4j.Node)
	if !ok {
		return nil, fmt.Errorf("return value 'n' is not a node")
	}

	entity := new(T)
	if err := mapNodeToStruct(node, entity, r.meta); err != nil {
		return nil, err
	}
	return entity, nil
}

// mapNodeToStruct copies node properties into the tagged fields of entity.
func mapNodeToStruct(node neo4j.Node, entity any, meta *entityMetadata) error {
	val := reflect.ValueOf(entity).Elem()

	for _, m := range meta.Mappings {
		field := val.FieldByName(m.Field)
		if !field.IsValid() || !field.CanSet() {
			continue
		}
		propValue, ok := node.Props[m.Property]
		if !ok || propValue == nil {
			continue
		}
		pv := reflect.ValueOf(propValue)
		if !pv.Type().AssignableTo(field.Type()) {
			return fmt.Errorf("property %s has type %s, field %s wants %s",
				m.Property, pv.Type(), m.Field, field.Type())
		}
		field.Set(pv)
	}
	return nil
}
