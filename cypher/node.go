package cypher

import "fmt"

// Node is a single entity pattern: a query symbol, an optional label, and an
// optional property map. A nil Properties means the pattern carries no
// property map at all; an empty Label means it is unlabelled.
//
// A Node is built per request and is never mutated after construction.
type Node struct {
	Properties Properties
	Symbol     string
	Label      string
}

// NewNode creates a Node. Preconditions are checked by the query methods, not here.
func NewNode(props Properties, symbol, label string) Node {
	return Node{Properties: props, Symbol: symbol, Label: label}
}

// checkLabel guards every operation that must not run unscoped.
func (n Node) checkLabel() error {
	if n.Label == "" {
		return ErrLabelRequired
	}
	if !IsIdentifier(n.Label) {
		return ErrLabelInvalid
	}
	return nil
}

// NewUUIDNode creates a Node matched by uuid alone.
func NewUUIDNode(uuid, symbol, label string) Node {
	return NewNode(Properties{"uuid": String(uuid)}, symbol, label)
}

// Pattern renders the property map as `key: value` pairs. It is empty when the
// node has no property map.
func (n Node) Pattern() string {
	if n.Properties == nil {
		return ""
	}
	return n.Properties.Pattern()
}

// UUID returns the string uuid property, or "" when there is none.
func (n Node) UUID() string {
	if n.Properties == nil {
		return ""
	}
	return n.Properties["uuid"].Str()
}

// String renders the node as a Cypher pattern, e.g. `( n:Things { uuid: 'x' } )`.
func (n Node) String() string {
	label := ""
	if n.Label != "" {
		label = ":" + n.Label
	}
	pattern := ""
	if p := n.Pattern(); p != "" {
		pattern = " { " + p + " }"
	}
	return fmt.Sprintf("( %s%s%s )", n.Symbol, label, pattern)
}

// UniqueConstraint creates a uniqueness constraint on key for the node's label.
func (n Node) UniqueConstraint(key string) (Cypher, error) {
	if err := n.checkLabel(); err != nil {
		return Cypher{}, err
	}
	if !IsIdentifier(key) {
		return Cypher{}, ErrKeyInvalid
	}
	return write(fmt.Sprintf(
		"CREATE CONSTRAINT IF NOT EXISTS FOR (%s:%s) REQUIRE %s.%s IS UNIQUE",
		n.Symbol, n.Label, n.Symbol, key,
	)), nil
}

// Index creates a range index on key for the node's label.
func (n Node) Index(key string) (Cypher, error) {
	if err := n.checkLabel(); err != nil {
		return Cypher{}, err
	}
	if !IsIdentifier(key) {
		return Cypher{}, ErrKeyInvalid
	}
	return write(fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS FOR (%s:%s) ON (%s.%s)",
		n.Symbol, n.Label, n.Symbol, key,
	)), nil
}

// Create merges the node into the graph. Both properties and a label are required.
func (n Node) Create() (Cypher, error) {
	if n.Properties == nil {
		return Cypher{}, ErrPropertiesRequired
	}
	if err := n.checkLabel(); err != nil {
		return Cypher{}, err
	}
	return write("MERGE " + n.String()), nil
}

// Load matches the node and returns it, or only its key property when key is
// not empty.
func (n Node) Load(key string) (Cypher, error) {
	if err := n.checkLabel(); err != nil {
		return Cypher{}, err
	}
	result := n.Symbol
	if key != "" {
		if !IsIdentifier(key) {
			return Cypher{}, ErrKeyInvalid
		}
		result += "." + key
	}
	return read(fmt.Sprintf("MATCH %s RETURN %s", n, result)), nil
}

// Mutate merges the properties of updates into every match of n. Both patterns
// need properties and the same label.
func (n Node) Mutate(updates Node) (Cypher, error) {
	if len(n.Properties) == 0 {
		return Cypher{}, ErrPropertiesRequired
	}
	if len(updates.Properties) == 0 {
		return Cypher{}, ErrUpdatesPropertiesRequired
	}
	if err := n.checkLabel(); err != nil {
		return Cypher{}, err
	}
	if updates.Label == "" {
		return Cypher{}, ErrUpdatesLabelRequired
	}
	if n.Label != updates.Label {
		return Cypher{}, ErrLabelMismatch
	}
	return write(fmt.Sprintf("MATCH %s SET %s += { %s }", n, n.Symbol, updates.Pattern())), nil
}

// Delete detaches and deletes every match. User nodes are never deleted this way.
func (n Node) Delete() Cypher {
	return write(fmt.Sprintf("MATCH %s WHERE NOT %s:User DETACH DELETE %s", n, n.Symbol, n.Symbol))
}

// Count returns the number of non-User matches.
func (n Node) Count() Cypher {
	return read(fmt.Sprintf("MATCH %s WHERE NOT %s:User RETURN count(%s)", n, n.Symbol, n.Symbol))
}
