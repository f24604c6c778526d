package cypher

import "fmt"

// Links is an undirected relationship pattern. It has no identity of its own
// and is always rendered between a left and a right Node. The relationship
// symbol is always `r`.
type Links struct {
	Label   string
	Pattern string
}

// NewLinks creates a relationship pattern with an optional label and an
// optional pre-rendered property pattern.
func NewLinks(label, pattern string) Links {
	return Links{Label: label, Pattern: pattern}
}

// Wildcard matches any relationship.
func Wildcard() Links {
	return Links{}
}

// String renders the relationship, e.g. `-[ r:Has ]-`.
func (l Links) String() string {
	label := ""
	if l.Label != "" {
		label = ":" + l.Label
	}
	pattern := ""
	if l.Pattern != "" {
		pattern = " { " + l.Pattern + " }"
	}
	return fmt.Sprintf("-[ r%s%s ]-", label, pattern)
}

// Join links two existing nodes.
func (l Links) Join(left, right Node) Cypher {
	return write(fmt.Sprintf(
		"MATCH %s, %s MERGE (%s)%s(%s)",
		left, right, left.Symbol, l, right.Symbol,
	))
}

// Insert creates right and links it to an existing left match.
func (l Links) Insert(left, right Node) Cypher {
	return write(fmt.Sprintf(
		"MATCH %s WITH * MERGE (%s)%s%s RETURN %s",
		left, left.Symbol, l, right, left.Symbol,
	))
}

// Query collects the properties of result across every match as a single JSON
// document `{count, value}`. User nodes on the right are excluded.
func (l Links) Query(left, right Node, result string) Cypher {
	return read(fmt.Sprintf(
		"MATCH %s%s%s WHERE NOT %s:User "+
			"WITH collect(properties(%s)) AS value, count(%s) AS count "+
			"RETURN apoc.convert.toJson({ count: count, value: value })",
		left, l, right, right.Symbol, result, result,
	))
}

// DeleteChild removes the right side of every match, keeping the left.
func (l Links) DeleteChild(left, right Node) Cypher {
	return write(fmt.Sprintf(
		"MATCH %s%s%s WHERE NOT %s:User DETACH DELETE %s",
		left, l, right, right.Symbol, right.Symbol,
	))
}

// Delete removes both sides. The left side survives when it is a Provider.
func (l Links) Delete(left, right Node) Cypher {
	return write(fmt.Sprintf(
		"MATCH %s OPTIONAL MATCH (%s)%s%s "+
			"DETACH DELETE %s WITH DISTINCT %s WHERE NOT %s:Provider DETACH DELETE %s",
		left, left.Symbol, l, right,
		right.Symbol, left.Symbol, left.Symbol, left.Symbol,
	))
}

// Drop deletes the relationship only.
func (l Links) Drop(left, right Node) Cypher {
	return write(fmt.Sprintf("MATCH %s%s%s DELETE r", left, l, right))
}

// Labels summarises the graph as a JSON list of `{label, count}`, leaving out
// User nodes.
func Labels() Cypher {
	return read(
		"MATCH (n) WHERE NOT n:User " +
			"WITH labels(n)[0] AS label, count(n) AS count " +
			"RETURN apoc.convert.toJson(collect({ label: label, count: count }))",
	)
}
