// Package cypher renders Cypher query text for the graph API.
//
// A Node describes one entity pattern and a Links describes the relationship
// between two of them. Their methods return a Cypher value: the query text plus
// the access mode (READ or WRITE) a driver session needs to route it.
//
// Property values are inlined as literals rather than sent as parameters, so
// rendering follows fixed rules:
//
//   - objects and arrays are encoded as JSON and quoted as strings
//   - numbers are written bare
//   - non-empty strings are single-quoted with `\` and `'` escaped
//   - booleans are written bare
//   - nulls and empty strings are left out
//
// Keys are rendered in lexicographic order, so equal maps always produce equal
// query text. Keys that are not plain identifiers are backtick-quoted.
//
// Mutating operations refuse unlabelled patterns. Precondition failures are
// returned as errors that wrap ErrInvalidNodePattern.
package cypher
