package cypher

import (
	"errors"
	"fmt"
)

// AccessMode tells a database session whether a query may be routed to a
// read replica or must go to the writer.
type AccessMode string

const (
	Read  AccessMode = "READ"
	Write AccessMode = "WRITE"
)

// Cypher is a rendered query together with the access mode it requires.
type Cypher struct {
	Query      string
	AccessMode AccessMode
}

func read(query string) Cypher  { return Cypher{Query: query, AccessMode: Read} }
func write(query string) Cypher { return Cypher{Query: query, AccessMode: Write} }

// ErrInvalidNodePattern is the root of every precondition failure raised while
// turning a Node into a query. These indicate a caller bug rather than bad
// user input.
var ErrInvalidNodePattern = errors.New("invalid node pattern")

var (
	ErrLabelRequired             = fmt.Errorf("%w: label required", ErrInvalidNodePattern)
	ErrLabelInvalid              = fmt.Errorf("%w: label is not an identifier", ErrInvalidNodePattern)
	ErrPropertiesRequired        = fmt.Errorf("%w: properties required", ErrInvalidNodePattern)
	ErrUpdatesLabelRequired      = fmt.Errorf("%w: updates label required", ErrInvalidNodePattern)
	ErrUpdatesPropertiesRequired = fmt.Errorf("%w: updates properties required", ErrInvalidNodePattern)
	ErrLabelMismatch             = fmt.Errorf("%w: label mismatch", ErrInvalidNodePattern)
	ErrKeyInvalid                = fmt.Errorf("%w: key is not an identifier", ErrInvalidNodePattern)
)
