package graph

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/oceanicsdotio/oceanics.io-sub000/cypher"
)

// labeler lets an entity choose its node label instead of using the struct name.
type labeler interface {
	Label() string
}

// fieldMapping ties one struct field to one node property.
type fieldMapping struct {
	Field    string
	Property string
}

// entityMetadata holds the parsed `crud` tags for a struct type.
// It is cached by the Store so reflection runs once per type.
type entityMetadata struct {
	// Label is the node label: the entity's Label() if it has one, else the struct name.
	Label string
	// PKField is the struct field marked `pk`.
	PKField string
	// PKProp is the property name of the primary key.
	PKProp string
	// Mappings lists every tagged field in declaration order.
	Mappings []fieldMapping
}

// parseTagsFromType inspects typ and extracts persistence metadata from its
// `crud:"pk,property:name"` struct tags.
func parseTagsFromType(typ reflect.Type) (*entityMetadata, error) {
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("type %s is not a struct", typ.Name())
	}

	meta := &entityMetadata{Label: typ.Name()}
	if l, ok := reflect.New(typ).Elem().Interface().(labeler); ok {
		meta.Label = l.Label()
	}
	if !cypher.IsIdentifier(meta.Label) {
		return nil, fmt.Errorf("label %q of %s is not an identifier", meta.Label, typ.Name())
	}

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		tag := field.Tag.Get("crud")
		if tag == "" {
			continue
		}

		isPk := false
		propName := ""
		for _, part := range strings.Split(tag, ",") {
			switch {
			case part == "pk":
				isPk = true
			case strings.HasPrefix(part, "property:"):
				propName = strings.TrimPrefix(part, "property:")
			}
		}

		if propName == "" {
			return nil, fmt.Errorf("field %s is missing 'property' tag component", field.Name)
		}
		if !cypher.IsIdentifier(propName) {
			return nil, fmt.Errorf("property %q of field %s is not an identifier", propName, field.Name)
		}
		if isPk {
			if meta.PKField != "" {
				return nil, fmt.Errorf("struct %s has more than one 'pk' field", typ.Name())
			}
			meta.PKField = field.Name
			meta.PKProp = propName
		}
		meta.Mappings = append(meta.Mappings, fieldMapping{Field: field.Name, Property: propName})
	}

	if meta.PKField == "" {
		return nil, fmt.Errorf("no primary key ('pk') tag defined for struct %s", typ.Name())
	}
	return meta, nil
}

// parseTags is the generic form of parseTagsFromType.
func parseTags[T any]() (*entityMetadata, error) {
	return parseTagsFromType(reflect.TypeOf((*T)(nil)).Elem())
}
