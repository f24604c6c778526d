package cypher

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Kind enumerates the JSON value shapes a property can hold.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the lowercase JSON name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a single property value. It is a closed union over the JSON kinds;
// each kind has exactly one literal rendering rule (see Literal).
type Value struct {
	kind Kind
	// raw holds the numeral for numbers, the contents for strings, and the
	// compact JSON encoding for arrays and objects.
	raw string
	b   bool
}

// Null returns the null value. Null properties are omitted from patterns.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// String wraps a string. The empty string is omitted from patterns.
func String(s string) Value { return Value{kind: KindString, raw: s} }

// Number wraps a JSON numeral, keeping its exact text.
func Number(n json.Number) Value { return Value{kind: KindNumber, raw: n.String()} }

// Int wraps an integer.
func Int(i int64) Value { return Value{kind: KindNumber, raw: strconv.FormatInt(i, 10)} }

// Float wraps a float in plain (non-exponent) notation. NaN and infinities
// have no Cypher literal and become Null.
func Float(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null()
	}
	return Value{kind: KindNumber, raw: strconv.FormatFloat(f, 'f', -1, 64)}
}

// ValueOf converts a decoded JSON value (as produced by encoding/json with
// UseNumber) or a Go scalar into a Value.
func ValueOf(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return Number(t), nil
	case int:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case float64:
		return Float(t), nil
	case []any:
		return composite(KindArray, t)
	case map[string]any:
		return composite(KindObject, t)
	default:
		return Value{}, fmt.Errorf("unsupported property value type %T", v)
	}
}

func composite(kind Kind, v any) (Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Value{}, fmt.Errorf("could not encode %s property: %w", kind, err)
	}
	return Value{kind: kind, raw: string(data)}, nil
}

// Kind reports the JSON kind of the value.
func (v Value) Kind() Kind { return v.kind }

// Str returns the string contents for string values and "" otherwise.
func (v Value) Str() string {
	if v.kind != KindString {
		return ""
	}
	return v.raw
}

// Literal renders the value as a Cypher literal. The boolean result is false
// when the value is omitted from patterns entirely (null or empty string).
func (v Value) Literal() (string, bool) {
	switch v.kind {
	case KindObject, KindArray:
		return quote(v.raw), true
	case KindNumber:
		return v.raw, true
	case KindString:
		if v.raw == "" {
			return "", false
		}
		return quote(v.raw), true
	case KindBool:
		return strconv.FormatBool(v.b), true
	default:
		return "", false
	}
}

// MarshalJSON encodes the value back to its JSON form.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindObject, KindArray, KindNumber:
		return []byte(v.raw), nil
	case KindString:
		return json.Marshal(v.raw)
	case KindBool:
		return []byte(strconv.FormatBool(v.b)), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes any JSON value.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ValueOf(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

var literalEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// quote renders s as a single-quoted Cypher string literal.
func quote(s string) string {
	return "'" + literalEscaper.Replace(s) + "'"
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsIdentifier reports whether s can be used unquoted as a Cypher name.
func IsIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

// escapeName backtick-quotes names that are not plain identifiers.
func escapeName(s string) string {
	if IsIdentifier(s) {
		return s
	}
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}

// Properties is a node property map. Rendering walks keys in lexicographic
// order so the same map always yields the same query text.
type Properties map[string]Value

// ParseProperties decodes a JSON object into Properties.
func ParseProperties(data []byte) (Properties, error) {
	var props Properties
	if err := json.Unmarshal(data, &props); err != nil {
		return nil, fmt.Errorf("could not decode properties: %w", err)
	}
	if props == nil {
		return nil, fmt.Errorf("could not decode properties: expected a JSON object")
	}
	return props, nil
}

// UnmarshalJSON decodes a JSON object, keeping numerals exact.
func (p *Properties) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if raw == nil {
		*p = nil
		return nil
	}
	props := make(Properties, len(raw))
	for key, value := range raw {
		parsed, err := ValueOf(value)
		if err != nil {
			return fmt.Errorf("property %q: %w", key, err)
		}
		props[key] = parsed
	}
	*p = props
	return nil
}

// Keys returns the property keys in rendering order.
func (p Properties) Keys() []string {
	keys := make([]string, 0, len(p))
	for key := range p {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Pattern renders the map as comma-joined `key: literal` pairs. Null and empty
// string values are left out.
func (p Properties) Pattern() string {
	pairs := make([]string, 0, len(p))
	for _, key := range p.Keys() {
		literal, ok := p[key].Literal()
		if !ok {
			continue
		}
		pairs = append(pairs, escapeName(key)+": "+literal)
	}
	return strings.Join(pairs, ", ")
}

// With returns a copy of p with key set to value.
func (p Properties) With(key string, value Value) Properties {
	out := make(Properties, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	out[key] = value
	return out
}
