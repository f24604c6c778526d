package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/oceanicsdotio/oceanics.io-sub000/auth"
	"github.com/oceanicsdotio/oceanics.io-sub000/cypher"
)

// reservedLabels are managed by the account routes and never addressable as
// entities.
var reservedLabels = map[string]bool{
	"User":     true,
	"Provider": true,
}

// eventValidate checks event shape. Initialized in init() with the label rule.
var eventValidate *validator.Validate

func init() {
	eventValidate = validator.New()
	// Labels are rendered into query text unquoted, so they must be identifiers.
	if err := eventValidate.RegisterValidation("label", func(fl validator.FieldLevel) bool {
		label := fl.Field().String()
		return cypher.IsIdentifier(label) && !reservedLabels[label]
	}); err != nil {
		panic(err)
	}
}

// Headers carries the request headers the API reads.
type Headers struct {
	Authorization *string `json:"authorization,omitempty"`
}

// Authentication classifies the Authorization header. See auth.Classify.
func (h Headers) Authentication() (auth.Authentication, bool) {
	return auth.Classify(h.Authorization)
}

// QueryParameters are the routing parameters: a left label, an optional uuid
// of the left entity, and an optional right label.
type QueryParameters struct {
	Left  string `json:"left,omitempty" validate:"omitempty,label"`
	UUID  string `json:"uuid,omitempty" validate:"omitempty,max=128"`
	Right string `json:"right,omitempty" validate:"omitempty,label"`
}

// Event is an inbound request as delivered by the upstream HTTP adapter.
type Event struct {
	Headers               Headers          `json:"headers"`
	HTTPMethod            string           `json:"httpMethod" validate:"required,oneof=GET HEAD DELETE POST PUT"`
	QueryStringParameters *QueryParameters `json:"queryStringParameters,omitempty"`
	Body                  *string          `json:"body,omitempty"`
}

// ParseEvent decodes a raw event and validates it.
//
// The checks run in order and the first failure wins:
//
//  1. malformed JSON, unknown method, or bad routing parameters: RequestInvalid
//  2. POST or PUT without a non-empty body: BodyMissing
//  3. GET, HEAD or DELETE with a body: BodyNotExpected
//  4. missing or unrecognised Authorization header: HeaderAuthorizationInvalid
func ParseEvent(raw []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, fail(RequestInvalid, err)
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	return &ev, nil
}

// Validate runs the ParseEvent checks on an already decoded event.
func (e *Event) Validate() error {
	if err := eventValidate.Struct(e); err != nil {
		return fail(RequestInvalid, err)
	}

	switch e.HTTPMethod {
	case http.MethodPost, http.MethodPut:
		if e.Body == nil || *e.Body == "" {
			return fail(BodyMissing, nil)
		}
	default:
		if e.Body != nil {
			return fail(BodyNotExpected, nil)
		}
	}

	authn, ok := e.Headers.Authentication()
	if !ok || authn == auth.NoAuth {
		return fail(HeaderAuthorizationInvalid, nil)
	}
	return nil
}

func (e *Event) params() QueryParameters {
	if e.QueryStringParameters == nil {
		return QueryParameters{}
	}
	return *e.QueryStringParameters
}

// properties decodes the body as a property map; nil when there is no body.
func (e *Event) properties() (cypher.Properties, error) {
	if e.Body == nil || *e.Body == "" {
		return nil, nil
	}
	props, err := cypher.ParseProperties([]byte(*e.Body))
	if err != nil {
		return nil, fail(RequestInvalid, err)
	}
	return props, nil
}

// route names the route family for logs.
func (e *Event) route() string {
	q := e.params()
	switch {
	case q.Left == "":
		return "account"
	case q.Right == "":
		return "entity"
	default:
		return "related"
	}
}

var errRouteIncomplete = errors.New("a right label needs the uuid of the left entity")

// Nodes builds the patterns for the routing parameters.
//
//   - left, uuid and right: left is `( n0:Left { uuid } )`, right is the body
//     under the right label as n1.
//   - left only: one pattern `n` under the left label with the body
//     properties, plus uuid when given.
//   - anything else: no patterns.
//
// The error is a RequestInvalid when the body is not a JSON object.
func (e *Event) Nodes() (left, right *cypher.Node, err error) {
	q := e.params()
	if q.Left == "" {
		return nil, nil, nil
	}
	props, err := e.properties()
	if err != nil {
		return nil, nil, err
	}

	switch {
	case q.UUID != "" && q.Right != "":
		l := cypher.NewUUIDNode(q.UUID, "n0", q.Left)
		r := cypher.NewNode(props, "n1", q.Right)
		return &l, &r, nil
	case q.Right == "":
		if q.UUID != "" {
			props = props.With("uuid", cypher.String(q.UUID))
		}
		n := cypher.NewNode(props, "n", q.Left)
		return &n, nil, nil
	default:
		return nil, nil, nil
	}
}
