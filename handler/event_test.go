package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanicsdotio/oceanics.io-sub000/auth"
	"github.com/oceanicsdotio/oceanics.io-sub000/cypher"
)

const (
	testEmail    = "test@oceanics.io"
	testPassword = "c29tZV9wYXNzd29yZA=="
	testSecret   = "c29tZV9zZWNyZXQ="
)

var (
	basicHeader  = testEmail + ":" + testPassword + ":" + testSecret
	bearerHeader = "Bearer:some.signed.token"
)

func ptr(s string) *string { return &s }

func TestParseEvent_Scenarios(t *testing.T) {
	t.Run("get without authorization", func(t *testing.T) {
		_, err := ParseEvent([]byte(`{"httpMethod":"GET","headers":{}}`))
		assert.Equal(t, HeaderAuthorizationInvalid, KindOf(err))
	})

	t.Run("post with bearer and body", func(t *testing.T) {
		ev, err := ParseEvent([]byte(`{"httpMethod":"POST","headers":{"authorization":"Bearer:token"},"body":"some body is required"}`))
		require.NoError(t, err)
		authn, ok := ev.Headers.Authentication()
		assert.True(t, ok)
		assert.Equal(t, auth.BearerAuth, authn)
	})

	t.Run("post with bearer and empty body", func(t *testing.T) {
		_, err := ParseEvent([]byte(`{"httpMethod":"POST","headers":{"authorization":"Bearer:token"},"body":""}`))
		assert.Equal(t, BodyMissing, KindOf(err))
	})

	t.Run("get with basic", func(t *testing.T) {
		ev := &Event{HTTPMethod: "GET", Headers: Headers{Authorization: ptr(basicHeader)}}
		require.NoError(t, ev.Validate())
		authn, ok := ev.Headers.Authentication()
		assert.True(t, ok)
		assert.Equal(t, auth.BasicAuth, authn)
	})

	t.Run("related nodes", func(t *testing.T) {
		ev := &Event{
			HTTPMethod:            "POST",
			Headers:               Headers{Authorization: ptr(bearerHeader)},
			QueryStringParameters: &QueryParameters{Left: "Things", UUID: "abc", Right: "Sensors"},
			Body:                  ptr(`{"name":"probe"}`),
		}
		require.NoError(t, ev.Validate())

		left, right, err := ev.Nodes()
		require.NoError(t, err)
		require.NotNil(t, left)
		require.NotNil(t, right)
		assert.Equal(t, "Things", left.Label)
		assert.Equal(t, "abc", left.UUID())
		assert.Equal(t, "Sensors", right.Label)
		assert.Equal(t, "( n1:Sensors { name: 'probe' } )", right.String())
	})
}

func TestEvent_Validate(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want Kind
	}{
		{
			name: "unknown method",
			ev:   Event{HTTPMethod: "PATCH", Headers: Headers{Authorization: ptr(bearerHeader)}},
			want: RequestInvalid,
		},
		{
			name: "missing method",
			ev:   Event{Headers: Headers{Authorization: ptr(bearerHeader)}},
			want: RequestInvalid,
		},
		{
			name: "label is not an identifier",
			ev: Event{
				HTTPMethod:            "GET",
				Headers:               Headers{Authorization: ptr(bearerHeader)},
				QueryStringParameters: &QueryParameters{Left: "Things) DETACH DELETE (x"},
			},
			want: RequestInvalid,
		},
		{
			name: "reserved left label",
			ev: Event{
				HTTPMethod:            "GET",
				Headers:               Headers{Authorization: ptr(bearerHeader)},
				QueryStringParameters: &QueryParameters{Left: "User"},
			},
			want: RequestInvalid,
		},
		{
			name: "reserved right label",
			ev: Event{
				HTTPMethod:            "GET",
				Headers:               Headers{Authorization: ptr(bearerHeader)},
				QueryStringParameters: &QueryParameters{Left: "Things", UUID: "abc", Right: "Provider"},
			},
			want: RequestInvalid,
		},
		{
			name: "put without body",
			ev:   Event{HTTPMethod: "PUT", Headers: Headers{Authorization: ptr(bearerHeader)}},
			want: BodyMissing,
		},
		{
			name: "delete with body",
			ev:   Event{HTTPMethod: "DELETE", Headers: Headers{Authorization: ptr(bearerHeader)}, Body: ptr("{}")},
			want: BodyNotExpected,
		},
		{
			name: "get with empty body",
			ev:   Event{HTTPMethod: "GET", Headers: Headers{Authorization: ptr(bearerHeader)}, Body: ptr("")},
			want: BodyNotExpected,
		},
		{
			name: "unrecognised authorization",
			ev:   Event{HTTPMethod: "GET", Headers: Headers{Authorization: ptr("Token abc")}},
			want: HeaderAuthorizationInvalid,
		},
		{
			name: "body checked before authorization",
			ev:   Event{HTTPMethod: "POST"},
			want: BodyMissing,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ev.Validate()
			require.Error(t, err)
			assert.Equal(t, tt.want, KindOf(err))
			assert.ErrorIs(t, err, &Error{Kind: tt.want})
		})
	}
}

func TestParseEvent_Malformed(t *testing.T) {
	_, err := ParseEvent([]byte(`{"httpMethod":`))
	assert.Equal(t, RequestInvalid, KindOf(err))
}

func TestEvent_Nodes(t *testing.T) {
	t.Run("no parameters", func(t *testing.T) {
		ev := Event{HTTPMethod: "GET"}
		left, right, err := ev.Nodes()
		require.NoError(t, err)
		assert.Nil(t, left)
		assert.Nil(t, right)
	})

	t.Run("left only", func(t *testing.T) {
		ev := Event{
			HTTPMethod:            "POST",
			QueryStringParameters: &QueryParameters{Left: "Things"},
			Body:                  ptr(`{"name":"buoy","depth":3}`),
		}
		left, right, err := ev.Nodes()
		require.NoError(t, err)
		assert.Nil(t, right)
		assert.Equal(t, "( n:Things { depth: 3, name: 'buoy' } )", left.String())
	})

	t.Run("left with uuid", func(t *testing.T) {
		ev := Event{HTTPMethod: "GET", QueryStringParameters: &QueryParameters{Left: "Things", UUID: "abc"}}
		left, right, err := ev.Nodes()
		require.NoError(t, err)
		assert.Nil(t, right)
		assert.Equal(t, "( n:Things { uuid: 'abc' } )", left.String())
	})

	t.Run("right without uuid", func(t *testing.T) {
		ev := Event{HTTPMethod: "GET", QueryStringParameters: &QueryParameters{Left: "Things", Right: "Sensors"}}
		left, right, err := ev.Nodes()
		require.NoError(t, err)
		assert.Nil(t, left)
		assert.Nil(t, right)
	})

	t.Run("body is not an object", func(t *testing.T) {
		ev := Event{
			HTTPMethod:            "POST",
			QueryStringParameters: &QueryParameters{Left: "Things"},
			Body:                  ptr(`"some body is required"`),
		}
		_, _, err := ev.Nodes()
		assert.Equal(t, RequestInvalid, KindOf(err))
	})
}

func TestKind_Status(t *testing.T) {
	assert.Equal(t, 400, BodyMissing.Status())
	assert.Equal(t, 401, TokenDecodeFailed.Status())
	assert.Equal(t, 403, SecretInvalid.Status())
	assert.Equal(t, 404, NotFound.Status())
	assert.Equal(t, 405, MethodNotAllowed.Status())
	assert.Equal(t, 409, Conflict.Status())
	assert.Equal(t, 500, Internal.Status())
	assert.Equal(t, "Unknown", Kind(99).String())
}

func TestKindOf_Unclassified(t *testing.T) {
	assert.Equal(t, Internal, KindOf(assert.AnError))
	assert.Equal(t, Internal, KindOf(cypher.ErrLabelRequired))
}
