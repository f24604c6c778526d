package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/oceanicsdotio/oceanics.io-sub000/auth"
	"github.com/oceanicsdotio/oceanics.io-sub000/cypher"
	"github.com/oceanicsdotio/oceanics.io-sub000/graph"
)

// LinkLabel is the relationship type created between entities.
const LinkLabel = "Linked"

// Response is the outcome of one request, independent of the HTTP adapter.
type Response struct {
	StatusCode int
	Body       []byte
}

func jsonResponse(status int, v any) Response {
	body, err := json.Marshal(v)
	if err != nil {
		return errorResponse(fail(Internal, err))
	}
	return Response{StatusCode: status, Body: body}
}

func rawResponse(status int, body json.RawMessage) Response {
	return Response{StatusCode: status, Body: body}
}

func emptyResponse(status int) Response {
	return Response{StatusCode: status}
}

func errorResponse(err error) Response {
	kind := KindOf(err)
	body, _ := json.Marshal(map[string]string{
		"reason":  kind.String(),
		"message": http.StatusText(kind.Status()),
	})
	return Response{StatusCode: kind.Status(), Body: body}
}

// Handler serves validated events against the graph.
type Handler struct {
	store    *graph.Store
	accounts *graph.Repository[graph.Account]
	issuer   *auth.Issuer
	verifier auth.Verifier
	logger   *slog.Logger
	newUUID  func() string
}

// New creates a Handler. The issuer holds the signing key; it is the only
// place the key is reachable from.
func New(store *graph.Store, issuer *auth.Issuer, verifier auth.Verifier, logger *slog.Logger) (*Handler, error) {
	accounts, err := graph.RepositoryFor[graph.Account](store)
	if err != nil {
		return nil, fmt.Errorf("could not create account repository: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:    store,
		accounts: accounts,
		issuer:   issuer,
		verifier: verifier,
		logger:   logger,
		newUUID:  uuid.NewString,
	}, nil
}

// HandleJSON decodes a raw event and serves it.
func (h *Handler) HandleJSON(ctx context.Context, raw []byte) Response {
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return h.finish(&ev, time.Now(), Response{}, fail(RequestInvalid, err))
	}
	return h.Handle(ctx, &ev)
}

// Handle validates ev and dispatches it to a route.
func (h *Handler) Handle(ctx context.Context, ev *Event) Response {
	start := time.Now()
	if err := ev.Validate(); err != nil {
		return h.finish(ev, start, Response{}, err)
	}
	resp, err := h.route(ctx, ev)
	return h.finish(ev, start, resp, err)
}

func (h *Handler) finish(ev *Event, start time.Time, resp Response, err error) Response {
	method := ev.HTTPMethod
	if eventValidate.Var(method, "oneof=GET HEAD DELETE POST PUT") != nil {
		method = "invalid"
	}
	route := ev.route()
	outcome := "ok"
	if err != nil {
		kind := KindOf(err)
		outcome = kind.String()
		resp = errorResponse(err)
		if kind == Internal {
			h.logger.Error("request failed", "method", method, "route", route, "error", err)
		} else {
			h.logger.Warn("request rejected", "method", method, "route", route, "reason", outcome, "error", err)
		}
	} else {
		h.logger.Info("request served", "method", method, "route", route, "status", resp.StatusCode)
	}
	requestsTotal.WithLabelValues(method, outcome).Inc()
	requestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	return resp
}

func (h *Handler) route(ctx context.Context, ev *Event) (Response, error) {
	authn, _ := ev.Headers.Authentication()
	if ev.params().Left == "" {
		return h.account(ctx, ev, authn)
	}

	if _, err := h.bearer(ev, authn); err != nil {
		return Response{}, err
	}
	left, right, err := ev.Nodes()
	if err != nil {
		return Response{}, err
	}
	if left == nil {
		return Response{}, fail(RequestInvalid, errRouteIncomplete)
	}
	if right == nil {
		return h.entity(ctx, ev, *left)
	}
	return h.related(ctx, ev.HTTPMethod, *left, *right)
}

// bearer verifies the token of a bearer request.
func (h *Handler) bearer(ev *Event, authn auth.Authentication) (auth.Claims, error) {
	if authn != auth.BearerAuth {
		return auth.Claims{}, fail(HeaderAuthorizationInvalid, errors.New("bearer token required"))
	}
	token, err := auth.ParseBearer(*ev.Headers.Authorization)
	if err != nil {
		return auth.Claims{}, fail(HeaderAuthorizationInvalid, err)
	}
	claims, err := h.issuer.Verify(token)
	if err != nil {
		return auth.Claims{}, fail(TokenDecodeFailed, err)
	}
	return claims, nil
}

// basic parses a basic request's credentials.
func (h *Handler) basic(ev *Event, authn auth.Authentication) (auth.Basic, error) {
	if authn != auth.BasicAuth {
		return auth.Basic{}, fail(HeaderAuthorizationInvalid, errors.New("basic credentials required"))
	}
	basic, err := auth.ParseBasic(*ev.Headers.Authorization)
	if err != nil {
		return auth.Basic{}, fail(HeaderAuthorizationInvalid, err)
	}
	return basic, nil
}

// credentialError classifies failures of the credential verifier.
func credentialError(err error) error {
	switch {
	case errors.Is(err, auth.ErrSecretInvalid):
		return fail(SecretInvalid, err)
	case errors.Is(err, auth.ErrPasswordHash):
		return fail(PasswordHash, err)
	default:
		return fail(Internal, err)
	}
}

// storeError classifies failures coming back from the database layer.
func storeError(err error) error {
	if errors.Is(err, graph.ErrNotFound) {
		return fail(NotFound, err)
	}
	return fail(Internal, err)
}

// account serves the routes without a left label: token issue, registration,
// the label index, and account removal.
func (h *Handler) account(ctx context.Context, ev *Event, authn auth.Authentication) (Response, error) {
	switch {
	case ev.HTTPMethod == http.MethodGet && authn == auth.BasicAuth:
		return h.login(ctx, ev, authn)
	case ev.HTTPMethod == http.MethodPost && authn == auth.BasicAuth:
		return h.register(ctx, ev, authn)
	case ev.HTTPMethod == http.MethodGet && authn == auth.BearerAuth:
		if _, err := h.bearer(ev, authn); err != nil {
			return Response{}, err
		}
		doc, err := h.store.Document(ctx, cypher.Labels())
		if err != nil {
			return Response{}, storeError(err)
		}
		return rawResponse(http.StatusOK, doc), nil
	case ev.HTTPMethod == http.MethodDelete && authn == auth.BearerAuth:
		claims, err := h.bearer(ev, authn)
		if err != nil {
			return Response{}, err
		}
		q := cypher.Wildcard().Delete(claims.Node(), cypher.NewNode(nil, "n", ""))
		if err := h.store.Exec(ctx, q); err != nil {
			return Response{}, storeError(err)
		}
		return emptyResponse(http.StatusNoContent), nil
	default:
		return Response{}, fail(MethodNotAllowed, nil)
	}
}

// login exchanges valid basic credentials for a bearer token.
func (h *Handler) login(ctx context.Context, ev *Event, authn auth.Authentication) (Response, error) {
	basic, err := h.basic(ev, authn)
	if err != nil {
		return Response{}, err
	}
	user, err := h.verifier.Node(basic)
	if err != nil {
		return Response{}, credentialError(err)
	}
	q, err := user.Load("uuid")
	if err != nil {
		return Response{}, fail(Internal, err)
	}
	found, err := h.store.Exists(ctx, q)
	if err != nil {
		return Response{}, storeError(err)
	}
	if !found {
		return Response{}, fail(Unauthorized, nil)
	}
	token, err := h.issuer.Issue(basic.Email)
	if err != nil {
		return Response{}, fail(Internal, err)
	}
	return jsonResponse(http.StatusOK, map[string]string{"token": token}), nil
}

// register creates a User for new basic credentials.
func (h *Handler) register(ctx context.Context, ev *Event, authn auth.Authentication) (Response, error) {
	basic, err := h.basic(ev, authn)
	if err != nil {
		return Response{}, err
	}
	credential, err := h.verifier.Credential(basic.Password, basic.Secret)
	if err != nil {
		return Response{}, credentialError(err)
	}
	_, err = h.accounts.FindByID(ctx, basic.Email)
	switch {
	case err == nil:
		return Response{}, fail(Conflict, errors.New("account exists"))
	case !errors.Is(err, graph.ErrNotFound):
		return Response{}, storeError(err)
	}
	account := graph.Account{Email: basic.Email, Credential: credential, UUID: h.newUUID()}
	if err := h.accounts.Save(ctx, &account); err != nil {
		return Response{}, storeError(err)
	}
	return jsonResponse(http.StatusCreated, map[string]string{"uuid": account.UUID}), nil
}

// entity serves single-label routes.
func (h *Handler) entity(ctx context.Context, ev *Event, n cypher.Node) (Response, error) {
	switch ev.HTTPMethod {
	case http.MethodGet:
		q, err := n.Load("")
		if err != nil {
			return Response{}, fail(Internal, err)
		}
		result, err := h.store.Graph(ctx, q)
		if err != nil {
			return Response{}, storeError(err)
		}
		return jsonResponse(http.StatusOK, result), nil

	case http.MethodHead:
		count, err := h.store.Count(ctx, n.Count())
		if err != nil {
			return Response{}, storeError(err)
		}
		if count == 0 {
			return Response{}, fail(NotFound, nil)
		}
		return emptyResponse(http.StatusOK), nil

	case http.MethodPost:
		if n.UUID() == "" {
			n.Properties = n.Properties.With("uuid", cypher.String(h.newUUID()))
		}
		q, err := n.Create()
		if err != nil {
			return Response{}, fail(Internal, err)
		}
		if err := h.store.Exec(ctx, q); err != nil {
			return Response{}, storeError(err)
		}
		return jsonResponse(http.StatusCreated, map[string]string{"uuid": n.UUID()}), nil

	case http.MethodPut:
		id := ev.params().UUID
		if id == "" {
			return Response{}, fail(RequestInvalid, errors.New("uuid required"))
		}
		props, err := ev.properties()
		if err != nil {
			return Response{}, err
		}
		if len(props) == 0 {
			return Response{}, fail(RequestInvalid, errors.New("no properties to update"))
		}
		target := cypher.NewUUIDNode(id, n.Symbol, n.Label)
		q, err := target.Mutate(cypher.NewNode(props, n.Symbol, n.Label))
		if err != nil {
			return Response{}, fail(Internal, err)
		}
		if err := h.store.Exec(ctx, q); err != nil {
			return Response{}, storeError(err)
		}
		return emptyResponse(http.StatusNoContent), nil

	case http.MethodDelete:
		if err := h.store.Exec(ctx, n.Delete()); err != nil {
			return Response{}, storeError(err)
		}
		return emptyResponse(http.StatusNoContent), nil

	default:
		return Response{}, fail(MethodNotAllowed, nil)
	}
}

// related serves routes between a left entity and a right label.
func (h *Handler) related(ctx context.Context, method string, left, right cypher.Node) (Response, error) {
	switch method {
	case http.MethodGet, http.MethodHead:
		doc, err := h.store.Document(ctx, cypher.Wildcard().Query(left, right, right.Symbol))
		if err != nil {
			return Response{}, storeError(err)
		}
		if method == http.MethodHead {
			var summary struct {
				Count int64 `json:"count"`
			}
			if err := json.Unmarshal(doc, &summary); err != nil {
				return Response{}, fail(Internal, err)
			}
			if summary.Count == 0 {
				return Response{}, fail(NotFound, nil)
			}
			return emptyResponse(http.StatusOK), nil
		}
		return rawResponse(http.StatusOK, doc), nil

	case http.MethodPost:
		if right.UUID() == "" {
			right.Properties = right.Properties.With("uuid", cypher.String(h.newUUID()))
		}
		q := cypher.NewLinks(LinkLabel, "").Insert(left, right)
		if err := h.store.Exec(ctx, q); err != nil {
			return Response{}, storeError(err)
		}
		return jsonResponse(http.StatusCreated, map[string]string{"uuid": right.UUID()}), nil

	case http.MethodPut:
		if right.UUID() == "" {
			return Response{}, fail(RequestInvalid, errors.New("uuid of the right entity required"))
		}
		target := cypher.NewUUIDNode(right.UUID(), right.Symbol, right.Label)
		if err := h.store.Exec(ctx, cypher.NewLinks(LinkLabel, "").Join(left, target)); err != nil {
			return Response{}, storeError(err)
		}
		return emptyResponse(http.StatusNoContent), nil

	case http.MethodDelete:
		if err := h.store.Exec(ctx, cypher.Wildcard().DeleteChild(left, right)); err != nil {
			return Response{}, storeError(err)
		}
		return emptyResponse(http.StatusNoContent), nil

	default:
		return Response{}, fail(MethodNotAllowed, nil)
	}
}
