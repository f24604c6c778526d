package handler

import (
	"context"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

// FromAPIGateway converts an API Gateway proxy request into an Event. Header
// names are matched case-insensitively and an empty body counts as no body.
func FromAPIGateway(req events.APIGatewayProxyRequest) *Event {
	ev := &Event{HTTPMethod: req.HTTPMethod}
	for name, value := range req.Headers {
		if strings.EqualFold(name, "authorization") {
			v := value
			ev.Headers.Authorization = &v
			break
		}
	}
	if len(req.QueryStringParameters) > 0 {
		ev.QueryStringParameters = &QueryParameters{
			Left:  req.QueryStringParameters["left"],
			UUID:  req.QueryStringParameters["uuid"],
			Right: req.QueryStringParameters["right"],
		}
	}
	if req.Body != "" {
		body := req.Body
		ev.Body = &body
	}
	return ev
}

// APIGateway converts the response for the proxy integration.
func (r Response) APIGateway() events.APIGatewayProxyResponse {
	resp := events.APIGatewayProxyResponse{StatusCode: r.StatusCode}
	if len(r.Body) > 0 {
		resp.Headers = map[string]string{"Content-Type": "application/json"}
		resp.Body = string(r.Body)
	}
	return resp
}

// Lambda is the function handler passed to lambda.Start.
func (h *Handler) Lambda(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return h.Handle(ctx, FromAPIGateway(req)).APIGateway(), nil
}
