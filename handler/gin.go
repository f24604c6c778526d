package handler

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
)

// maxBodyBytes bounds request bodies read by the gin adapter.
const maxBodyBytes = 1 << 20

// FromGin converts a gin request into an Event.
func FromGin(c *gin.Context) (*Event, error) {
	ev := &Event{HTTPMethod: c.Request.Method}
	if value := c.GetHeader("Authorization"); value != "" {
		ev.Headers.Authorization = &value
	}
	left, uuid, right := c.Query("left"), c.Query("uuid"), c.Query("right")
	if left != "" || uuid != "" || right != "" {
		ev.QueryStringParameters = &QueryParameters{Left: left, UUID: uuid, Right: right}
	}
	if c.Request.Body != nil {
		data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
		if err != nil {
			return nil, err
		}
		if len(data) > 0 {
			body := string(data)
			ev.Body = &body
		}
	}
	return ev, nil
}

// Gin serves the API from a gin route.
func (h *Handler) Gin() gin.HandlerFunc {
	return func(c *gin.Context) {
		ev, err := FromGin(c)
		var resp Response
		if err != nil {
			resp = h.finish(&Event{HTTPMethod: c.Request.Method}, time.Now(), Response{}, fail(RequestInvalid, err))
		} else {
			resp = h.Handle(c.Request.Context(), ev)
		}
		if len(resp.Body) == 0 {
			c.Status(resp.StatusCode)
			return
		}
		c.Data(resp.StatusCode, "application/json", resp.Body)
	}
}
