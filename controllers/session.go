package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"
)

var errSessionRequired = errors.New("session required: sign in or send X-Session-ID")

// sessionID resolves the cart session for a request: the authenticated
// uid when present, otherwise the device-generated X-Session-ID header.
// Guests keep their cart per device, signed-in users per account.
func sessionID(c *gin.Context) string {
	if uid, ok := c.Get("uid"); ok {
		if s, ok := uid.(string); ok && s != "" {
			return s
		}
	}
	return c.GetHeader("X-Session-ID")
}

// userID resolves the authenticated uid, or "" for guests.
func userID(c *gin.Context) string {
	if uid, ok := c.Get("uid"); ok {
		if s, ok := uid.(string); ok {
			return s
		}
	}
	return ""
}
