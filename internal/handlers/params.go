package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gobinath946/project-weaver-sub001/internal/apperrors"
	"github.com/gobinath946/project-weaver-sub001/internal/middleware"
)

// pathID parses the :id path segment.
func pathID(c *gin.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.Validation("id must be a positive integer")
	}
	return id, nil
}

// queryUint64 parses an optional numeric query parameter; absent means nil.
func queryUint64(c *gin.Context, name string) (*uint64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, apperrors.Validation(name + " must be a positive integer")
	}
	return &value, nil
}

// principal fetches the authenticated caller or fails the request. Routes
// behind RequireAuth always have one; the fallback guards against wiring
// mistakes, not callers.
func principal(c *gin.Context) (middleware.Principal, bool) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		fail(c, apperrors.Unauthorized(apperrors.CodeNoToken, "Authentication required"))
		return middleware.Principal{}, false
	}
	return p, true
}
