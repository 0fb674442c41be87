package api

import (
	"net/http"

	"github.com/friendsofgo/errors"
	"github.com/gin-gonic/gin"

	"github.com/nrfta/tubepage"
	"github.com/nrfta/tubepage/internal/identity"
	"github.com/nrfta/tubepage/internal/logging"
	"github.com/nrfta/tubepage/internal/store"
)

// fail writes the error response for err. Only client errors carry a
// message; everything else is logged and reported as a generic 500.
func (s *Server) fail(c *gin.Context, err error) {
	var reqErr *RequestError

	switch {
	case errors.As(err, &reqErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "fields": reqErr.Fields})
	case errors.Is(err, paging.ErrInvalidPageSize):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page size"})
	case errors.Is(err, paging.ErrInvalidCursor):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cursor"})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, identity.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	default:
		s.log.WithField(logging.RequestIDKey, c.GetString(logging.RequestIDKey)).
			WithError(err).
			Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// writePage renders a page as {items, nextCursor, totalCount?}.
func writePage[T any](s *Server, c *gin.Context, page *paging.Page[T], err error, opts ...paging.ResultOption) {
	if err != nil {
		s.fail(c, err)
		return
	}

	res, err := paging.BuildResult(page, paging.Identity[T], opts...)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
