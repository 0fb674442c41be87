package identity

import (
	"net/http"

	"github.com/friendsofgo/errors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Optional resolves the caller when an Authorization header is present.
// Requests without one continue anonymously; a bad token is rejected. A
// valid token for an unknown user continues anonymously.
func Optional(r *Resolver, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		user, err := r.Resolve(c.Request.Context(), header)
		switch {
		case err == nil:
			c.Request = c.Request.WithContext(WithUser(c.Request.Context(), user))
		case errors.Is(err, ErrUnauthenticated):
		default:
			abort(c, log, err)
			return
		}

		c.Next()
	}
}

// Required rejects requests that do not resolve to a known user.
func Required(r *Resolver, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := r.Resolve(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			abort(c, log, err)
			return
		}

		c.Request = c.Request.WithContext(WithUser(c.Request.Context(), user))
		c.Next()
	}
}

func abort(c *gin.Context, log logrus.FieldLogger, err error) {
	if errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrUnauthenticated) {
		if log != nil {
			log.WithError(err).Debug("rejected caller")
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if log != nil {
		log.WithError(err).Error("identity lookup failed")
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
