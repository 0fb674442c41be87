// Package identity maps an authenticated caller to an internal user.
//
// Callers present a bearer JWT issued by the external identity provider. Its
// subject is the provider's user id, stored as users.clerk_id.
package identity

import (
	"context"
	"database/sql"
	"strings"

	"github.com/aarondl/sqlboiler/v4/boil"
	"github.com/aarondl/sqlboiler/v4/queries/qm"
	"github.com/friendsofgo/errors"
	"github.com/golang-jwt/jwt/v5"

	"github.com/nrfta/tubepage/internal/models"
)

var (
	// ErrUnauthenticated is returned when a protected listing is called
	// without a known user.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInvalidToken is returned for malformed, expired or badly signed tokens.
	ErrInvalidToken = errors.New("invalid token")
)

// Resolver verifies tokens and loads the user they belong to.
type Resolver struct {
	secret []byte
	issuer string
	exec   boil.ContextExecutor
}

// NewResolver creates a Resolver verifying HS256 tokens signed with secret.
// An empty issuer disables the issuer check.
func NewResolver(secret, issuer string, exec boil.ContextExecutor) *Resolver {
	return &Resolver{secret: []byte(secret), issuer: issuer, exec: exec}
}

// Subject verifies a bearer token and returns its subject.
func (r *Resolver) Subject(tokenString string) (string, error) {
	if len(r.secret) == 0 {
		return "", errors.Wrap(ErrInvalidToken, "no signing secret configured")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if r.issuer != "" {
		opts = append(opts, jwt.WithIssuer(r.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return r.secret, nil
	}, opts...)
	if err != nil || !tok.Valid {
		return "", errors.Wrap(ErrInvalidToken, "verify")
	}

	if claims.Subject == "" {
		return "", errors.Wrap(ErrInvalidToken, "missing sub claim")
	}
	return claims.Subject, nil
}

// User returns the user with the given external id. It returns
// ErrUnauthenticated when no such user exists.
func (r *Resolver) User(ctx context.Context, clerkID string) (*models.User, error) {
	user, err := models.Users(qm.Where("users.clerk_id = ?", clerkID)).One(ctx, r.exec)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, errors.Wrap(err, "load user")
	}
	return user, nil
}

// Resolve verifies the Authorization header value and loads its user.
func (r *Resolver) Resolve(ctx context.Context, authorization string) (*models.User, error) {
	token, ok := bearer(authorization)
	if !ok {
		return nil, errors.Wrap(ErrInvalidToken, "missing bearer token")
	}

	subject, err := r.Subject(token)
	if err != nil {
		return nil, err
	}
	return r.User(ctx, subject)
}

func bearer(authorization string) (string, bool) {
	const prefix = "Bearer "
	if len(authorization) <= len(prefix) || !strings.EqualFold(authorization[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(authorization[len(prefix):]), true
}

type ctxKey struct{}

// WithUser returns a context carrying user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, user)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(ctxKey{}).(*models.User)
	return user, ok && user != nil
}

// ViewerID returns the id of the authenticated user or "" for anonymous
// callers.
func ViewerID(ctx context.Context) string {
	if user, ok := UserFromContext(ctx); ok {
		return user.ID
	}
	return ""
}
