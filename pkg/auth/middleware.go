package auth

import (
	"github.com/devlibrary/devlib/pkg/errcodes"
	"github.com/labstack/echo/v4"
)

// Context keys for storing the authenticated identity.
const (
	ContextKeyIdentity = "identity"
)

// Middleware provides authentication middleware.
type Middleware struct {
	authService *Service
}

// NewMiddleware creates a new auth middleware.
func NewMiddleware(authService *Service) *Middleware {
	return &Middleware{
		authService: authService,
	}
}

// Authenticate extracts and validates the JWT from the cookie. If valid, it
// confirms the account still exists and stores the identity in the context.
// If not authenticated, it returns 401.
func (m *Middleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		cookie, err := c.Cookie(CookieName)
		if err != nil || cookie.Value == "" {
			return errcodes.Unauthorized("Authentication required")
		}

		claims, err := m.authService.ValidateToken(cookie.Value)
		if err != nil {
			return errcodes.Unauthorized("Invalid or expired token")
		}

		ident, err := m.authService.Lookup(ctx, claims)
		if err != nil {
			return errcodes.Unauthorized("Account not found")
		}

		c.Set(ContextKeyIdentity, ident)

		return next(c)
	}
}

// RequireRole returns middleware that checks the authenticated identity's
// role. Must be used after Authenticate.
func (m *Middleware) RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident, ok := c.Get(ContextKeyIdentity).(*Identity)
			if !ok {
				return errcodes.Unauthorized("Authentication required")
			}

			if ident.Role != role {
				return errcodes.Forbidden("Acting as " + ident.Role)
			}

			return next(c)
		}
	}
}

// IdentityFromContext returns the authenticated identity, if any.
func IdentityFromContext(c echo.Context) (*Identity, bool) {
	ident, ok := c.Get(ContextKeyIdentity).(*Identity)
	return ident, ok
}
