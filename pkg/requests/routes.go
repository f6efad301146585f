package requests

import (
	"github.com/devlibrary/devlib/pkg/auth"
	"github.com/devlibrary/devlib/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers borrow-request routes. Students create and list
// their own requests; approving, rejecting, and processing returns are
// librarian actions.
func RegisterRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		requestService: NewService(db),
	}

	librarian := authMiddleware.RequireRole(models.RoleLibrarian)

	g := e.Group("/book-requests")
	g.Use(authMiddleware.Authenticate)
	g.GET("", h.list)
	g.POST("", h.create)
	g.PUT("/:id", h.updateStatus, librarian)

	e.POST("/books/return", h.returnBook, authMiddleware.Authenticate, librarian)
}
