package notifications

import (
	"github.com/devlibrary/devlib/pkg/auth"
	"github.com/devlibrary/devlib/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers notification routes. Creating notifications and
// marking them read are librarian actions; students list their own.
func RegisterRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		notificationService: NewService(db),
	}

	librarian := authMiddleware.RequireRole(models.RoleLibrarian)

	g := e.Group("/notifications")
	g.Use(authMiddleware.Authenticate)
	g.GET("", h.list)
	g.POST("", h.create, librarian)
	g.PUT("/:id/read", h.markRead)
}
