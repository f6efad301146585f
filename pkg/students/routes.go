package students

import (
	"github.com/devlibrary/devlib/pkg/auth"
	"github.com/devlibrary/devlib/pkg/models"
	"github.com/devlibrary/devlib/pkg/uploadstore"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers student routes. Enrollment, listing, and deletion
// are librarian actions; students can fetch and edit their own profile.
func RegisterRoutes(e *echo.Echo, db *bun.DB, uploads *uploadstore.Store, authMiddleware *auth.Middleware) {
	h := &handler{
		studentService: NewService(db),
		uploads:        uploads,
	}

	librarian := authMiddleware.RequireRole(models.RoleLibrarian)

	g := e.Group("/students")
	g.Use(authMiddleware.Authenticate)
	g.GET("", h.list, librarian)
	g.POST("", h.create, librarian)
	g.GET("/:studentId", h.retrieve)
	g.PUT("/:studentId", h.update)
	g.DELETE("/:studentId", h.del, librarian)
}
