package books

import (
	"github.com/devlibrary/devlib/pkg/auth"
	"github.com/devlibrary/devlib/pkg/models"
	"github.com/devlibrary/devlib/pkg/uploadstore"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers catalog routes. Reads and likes are open to any
// authenticated caller; catalog administration is librarian-only.
func RegisterRoutes(e *echo.Echo, db *bun.DB, uploads *uploadstore.Store, authMiddleware *auth.Middleware) {
	h := &handler{
		bookService: NewService(db),
		uploads:     uploads,
	}

	librarian := authMiddleware.RequireRole(models.RoleLibrarian)

	g := e.Group("/books")
	g.Use(authMiddleware.Authenticate)
	g.GET("", h.list)
	g.GET("/:bookId", h.retrieve)
	g.POST("", h.create, librarian)
	g.POST("/like", h.like)
	g.PUT("/:bookId", h.update, librarian)
	g.DELETE("/:bookId", h.del, librarian)
}
