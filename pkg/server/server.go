package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/devlibrary/devlib/pkg/auth"
	"github.com/devlibrary/devlib/pkg/binder"
	"github.com/devlibrary/devlib/pkg/books"
	"github.com/devlibrary/devlib/pkg/config"
	"github.com/devlibrary/devlib/pkg/errcodes"
	"github.com/devlibrary/devlib/pkg/notifications"
	"github.com/devlibrary/devlib/pkg/requests"
	"github.com/devlibrary/devlib/pkg/students"
	"github.com/devlibrary/devlib/pkg/uploadstore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB, uploads *uploadstore.Store) (*http.Server, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowCredentials: true,
	}))

	health.RegisterRoutes(e)

	authService := auth.RegisterRoutes(e, db, cfg.JWTSecret)
	authMiddleware := auth.NewMiddleware(authService)

	books.RegisterRoutes(e, db, uploads, authMiddleware)
	students.RegisterRoutes(e, db, uploads, authMiddleware)
	requests.RegisterRoutes(e, db, authMiddleware)
	notifications.RegisterRoutes(e, db, authMiddleware)

	e.Static(uploadstore.URLPrefix, uploads.Dir())

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
