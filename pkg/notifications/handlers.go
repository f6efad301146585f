package notifications

import (
	"net/http"
	"strconv"

	"github.com/devlibrary/devlib/pkg/auth"
	"github.com/devlibrary/devlib/pkg/errcodes"
	"github.com/devlibrary/devlib/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	notificationService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListNotificationsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	opts := ListNotificationsOptions{
		Limit:     params.Limit,
		Offset:    params.Offset,
		StudentID: params.StudentID,
	}

	// Students only ever see their own notifications.
	if ident, ok := auth.IdentityFromContext(c); ok && ident.Role == models.RoleStudent {
		opts.StudentID = &ident.Username
	}

	notifications, err := h.notificationService.ListNotifications(ctx, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Notifications []*models.Notification `json:"notifications"`
	}{notifications}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateNotificationPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	notification := &models.Notification{
		StudentID:   params.StudentID,
		StudentName: params.StudentName,
		BookID:      params.BookID,
		BookTitle:   params.BookTitle,
		Message:     params.Message,
	}

	if err := h.notificationService.CreateNotification(ctx, notification); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, notification))
}

func (h *handler) markRead(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Notification")
	}

	notification, err := h.notificationService.MarkRead(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, notification))
}
