package requests

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
	requestService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListRequestsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	opts := ListRequestsOptions{
		Limit:     &params.Limit,
		Offset:    &params.Offset,
		Status:    params.Status,
		StudentID: params.StudentID,
	}

	// Students only ever see their own requests.
	if ident, ok := auth.IdentityFromContext(c); ok && ident.Role == models.RoleStudent {
		opts.StudentID = &ident.Username
	}

	reqs, total, err := h.requestService.ListRequestsWithTotal(ctx, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Requests []*models.BookRequest `json:"book_requests"`
		Total    int                   `json:"total"`
	}{reqs, total}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateRequestPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	// A student can only file requests for themselves.
	if ident, ok := auth.IdentityFromContext(c); ok && ident.Role == models.RoleStudent && ident.Username != params.StudentID {
		return errcodes.Forbidden("Requesting a book for another student")
	}

	request, err := h.requestService.CreateRequest(ctx, params.BookID, params.StudentID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, request))
}

func (h *handler) updateStatus(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Book request")
	}

	params := UpdateRequestPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	request, err := h.requestService.UpdateStatus(ctx, id, params.Status)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, request))
}

func (h *handler) returnBook(c echo.Context) error {
	ctx := c.Request().Context()

	params := ReturnBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	request, err := h.requestService.Return(ctx, params.BookID, params.StudentID)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Message string              `json:"message"`
		Request *models.BookRequest `json:"book_request"`
	}{"Book returned successfully", request}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}
