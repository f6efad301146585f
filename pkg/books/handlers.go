package books

import (
	"mime/multipart"
	"net/http"

	"github.com/devlibrary/devlib/pkg/errcodes"
	"github.com/devlibrary/devlib/pkg/imaging"
	"github.com/devlibrary/devlib/pkg/models"
	"github.com/devlibrary/devlib/pkg/uploadstore"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	bookService *Service
	uploads     *uploadstore.Store
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListBooksQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	opts := ListBooksOptions{
		Limit:    &params.Limit,
		Offset:   &params.Offset,
		Category: params.Category,
	}

	books, total, err := h.bookService.ListBooksWithTotal(ctx, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Books []*models.Book `json:"books"`
		Total int            `json:"total"`
	}{books, total}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	bookID := c.Param("bookId")

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{
		BookID: &bookID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, book))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book := &models.Book{
		Title:           params.Title,
		Author:          params.Author,
		Description:     params.Description,
		Category:        params.Category,
		AvailableCopies: params.AvailableCopies,
	}

	if fh, ok := params.FormFiles["cover_image"]; ok {
		coverURL, err := h.saveImage(fh)
		if err != nil {
			return err
		}
		book.CoverImageURL = &coverURL
	}

	if err := h.bookService.CreateBook(ctx, book); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, book))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	bookID := c.Param("bookId")

	params := UpdateBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book, err := h.bookService.RetrieveBook(ctx, RetrieveBookOptions{
		BookID: &bookID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	// Keep track of what's been changed.
	opts := UpdateBookOptions{Columns: []string{}}

	if params.Title != nil && *params.Title != book.Title {
		book.Title = *params.Title
		opts.Columns = append(opts.Columns, "title")
	}
	if params.Author != nil && *params.Author != book.Author {
		book.Author = *params.Author
		opts.Columns = append(opts.Columns, "author")
	}
	if params.Description != nil {
		book.Description = params.Description
		opts.Columns = append(opts.Columns, "description")
	}
	if params.Category != nil {
		book.Category = params.Category
		opts.Columns = append(opts.Columns, "category")
	}
	if params.AvailableCopies != nil && *params.AvailableCopies != book.AvailableCopies {
		book.AvailableCopies = *params.AvailableCopies
		opts.Columns = append(opts.Columns, "available_copies")
	}

	if err := h.bookService.UpdateBook(ctx, book, opts); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, book))
}

func (h *handler) del(c echo.Context) error {
	ctx := c.Request().Context()
	bookID := c.Param("bookId")

	if err := h.bookService.DeleteBook(ctx, bookID); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]string{"message": "Book deleted successfully"}))
}

func (h *handler) like(c echo.Context) error {
	ctx := c.Request().Context()

	params := LikeBookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	book, err := h.bookService.LikeBook(ctx, params.BookID)
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Message string       `json:"message"`
		Book    *models.Book `json:"book"`
	}{"Book liked successfully", book}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

// saveImage processes an uploaded cover and stores it, returning the URL
// path it is served at.
func (h *handler) saveImage(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", errors.WithStack(err)
	}
	defer f.Close()

	result, err := imaging.Process(f)
	if err != nil {
		return "", errcodes.ValidationError(err.Error())
	}

	url, err := h.uploads.Save(result.Data, ".jpg")
	if err != nil {
		return "", errors.WithStack(err)
	}

	return url, nil
}
