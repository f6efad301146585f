package students

import (
	"mime/multipart"
	"net/http"

	"github.com/devlibrary/devlib/pkg/auth"
	"github.com/devlibrary/devlib/pkg/errcodes"
	"github.com/devlibrary/devlib/pkg/imaging"
	"github.com/devlibrary/devlib/pkg/models"
	"github.com/devlibrary/devlib/pkg/uploadstore"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	studentService *Service
	uploads        *uploadstore.Store
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListStudentsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	students, total, err := h.studentService.ListStudentsWithTotal(ctx, ListStudentsOptions{
		Limit:  &params.Limit,
		Offset: &params.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Students []*models.Student `json:"students"`
		Total    int               `json:"total"`
	}{students, total}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	studentID := c.Param("studentId")

	student, err := h.studentService.RetrieveStudent(ctx, RetrieveStudentOptions{
		StudentID: &studentID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, student))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateStudentPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	opts := CreateStudentOptions{
		StudentID: params.StudentID,
		Name:      params.Name,
		Number:    params.Number,
		Address:   params.Address,
		Email:     params.Email,
		Password:  params.Password,
	}

	if fh, ok := params.FormFiles["image"]; ok {
		imageURL, err := h.saveImage(fh)
		if err != nil {
			return err
		}
		opts.ImageURL = &imageURL
	}

	student, err := h.studentService.CreateStudent(ctx, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, student))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	studentID := c.Param("studentId")

	// A student can only edit their own profile; librarians can edit anyone.
	if ident, ok := auth.IdentityFromContext(c); ok && ident.Role == models.RoleStudent && ident.Username != studentID {
		return errcodes.Forbidden("Editing another student's profile")
	}

	params := UpdateStudentPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	student, err := h.studentService.RetrieveStudent(ctx, RetrieveStudentOptions{
		StudentID: &studentID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	err = h.studentService.UpdateProfile(ctx, student, UpdateProfileOptions{
		Email:       params.Email,
		Number:      params.Number,
		OldPassword: params.OldPassword,
		Password:    params.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Message string          `json:"message"`
		Student *models.Student `json:"student"`
	}{"Student updated successfully", student}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) del(c echo.Context) error {
	ctx := c.Request().Context()
	studentID := c.Param("studentId")

	if err := h.studentService.DeleteStudent(ctx, studentID); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]string{"message": "Student deleted successfully"}))
}

// saveImage processes an uploaded profile photo and stores it, returning the
// URL path it is served at.
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
