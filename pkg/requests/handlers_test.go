package requests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/devlibrary/devlib/pkg/auth"
	"github.com/devlibrary/devlib/pkg/binder"
	"github.com/devlibrary/devlib/pkg/errcodes"
	"github.com/devlibrary/devlib/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequestsTestContext(t *testing.T, method, path, payload string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	req := httptest.NewRequest(method, path, strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr), rr
}

func studentIdentity(studentID string) *auth.Identity {
	name := "Student " + studentID
	return &auth.Identity{
		ID:       1,
		Username: studentID,
		Role:     models.RoleStudent,
		Name:     &name,
	}
}

func TestHandlerCreate_StudentCannotRequestForAnother(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	h := &handler{requestService: NewService(db)}
	ctx := context.Background()

	seedBook(ctx, t, db, "DLB1", 1)
	seedStudent(ctx, t, db, "S100")
	seedStudent(ctx, t, db, "S200")

	c, _ := newRequestsTestContext(t, http.MethodPost, "/book-requests", `{"book_id":"DLB1","student_id":"S200"}`)
	c.Set(auth.ContextKeyIdentity, studentIdentity("S100"))

	err := h.create(c)
	require.Error(t, err)

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, "forbidden", codeErr.Code)
}

func TestHandlerCreate_StudentRequestsForSelf(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	h := &handler{requestService: NewService(db)}
	ctx := context.Background()

	seedBook(ctx, t, db, "DLB1", 1)
	seedStudent(ctx, t, db, "S100")

	c, rr := newRequestsTestContext(t, http.MethodPost, "/book-requests", `{"book_id":"DLB1","student_id":"S100"}`)
	c.Set(auth.ContextKeyIdentity, studentIdentity("S100"))

	err := h.create(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rr.Code)

	created := &models.BookRequest{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), created))
	assert.Equal(t, models.RequestStatusPending, created.Status)
	assert.Equal(t, "S100", created.StudentID)
}

func TestHandlerList_StudentOnlySeesOwnRequests(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	h := &handler{requestService: NewService(db)}
	ctx := context.Background()

	seedBook(ctx, t, db, "DLB1", 5)
	seedStudent(ctx, t, db, "S100")
	seedStudent(ctx, t, db, "S200")

	_, err := h.requestService.CreateRequest(ctx, "DLB1", "S100")
	require.NoError(t, err)
	_, err = h.requestService.CreateRequest(ctx, "DLB1", "S200")
	require.NoError(t, err)

	// Even when asking for another student's requests, a student gets their
	// own.
	c, rr := newRequestsTestContext(t, http.MethodGet, "/book-requests?student_id=S200", "")
	c.Set(auth.ContextKeyIdentity, studentIdentity("S100"))

	err = h.list(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rr.Code)

	resp := struct {
		Requests []*models.BookRequest `json:"book_requests"`
		Total    int                   `json:"total"`
	}{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Requests, 1)
	assert.Equal(t, "S100", resp.Requests[0].StudentID)
}

func TestHandlerUpdateStatus_UnparseableID(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	h := &handler{requestService: NewService(db)}

	c, _ := newRequestsTestContext(t, http.MethodPut, "/book-requests/abc", `{"status":"approved"}`)
	c.SetPath("/book-requests/:id")
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := h.updateStatus(c)
	require.ErrorIs(t, err, errcodes.NotFound("Book request"))
}
