package students

import (
	"context"
	"database/sql"
	"testing"

	"github.com/devlibrary/devlib/pkg/auth"
	"github.com/devlibrary/devlib/pkg/errcodes"
	"github.com/devlibrary/devlib/pkg/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func TestServiceCreateStudent_HashesPassword(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	student, err := svc.CreateStudent(ctx, CreateStudentOptions{
		StudentID: "S100",
		Name:      "Ada Lovelace",
		Email:     "ada@example.edu",
		Password:  "correcthorse",
	})
	require.NoError(t, err)

	assert.NotEqual(t, "correcthorse", student.PasswordHash)
	assert.True(t, auth.CheckPassword("correcthorse", student.PasswordHash))
}

func TestServiceCreateStudent_RejectsDuplicates(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	_, err := svc.CreateStudent(ctx, CreateStudentOptions{
		StudentID: "S100",
		Name:      "Ada Lovelace",
		Email:     "ada@example.edu",
		Password:  "correcthorse",
	})
	require.NoError(t, err)

	_, err = svc.CreateStudent(ctx, CreateStudentOptions{
		StudentID: "S100",
		Name:      "Someone Else",
		Email:     "else@example.edu",
		Password:  "password123",
	})
	require.ErrorIs(t, err, errcodes.ValidationError("Student ID already exists"))

	// Email uniqueness is case-insensitive.
	_, err = svc.CreateStudent(ctx, CreateStudentOptions{
		StudentID: "S200",
		Name:      "Someone Else",
		Email:     "ADA@example.edu",
		Password:  "password123",
	})
	require.ErrorIs(t, err, errcodes.ValidationError("Email already exists"))
}

func TestServiceRetrieveStudent(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	created, err := svc.CreateStudent(ctx, CreateStudentOptions{
		StudentID: "S100",
		Name:      "Ada Lovelace",
		Email:     "ada@example.edu",
		Password:  "correcthorse",
	})
	require.NoError(t, err)

	studentID := "S100"
	got, err := svc.RetrieveStudent(ctx, RetrieveStudentOptions{StudentID: &studentID})
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	missing := "S404"
	_, err = svc.RetrieveStudent(ctx, RetrieveStudentOptions{StudentID: &missing})
	require.ErrorIs(t, err, errcodes.NotFound("Student"))
}

func TestServiceChangePassword(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	student, err := svc.CreateStudent(ctx, CreateStudentOptions{
		StudentID: "S100",
		Name:      "Ada Lovelace",
		Email:     "ada@example.edu",
		Password:  "correcthorse",
	})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, student, "wrongpassword", "newpassword")
	require.ErrorIs(t, err, errcodes.Unauthorized("Incorrect old password"))

	err = svc.ChangePassword(ctx, student, "correcthorse", "newpassword")
	require.NoError(t, err)

	studentID := "S100"
	got, err := svc.RetrieveStudent(ctx, RetrieveStudentOptions{StudentID: &studentID})
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword("newpassword", got.PasswordHash))
	assert.False(t, auth.CheckPassword("correcthorse", got.PasswordHash))
}

func TestServiceUpdateProfile_AppliesAllChangesTogether(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	student, err := svc.CreateStudent(ctx, CreateStudentOptions{
		StudentID: "S100",
		Name:      "Ada Lovelace",
		Email:     "ada@example.edu",
		Password:  "correcthorse",
	})
	require.NoError(t, err)

	email := "ada.lovelace@example.edu"
	number := "555-0100"
	oldPassword := "correcthorse"
	password := "newpassword"
	err = svc.UpdateProfile(ctx, student, UpdateProfileOptions{
		Email:       &email,
		Number:      &number,
		OldPassword: &oldPassword,
		Password:    &password,
	})
	require.NoError(t, err)

	studentID := "S100"
	got, err := svc.RetrieveStudent(ctx, RetrieveStudentOptions{StudentID: &studentID})
	require.NoError(t, err)
	assert.Equal(t, "ada.lovelace@example.edu", got.Email)
	require.NotNil(t, got.Number)
	assert.Equal(t, "555-0100", *got.Number)
	assert.True(t, auth.CheckPassword("newpassword", got.PasswordHash))
}

func TestServiceUpdateProfile_WrongOldPasswordChangesNothing(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	student, err := svc.CreateStudent(ctx, CreateStudentOptions{
		StudentID: "S100",
		Name:      "Ada Lovelace",
		Email:     "ada@example.edu",
		Password:  "correcthorse",
	})
	require.NoError(t, err)

	email := "ada.lovelace@example.edu"
	oldPassword := "wrongpassword"
	password := "newpassword"
	err = svc.UpdateProfile(ctx, student, UpdateProfileOptions{
		Email:       &email,
		OldPassword: &oldPassword,
		Password:    &password,
	})
	require.ErrorIs(t, err, errcodes.Unauthorized("Incorrect old password"))

	studentID := "S100"
	got, err := svc.RetrieveStudent(ctx, RetrieveStudentOptions{StudentID: &studentID})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.edu", got.Email)
	assert.True(t, auth.CheckPassword("correcthorse", got.PasswordHash))
}

func TestServiceDeleteStudent(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	_, err := svc.CreateStudent(ctx, CreateStudentOptions{
		StudentID: "S100",
		Name:      "Ada Lovelace",
		Email:     "ada@example.edu",
		Password:  "correcthorse",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteStudent(ctx, "S100"))

	err = svc.DeleteStudent(ctx, "S100")
	require.ErrorIs(t, err, errcodes.NotFound("Student"))
}

func TestServiceListStudents_OrderedByStudentID(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	for _, id := range []string{"S300", "S100", "S200"} {
		_, err := svc.CreateStudent(ctx, CreateStudentOptions{
			StudentID: id,
			Name:      "Student " + id,
			Email:     id + "@example.edu",
			Password:  "password123",
		})
		require.NoError(t, err)
	}

	students, total, err := svc.ListStudentsWithTotal(ctx, ListStudentsOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, students, 3)
	assert.Equal(t, "S100", students[0].StudentID)
	assert.Equal(t, "S200", students[1].StudentID)
	assert.Equal(t, "S300", students[2].StudentID)
}
