package students

import (
	"context"
	"database/sql"
	"time"

	"github.com/devlibrary/devlib/pkg/auth"
	"github.com/devlibrary/devlib/pkg/errcodes"
	"github.com/devlibrary/devlib/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveStudentOptions struct {
	ID        *int
	StudentID *string
}

type ListStudentsOptions struct {
	Limit  *int
	Offset *int

	includeTotal bool
}

type UpdateStudentOptions struct {
	Columns []string
}

// UpdateProfileOptions covers the profile edit surface. Password requires
// OldPassword.
type UpdateProfileOptions struct {
	Email       *string
	Number      *string
	OldPassword *string
	Password    *string
}

// CreateStudentOptions contains options for enrolling a student.
type CreateStudentOptions struct {
	StudentID string
	Name      string
	Number    *string
	Address   *string
	Email     string
	Password  string
	ImageURL  *string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// CreateStudent enrolls a new student. The student identifier and email must
// be unique; the password is stored as a bcrypt hash.
func (svc *Service) CreateStudent(ctx context.Context, opts CreateStudentOptions) (*models.Student, error) {
	exists, err := svc.db.NewSelect().
		Model((*models.Student)(nil)).
		Where("student_id = ?", opts.StudentID).
		Exists(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if exists {
		return nil, errcodes.ValidationError("Student ID already exists")
	}

	exists, err = svc.db.NewSelect().
		Model((*models.Student)(nil)).
		Where("email = ? COLLATE NOCASE", opts.Email).
		Exists(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if exists {
		return nil, errcodes.ValidationError("Email already exists")
	}

	passwordHash, err := auth.HashPassword(opts.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	student := &models.Student{
		StudentID:    opts.StudentID,
		Name:         opts.Name,
		Number:       opts.Number,
		Address:      opts.Address,
		Email:        opts.Email,
		PasswordHash: passwordHash,
		ImageURL:     opts.ImageURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = svc.db.
		NewInsert().
		Model(student).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return student, nil
}

func (svc *Service) RetrieveStudent(ctx context.Context, opts RetrieveStudentOptions) (*models.Student, error) {
	student := &models.Student{}

	q := svc.db.
		NewSelect().
		Model(student)

	if opts.ID != nil {
		q = q.Where("s.id = ?", *opts.ID)
	}
	if opts.StudentID != nil {
		q = q.Where("s.student_id = ?", *opts.StudentID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Student")
		}
		return nil, errors.WithStack(err)
	}

	return student, nil
}

func (svc *Service) ListStudents(ctx context.Context, opts ListStudentsOptions) ([]*models.Student, error) {
	s, _, err := svc.listStudentsWithTotal(ctx, opts)
	return s, errors.WithStack(err)
}

func (svc *Service) ListStudentsWithTotal(ctx context.Context, opts ListStudentsOptions) ([]*models.Student, int, error) {
	opts.includeTotal = true
	return svc.listStudentsWithTotal(ctx, opts)
}

func (svc *Service) listStudentsWithTotal(ctx context.Context, opts ListStudentsOptions) ([]*models.Student, int, error) {
	students := []*models.Student{}
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&students).
		Order("s.student_id ASC")

	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return students, total, nil
}

func (svc *Service) UpdateStudent(ctx context.Context, student *models.Student, opts UpdateStudentOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	now := time.Now()
	student.UpdatedAt = now
	columns := append(opts.Columns, "updated_at")

	_, err := svc.db.
		NewUpdate().
		Model(student).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errcodes.NotFound("Student")
		}
		return errors.WithStack(err)
	}

	return nil
}

// ChangePassword verifies the old password and stores a hash of the new one.
func (svc *Service) ChangePassword(ctx context.Context, student *models.Student, oldPassword, newPassword string) error {
	return svc.UpdateProfile(ctx, student, UpdateProfileOptions{
		OldPassword: &oldPassword,
		Password:    &newPassword,
	})
}

// UpdateProfile applies a profile edit: contact details plus an optional
// password change that requires the old password. All changed columns land in
// a single update so a partial edit can never be observed.
func (svc *Service) UpdateProfile(ctx context.Context, student *models.Student, opts UpdateProfileOptions) error {
	columns := []string{}

	if opts.Password != nil {
		if opts.OldPassword == nil || !auth.CheckPassword(*opts.OldPassword, student.PasswordHash) {
			return errcodes.Unauthorized("Incorrect old password")
		}

		passwordHash, err := auth.HashPassword(*opts.Password)
		if err != nil {
			return err
		}

		student.PasswordHash = passwordHash
		columns = append(columns, "password_hash")
	}

	if opts.Email != nil && *opts.Email != student.Email {
		student.Email = *opts.Email
		columns = append(columns, "email")
	}
	if opts.Number != nil {
		student.Number = opts.Number
		columns = append(columns, "number")
	}

	return svc.UpdateStudent(ctx, student, UpdateStudentOptions{Columns: columns})
}

func (svc *Service) DeleteStudent(ctx context.Context, studentID string) error {
	res, err := svc.db.
		NewDelete().
		Model((*models.Student)(nil)).
		Where("student_id = ?", studentID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if affected == 0 {
		return errcodes.NotFound("Student")
	}

	return nil
}
