package students

import "mime/multipart"

type ListStudentsQuery struct {
	Limit  int `query:"limit" json:"limit,omitempty" default:"100" validate:"min=1,max=500"`
	Offset int `query:"offset" json:"offset,omitempty" validate:"min=0"`
}

// CreateStudentPayload is submitted as multipart form data so the profile
// photo can ride along with the fields.
type CreateStudentPayload struct {
	StudentID string  `form:"student_id" json:"student_id" validate:"required,max=50"`
	Name      string  `form:"name" json:"name" validate:"required,max=200"`
	Number    *string `form:"number" json:"number,omitempty" validate:"omitempty,max=30"`
	Address   *string `form:"address" json:"address,omitempty" validate:"omitempty,max=500"`
	Email     string  `form:"email" json:"email" validate:"required,email,max=200"`
	Password  string  `form:"password" json:"password" validate:"required,min=8,max=200"`

	FormFiles map[string]*multipart.FileHeader `form:"-" json:"-" validate:"-"`
}

// UpdateStudentPayload covers the profile edit surface: contact details, plus
// an optional password change that requires the old password.
type UpdateStudentPayload struct {
	Email       *string `json:"email,omitempty" validate:"omitempty,email,max=200"`
	Number      *string `json:"number,omitempty" validate:"omitempty,max=30"`
	OldPassword *string `json:"old_password,omitempty" validate:"omitempty,max=200"`
	Password    *string `json:"password,omitempty" validate:"omitempty,min=8,max=200"`
}
