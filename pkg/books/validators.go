package books

import "mime/multipart"

type ListBooksQuery struct {
	Limit    int     `query:"limit" json:"limit,omitempty" default:"100" validate:"min=1,max=500"`
	Offset   int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	Category *string `query:"category" json:"category,omitempty" validate:"omitempty,max=100"`
}

// CreateBookPayload is submitted as multipart form data so the cover image
// can ride along with the fields.
type CreateBookPayload struct {
	Title           string  `form:"title" json:"title" validate:"required,max=300"`
	Author          string  `form:"author" json:"author" validate:"required,max=200"`
	Description     *string `form:"description" json:"description,omitempty" validate:"omitempty,max=2000"`
	Category        *string `form:"category" json:"category,omitempty" validate:"omitempty,max=100"`
	AvailableCopies int     `form:"available_copies" json:"available_copies" validate:"min=0"`

	FormFiles map[string]*multipart.FileHeader `form:"-" json:"-" validate:"-"`
}

type UpdateBookPayload struct {
	Title           *string `json:"title,omitempty" validate:"omitempty,max=300"`
	Author          *string `json:"author,omitempty" validate:"omitempty,max=200"`
	Description     *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Category        *string `json:"category,omitempty" validate:"omitempty,max=100"`
	AvailableCopies *int    `json:"available_copies,omitempty" validate:"omitempty,min=0"`
}

type LikeBookPayload struct {
	BookID string `json:"book_id" validate:"required,max=50"`
}
