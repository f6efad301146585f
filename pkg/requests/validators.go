package requests

type ListRequestsQuery struct {
	Limit     int     `query:"limit" json:"limit,omitempty" default:"100" validate:"min=1,max=500"`
	Offset    int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	Status    *string `query:"status" json:"status,omitempty" validate:"omitempty,max=20"`
	StudentID *string `query:"student_id" json:"student_id,omitempty" validate:"omitempty,max=50"`
}

type CreateRequestPayload struct {
	BookID    string `json:"book_id" validate:"required,max=50"`
	StudentID string `json:"student_id" validate:"required,max=50"`
}

// UpdateRequestPayload carries the requested transition. Unknown statuses are
// rejected by the service so the error surfaces as invalid_status rather than
// a generic validation failure.
type UpdateRequestPayload struct {
	Status string `json:"status" validate:"required,max=20"`
}

type ReturnBookPayload struct {
	BookID    string `json:"book_id" validate:"required,max=50"`
	StudentID string `json:"student_id" validate:"required,max=50"`
}
