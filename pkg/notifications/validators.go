package notifications

type ListNotificationsQuery struct {
	Limit     *int    `query:"limit" validate:"omitempty,min=1,max=1000"`
	Offset    *int    `query:"offset" validate:"omitempty,min=0"`
	StudentID *string `query:"student_id"`
}

type CreateNotificationPayload struct {
	StudentID   string `json:"student_id" validate:"required"`
	StudentName string `json:"student_name" validate:"required"`
	BookID      string `json:"book_id" validate:"required"`
	BookTitle   string `json:"book_title" validate:"required"`
	Message     string `json:"message" validate:"required"`
}
