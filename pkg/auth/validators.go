package auth

// LoginPayload is the request body for login. Username is either a student
// identifier or a staff username.
type LoginPayload struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}
