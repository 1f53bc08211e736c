package model

// LoginRequest is the mock login payload. Any name is accepted; there is
// no credential verification in this deployment.
type LoginRequest struct {
	Name    string      `json:"name" binding:"required,min=1"`
	Email   string      `json:"email" binding:"omitempty,email"`
	Role    ProfileRole `json:"role" binding:"omitempty,oneof=Admin Teacher Proctor"`
	Persist *bool       `json:"persist" binding:"omitempty"`
}

// LoginResponse carries the session user and an opaque bearer token.
type LoginResponse struct {
	User  SessionUser `json:"user"`
	Token string      `json:"token"`
}
