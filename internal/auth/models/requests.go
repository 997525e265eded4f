package models

// Wire request DTOs. Field names follow the backend's JSON contract; the
// password field is "senha" and office selection is "escritorio_id"/"perfil".

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

// RefreshRequest is the body of POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// SetContextRequest is the body of POST /auth/set-context.
// Both fields nil selects administrative mode, which the backend only accepts
// from system-admin identities.
type SetContextRequest struct {
	OfficeID *int64  `json:"escritorio_id"`
	Profile  *string `json:"perfil"`
}
