package models

import "github.com/google/uuid"

// UserPayload is the backend's user shape.
type UserPayload struct {
	ID    string `json:"id"`
	Name  string `json:"nome"`
	Email string `json:"email"`
}

// OfficePayload is the backend's office shape, including the profiles the
// authenticated identity holds there.
type OfficePayload struct {
	ID        int64    `json:"id"`
	TradeName string   `json:"nome_fantasia"`
	LegalName string   `json:"razao_social"`
	Color     string   `json:"cor"`
	Profiles  []string `json:"perfis"`
}

// LoginResponse is the body of a successful POST /auth/login.
type LoginResponse struct {
	User                    UserPayload     `json:"user"`
	AccessToken             string          `json:"access_token"`
	RefreshToken            string          `json:"refresh_token"`
	TokenType               string          `json:"token_type"`
	RequiresOfficeSelection bool            `json:"requires_escritorio_selection"`
	IsSystemAdmin           bool            `json:"is_system_admin"`
	AvailableOffices        []OfficePayload `json:"available_escritorios"`
}

// RefreshResponse is the body of a successful POST /auth/refresh.
// Only the access credential is rotated.
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// SetContextResponse echoes the committed context.
type SetContextResponse struct {
	Administrative bool    `json:"administrative"`
	OfficeID       *int64  `json:"escritorio_id"`
	Profile        *string `json:"perfil"`
}

// MeResponse is the body of GET /auth/me, used to rehydrate a session from a
// still-valid access credential after a process restart.
type MeResponse struct {
	User             UserPayload     `json:"user"`
	IsSystemAdmin    bool            `json:"is_system_admin"`
	AvailableOffices []OfficePayload `json:"available_escritorios"`
}

// Identity converts the wire user into the session identity.
func (u UserPayload) Identity(systemAdmin bool) (Identity, error) {
	id, err := uuid.Parse(u.ID)
	if err != nil {
		return Identity{}, err
	}
	return Identity{
		ID:          id,
		Name:        u.Name,
		Email:       u.Email,
		SystemAdmin: systemAdmin,
	}, nil
}

// Membership converts the wire office into a membership.
func (o OfficePayload) Membership() OfficeMembership {
	profiles := make([]string, len(o.Profiles))
	copy(profiles, o.Profiles)
	return OfficeMembership{
		OfficeID:  o.ID,
		TradeName: o.TradeName,
		LegalName: o.LegalName,
		Color:     o.Color,
		Profiles:  profiles,
	}
}

// Memberships converts a wire office list into memberships, preserving order.
func Memberships(offices []OfficePayload) []OfficeMembership {
	out := make([]OfficeMembership, 0, len(offices))
	for _, o := range offices {
		out = append(out, o.Membership())
	}
	return out
}
