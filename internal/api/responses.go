package api

import "encoding/json"

// LoginResponse is the payload returned by POST /auth/login.
type LoginResponse struct {
	User         *User  `json:"user,omitempty"`
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	Message      string `json:"message,omitempty"`
}

// RefreshResponse is the payload returned by POST /auth/refresh-token.
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// ProfileResponse wraps the identity returned by GET /profile.
type ProfileResponse struct {
	User *User `json:"user"`
}

// MessageResponse is the generic acknowledgment body used by auth and
// password-recovery endpoints.
type MessageResponse struct {
	Message string `json:"message,omitempty"`
}

// EmployeeEnvelope wraps an employee on create/update responses.
type EmployeeEnvelope struct {
	User *Employee `json:"user"`
}

// RoleEnvelope wraps a role on create responses.
type RoleEnvelope struct {
	Role *Role `json:"role"`
}

// UpdatedRoleEnvelope wraps a role on update responses.
type UpdatedRoleEnvelope struct {
	UpdatedRole *Role `json:"updatedRole"`
}

// UpdatedRatingEnvelope wraps a rating on update responses.
type UpdatedRatingEnvelope struct {
	UpdatedRating *Rating `json:"updatedRating"`
}

// ErrorMessage extracts the server-provided message from an error body,
// falling back to the supplied text when the body is empty or opaque.
func ErrorMessage(body []byte, fallback string) string {
	var resp MessageResponse
	if err := json.Unmarshal(body, &resp); err == nil && resp.Message != "" {
		return resp.Message
	}
	return fallback
}
