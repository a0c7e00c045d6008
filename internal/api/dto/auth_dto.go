package dto

// LoginRequest payload for login.
type LoginRequest struct {
	Username string `json:"username"`
}

// TokenResponse carries the issued token pair.
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// ProfileResponse echoes the authenticated principal.
type ProfileResponse struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// UserResponse is the admin view of a registered account.
type UserResponse struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	Active   bool     `json:"active"`
}
