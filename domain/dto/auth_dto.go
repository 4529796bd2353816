package dto

// Res represents a generic response envelope
type Res struct {
	ResponseCode    string `json:"response_code"`
	ResponseMessage string `json:"response_message"`
}

// SignInRequest represents the login request carrying the identity
// provider's ID token
type SignInRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// SessionResponse represents a granted session after the allow-list check
type SessionResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}
