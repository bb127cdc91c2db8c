package models

// UploadResponse is returned by POST /api/uploads. Only the resulting remote
// URL matters to the client.
type UploadResponse struct {
	URL string `json:"url"`
}

// TokenResponse is returned by the auth stub endpoint POST /api/auth/token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

// ErrorResponse is the JSON error body produced by the HTTP handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}
