package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	PIN string `json:"pin" validate:"required,min=1,max=128"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"` // seconds
}

// SessionResponse reports the state of the caller's session.
type SessionResponse struct {
	Authenticated bool `json:"authenticated"`
	GateEnabled   bool `json:"gate_enabled"`
}
