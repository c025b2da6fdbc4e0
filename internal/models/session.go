package models

// Session is the authenticated identity derived from the persisted credential pair.
type Session struct {
	UserID string // UserID identifies the logged in user.
	Token  string // Token is the opaque credential.
}

// AuthState is the in-memory view of the current session.
// IsAuthenticated is true exactly when Token is set.
type AuthState struct {
	IsAuthenticated bool    `json:"isAuthenticated"`
	UserID          *string `json:"userId"`
	Token           *string `json:"-"`
}
