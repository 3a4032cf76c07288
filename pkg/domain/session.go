package domain

// User identifies the signed-in account.
type User struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Session is the current authentication state. A zero Session is a
// signed-out session. Invariant: User is non-nil exactly when the token
// pair is present.
type Session struct {
	User         *User
	IsAdmin      bool
	AccessToken  string
	RefreshToken string
}

// Authenticated reports whether the session belongs to a signed-in user.
func (s Session) Authenticated() bool {
	return s.User != nil && s.AccessToken != ""
}
