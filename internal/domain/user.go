package domain

// User is keyed by Username. PasswordHash is a bcrypt hash; the raw password is never stored.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
}

// Session binds an opaque token to a username.
type Session struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}
