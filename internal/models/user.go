package models

type contextKey string

// UserContextKey is where the auth middleware stores the resolved actor.
const UserContextKey contextKey = "user"

// User is a registry account. It acts both as the responsible actor of
// audit records and, for user-management operations, as their subject.
type User struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Active   bool   `json:"active"`
	PassHash []byte `json:"-"`
}
