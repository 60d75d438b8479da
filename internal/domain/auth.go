package domain

// Role differentiates residents from administrators.
type Role string

const (
	RoleResident Role = "resident"
	RoleAdmin    Role = "admin"
)

// Session is what the authentication collaborator hands to the core: a subject
// and a role, nothing about account status.
type Session struct {
	SubjectID string
	Role      Role
}

// Valid reports whether the session names a subject with a known role.
func (s *Session) Valid() bool {
	if s == nil || s.SubjectID == "" {
		return false
	}
	return s.Role == RoleResident || s.Role == RoleAdmin
}

// Actor is a session resolved against the current user record.
type Actor struct {
	ID     string
	Role   Role
	Status UserStatus
	Name   string
}

// IsAdmin reports whether the actor is an administrator.
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}
