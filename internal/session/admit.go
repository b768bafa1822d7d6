package session

import "github.com/tajious/visitdesk/internal/models"

const (
	LoginPath     = "/auth/login"
	AdminHomePath = "/admin/dashboard"
	UserHomePath  = "/user/dashboard"
)

// Requirement is the role partition a route is reserved for.
type Requirement int

const (
	RequireAny Requirement = iota
	RequireUser
	RequireAdmin
)

type Decision int

const (
	Allow Decision = iota
	Suspend
	RedirectLogin
	RedirectUserHome
	RedirectAdminHome
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Suspend:
		return "suspend"
	case RedirectLogin:
		return "redirect-login"
	case RedirectUserHome:
		return "redirect-user-home"
	case RedirectAdminHome:
		return "redirect-admin-home"
	}
	return "unknown"
}

// Location is the redirect target of a redirect decision, or "".
func (d Decision) Location() string {
	switch d {
	case RedirectLogin:
		return LoginPath
	case RedirectUserHome:
		return UserHomePath
	case RedirectAdminHome:
		return AdminHomePath
	}
	return ""
}

// Admit decides route admission. sess is nil while the identity is still
// being resolved.
func Admit(required Requirement, hasToken bool, sess *models.Session) Decision {
	if !hasToken {
		return RedirectLogin
	}
	if sess == nil {
		return Suspend
	}
	switch {
	case required == RequireAdmin && sess.Role != models.RoleAdmin:
		return RedirectUserHome
	case required == RequireUser && sess.Role == models.RoleAdmin:
		return RedirectAdminHome
	}
	return Allow
}

// HomeFor is the landing page of a role.
func HomeFor(role models.Role) string {
	if role.IsAdmin() {
		return AdminHomePath
	}
	return UserHomePath
}
