// Package guard decides whether a navigation may proceed for the current
// session. Every function here is pure.
package guard

import (
	"go-leave/internal/client/session"
	"go-leave/internal/role"
)

const RootPath = "/"

type Decision struct {
	Allow    bool
	Redirect string
}

func allow() Decision {
	return Decision{Allow: true}
}

func redirect(target string) Decision {
	return Decision{Redirect: target}
}

// AuthorizeRoute gates a route that requires role required. role.None marks
// a public route, which an authenticated session is always sent away from.
func AuthorizeRoute(required role.Role, current *session.Session) Decision {
	if required == role.None {
		if current != nil {
			return redirect(current.Role.HomePath())
		}
		return allow()
	}
	if current != nil && current.Role == required {
		return allow()
	}
	return redirect(RootPath)
}

// Routes maps each client path to the role it requires.
var Routes = map[string]role.Role{
	"/":                 role.None,
	"/employee-login":   role.None,
	"/hr-login":         role.None,
	"/hr-manager-login": role.None,
	"/manager-login":    role.None,
	"/partner-login":    role.None,
	"/employee-leave":   role.Employee,
	"/hr-manager-leave": role.HrManager,
	"/manager-panel":    role.Manager,
	"/hr-panel":         role.HR,
	"/partner-panel":    role.Partner,
}

// LoginPath is the public login page of r.
func LoginPath(r role.Role) string {
	return "/" + r.PathPrefix() + "-login"
}

// Navigate resolves path through Routes. Unknown paths go to the root.
func Navigate(path string, current *session.Session) Decision {
	required, ok := Routes[path]
	if !ok {
		if current != nil {
			return redirect(current.Role.HomePath())
		}
		return redirect(RootPath)
	}
	return AuthorizeRoute(required, current)
}

// SessionLookup returns the session stored for a role, if any.
type SessionLookup func(role.Role) (*session.Session, bool)

// NavigateWith resolves path for a client that may hold one session per
// role. A protected route is checked against the session of the role it
// requires; public and unknown paths use current.
func NavigateWith(path string, current *session.Session, lookup SessionLookup) Decision {
	required, ok := Routes[path]
	if !ok || required == role.None || lookup == nil {
		return Navigate(path, current)
	}
	sess, found := lookup(required)
	if !found {
		sess = nil
	}
	return AuthorizeRoute(required, sess)
}
