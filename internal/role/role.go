package role

import (
	"fmt"
	"strings"
)

// Role is the actor category a session or token is bound to.
type Role string

const (
	None      Role = ""
	Employee  Role = "EMPLOYEE"
	HR        Role = "HR"
	Manager   Role = "MANAGER"
	Partner   Role = "PARTNER"
	HrManager Role = "HR_MANAGER"
)

// SessionPriority is the order in which persisted role slots are resolved
// when more than one is present. First match wins.
var SessionPriority = []Role{Employee, Partner, Manager, HrManager, HR}

func All() []Role {
	return []Role{Employee, HR, Manager, Partner, HrManager}
}

// Parse accepts the canonical value, the storage slot name or the URL prefix.
func Parse(v string) (Role, error) {
	key := strings.ToLower(strings.TrimSpace(v))
	for _, r := range All() {
		if key == strings.ToLower(string(r)) || key == r.Slot() || key == r.PathPrefix() {
			return r, nil
		}
	}
	return None, fmt.Errorf("unknown role %q", v)
}

func (r Role) Valid() bool {
	switch r {
	case Employee, HR, Manager, Partner, HrManager:
		return true
	}
	return false
}

// Slot is the client storage key holding this role's session.
func (r Role) Slot() string {
	switch r {
	case Employee:
		return "user"
	case HR:
		return "hr"
	case Manager:
		return "manager"
	case Partner:
		return "partner"
	case HrManager:
		return "hr-manager"
	}
	return ""
}

// PathPrefix is the backend route prefix for this role.
func (r Role) PathPrefix() string {
	switch r {
	case Employee:
		return "employee"
	case HR:
		return "hr"
	case Manager:
		return "manager"
	case Partner:
		return "partner"
	case HrManager:
		return "hr-manager"
	}
	return ""
}

// HomePath is the panel an authenticated session lands on.
func (r Role) HomePath() string {
	switch r {
	case Employee:
		return "/employee-leave"
	case HR:
		return "/hr-panel"
	case Manager:
		return "/manager-panel"
	case Partner:
		return "/partner-panel"
	case HrManager:
		return "/hr-manager-leave"
	}
	return "/"
}

func (r Role) CanSubmit() bool {
	return r == Employee || r == HrManager
}

func (r Role) CanApprove() bool {
	return r == Manager || r == Partner || r == HR
}

func (r Role) String() string {
	return string(r)
}
