package rbac

import "go-leave/internal/role"

const (
	ResourceLeave = "leave"

	ActionSubmit      = "submit"
	ActionListPending = "list_pending"
	ActionSetStatus   = "set_status"
)

type Policy struct {
	Role     role.Role
	Resource string
	Action   string
}

// DefaultPolicies grants submission to the submitting roles and the
// approval actions to the approving roles.
func DefaultPolicies() []Policy {
	var out []Policy
	for _, r := range role.All() {
		if r.CanSubmit() {
			out = append(out, Policy{Role: r, Resource: ResourceLeave, Action: ActionSubmit})
		}
		if r.CanApprove() {
			out = append(out,
				Policy{Role: r, Resource: ResourceLeave, Action: ActionListPending},
				Policy{Role: r, Resource: ResourceLeave, Action: ActionSetStatus},
			)
		}
	}
	return out
}
