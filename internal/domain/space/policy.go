package space

type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Allowed decides whether a membership role may perform an action on a
// record created by creatorID. Every mutating handler goes through this
// one function; the role/ownership rules are not restated anywhere else.
//
// owner: everything, including records created by other members.
// member: read and create; update/delete only their own records.
// viewer: read only.
// Any other role (including the zero value) is denied outright.
func Allowed(role Role, action Action, creatorID, callerID string) bool {
	switch role {
	case RoleOwner:
		return true
	case RoleMember:
		switch action {
		case ActionRead, ActionCreate:
			return true
		case ActionUpdate, ActionDelete:
			return creatorID != "" && creatorID == callerID
		}
		return false
	case RoleViewer:
		return action == ActionRead
	}
	return false
}
