package db

type ProjectUserRole string

const (
	ProjectOwner  ProjectUserRole = "owner"
	ProjectMember ProjectUserRole = "member"
)

func (r ProjectUserRole) IsValid() bool {
	switch r {
	case ProjectOwner, ProjectMember:
		return true
	default:
		return false
	}
}

// CanRevokeInvitations reports whether the role may revoke invitations created by other members.
func (r ProjectUserRole) CanRevokeInvitations() bool {
	return r == ProjectOwner
}
