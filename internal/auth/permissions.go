package auth

import (
	"errors"

	"leadtrack/internal/models"
)

// Action names a permission checked against the role policy table.
type Action string

const (
	ActionLeadsRead   Action = "leads:read"
	ActionLeadsCreate Action = "leads:create"
	ActionLeadsUpdate Action = "leads:update"
	ActionLeadsDelete Action = "leads:delete"
	ActionLeadsAssign Action = "leads:assign"
	ActionLeadsImport Action = "leads:import"
	ActionLeadsExport Action = "leads:export"
	ActionNotesCreate Action = "notes:create"
	ActionTagsRead    Action = "tags:read"
	ActionTagsManage  Action = "tags:manage"
	ActionUsersRead   Action = "users:read"
	ActionUsersManage Action = "users:manage"
)

// Permissions is the role policy table. An action is allowed for a role only
// if listed here; super_admin bypasses the table entirely. Ownership rules
// (an agent touching only its assigned leads) live in the lead service.
var Permissions = map[models.UserRole][]Action{
	models.UserRoleAdmin: {
		ActionLeadsRead,
		ActionLeadsCreate,
		ActionLeadsUpdate,
		ActionLeadsDelete,
		ActionLeadsAssign,
		ActionLeadsImport,
		ActionLeadsExport,
		ActionNotesCreate,
		ActionTagsRead,
		ActionTagsManage,
		ActionUsersRead,
	},
	models.UserRoleAgent: {
		ActionLeadsRead,
		ActionLeadsCreate,
		ActionLeadsUpdate,
		ActionNotesCreate,
		ActionTagsRead,
	},
}

// Can reports whether the role may perform the action.
func Can(role models.UserRole, action Action) bool {
	if role == models.UserRoleSuperAdmin {
		return true
	}

	actions, exists := Permissions[role]
	if !exists {
		return false
	}

	for _, a := range actions {
		if a == action {
			return true
		}
	}
	return false
}

// ValidateRole checks that the role is one of the known roles.
func ValidateRole(role models.UserRole) error {
	switch role {
	case models.UserRoleSuperAdmin, models.UserRoleAdmin, models.UserRoleAgent:
		return nil
	default:
		return errors.New("invalid role")
	}
}
