package suggestions

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Role is a guild role as seen by the authorizer.
type Role struct {
	ID          string
	Name        string
	Permissions int64
}

// Member is a guild member with resolved roles.
type Member struct {
	UserID      string
	Roles       []Role
	Permissions int64
}

const moderatorPermissions = discordgo.PermissionManageMessages | discordgo.PermissionAdministrator

// Authorizer decides who may approve or reject suggestions. Any one signal
// suffices: a configured role ID, a role name containing a keyword, or the
// manage-messages / administrator permission.
type Authorizer struct {
	roleIDs  map[string]struct{}
	keywords []string
}

// NewAuthorizer builds an authorizer. Keywords match case-insensitively.
func NewAuthorizer(roleIDs, keywords []string) *Authorizer {
	a := &Authorizer{roleIDs: make(map[string]struct{}, len(roleIDs))}
	for _, id := range roleIDs {
		if id = strings.TrimSpace(id); id != "" {
			a.roleIDs[id] = struct{}{}
		}
	}
	for _, kw := range keywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			a.keywords = append(a.keywords, kw)
		}
	}
	return a
}

// Allowed reports whether m holds at least one moderator signal.
func (a *Authorizer) Allowed(m *Member) bool {
	if m == nil {
		return false
	}
	if m.Permissions&moderatorPermissions != 0 {
		return true
	}
	for _, role := range m.Roles {
		if _, ok := a.roleIDs[role.ID]; ok {
			return true
		}
		if role.Permissions&moderatorPermissions != 0 {
			return true
		}
		name := strings.ToLower(role.Name)
		for _, kw := range a.keywords {
			if strings.Contains(name, kw) {
				return true
			}
		}
	}
	return false
}
