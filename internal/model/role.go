package model

// Role is a user's global role. Only RoleAdmin carries extra privileges.
type Role string

const (
	RoleAdmin          Role = "ADMIN"
	RoleProjectManager Role = "PROJECT_MANAGER"
	RoleDeveloper      Role = "DEVELOPER"
	RoleTester         Role = "TESTER"
)

var roleDisplayNames = map[Role]string{
	RoleAdmin:          "System Administrator",
	RoleProjectManager: "Project Manager",
	RoleDeveloper:      "Developer",
	RoleTester:         "Tester",
}

func (r Role) Valid() bool {
	_, ok := roleDisplayNames[r]
	return ok
}

func (r Role) DisplayName() string {
	return roleDisplayNames[r]
}

// Roles lists every role in declaration order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleProjectManager, RoleDeveloper, RoleTester}
}
