package entity

// Role is the user's position in the authorization ladder. The set is
// closed; policies in the rbac package only speak about these four values.
type Role string

const (
	RoleUser       Role = "USER"
	RoleCreator    Role = "CREATOR"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPERADMIN"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleCreator, RoleAdmin, RoleSuperAdmin:
		return true
	default:
		return false
	}
}

// Ensure coerces unknown values to RoleUser so a corrupted row can never
// grant more than the baseline.
func (r Role) Ensure() Role {
	if r.IsValid() {
		return r
	}
	return RoleUser
}
