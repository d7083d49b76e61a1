package valueobject

import "github.com/google/uuid"

type Role string

const (
	RoleClient    Role = "client"
	RoleMechanic  Role = "mechanic"
	RoleShopOwner Role = "shop_owner"
	RoleAdmin     Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleClient, RoleMechanic, RoleShopOwner, RoleAdmin:
		return true
	}
	return false
}

// IsProvider reports whether the role can fulfil requests.
func (r Role) IsProvider() bool {
	return r == RoleMechanic || r == RoleShopOwner
}

// AuthContext identifies the resolved caller of an operation. It is built
// once at the request boundary from the identity provider and passed
// explicitly into every use case.
type AuthContext struct {
	AccountID uuid.UUID
	Roles     []Role
}

func (a AuthContext) HasRole(role Role) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (a AuthContext) IsProvider() bool {
	for _, r := range a.Roles {
		if r.IsProvider() {
			return true
		}
	}
	return false
}
