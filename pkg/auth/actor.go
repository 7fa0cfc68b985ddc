package auth

import "github.com/angelmondragon/catalog-backend/pkg/enums"

// Actor is the authenticated caller of a request. The zero value is anonymous.
type Actor struct {
	UserID   int64
	Username string
	Role     enums.Role
}

func (a Actor) Authenticated() bool {
	return a.UserID > 0
}

func (a Actor) IsAdmin() bool {
	return a.Authenticated() && a.Role == enums.RoleAdmin
}

// CanModify reports whether the actor may change a resource owned by ownerID.
func (a Actor) CanModify(ownerID int64) bool {
	if !a.Authenticated() {
		return false
	}
	return a.IsAdmin() || a.UserID == ownerID
}
