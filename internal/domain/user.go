package domain

type UserRole string

const (
	RoleGuest   UserRole = "guest"
	RoleManager UserRole = "manager"
	RoleAdmin   UserRole = "admin"
)

// Actor is whoever triggers an engine operation. Privileged actors create
// reservations directly in the confirmed state.
type Actor struct {
	UserID     int64
	Privileged bool
}

// ActorFor derives the capability flag from a token role at the transport edge.
func ActorFor(userID int64, role string) Actor {
	return Actor{UserID: userID, Privileged: UserRole(role) == RoleAdmin}
}
