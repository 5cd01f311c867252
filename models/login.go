package models

// Roles a roster member can hold. Only hosts may move the lesson forward;
// the server enforces it.
const (
	RoleHost        = "host"
	RoleParticipant = "participant"
)

// LoginResponse is returned by the login exchange. Token is an opaque bearer
// credential passed back on data fetch and on the sync socket.
type LoginResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// IsHost reports whether the logged-in user holds the host role.
func (l LoginResponse) IsHost() bool {
	return l.Role == RoleHost
}
