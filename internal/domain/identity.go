package domain

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Caller is the verified identity supplied by the upstream auth gateway.
// Every operation that touches caller-owned state takes it explicitly.
type Caller struct {
	UserID string
	Role   string
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}
