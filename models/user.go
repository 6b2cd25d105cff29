package models

// User roles understood by pricing and the role-gating middleware
const (
	RoleCustomer = "customer"
	RoleVIP      = "vip"
	RoleAdmin    = "admin"
)

// User represents a user in the system (customer, vip customer or admin).
// Username is the natural key. Authentication, sessions and password
// handling live outside this service; only validated identity primitives
// reach the core.
type User struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"` // "customer", "vip" or "admin"
}

// IsVIP returns true if the user qualifies for the VIP discount
func (u *User) IsVIP() bool {
	return u != nil && u.Role == RoleVIP
}

// IsAdmin returns true if the user may perform admin operations
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
