package entity

// Role of a user. Fixed at creation and never changed afterwards.
type Role string

const (
	RoleReader    Role = "reader"
	RoleLibrarian Role = "librarian"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleReader || r == RoleLibrarian
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
