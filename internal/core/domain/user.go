package domain

import "time"

// User mirrors the persisted user document.
//
// Password is an opaque pre-hashed string supplied by the caller; the service
// never hashes or interprets it. RoleCodes reference roles by code with no
// enforced integrity.
type User struct {
	ID        string
	Username  string
	Password  string
	Email     *string
	Nickname  *string
	RoleCodes []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasRole reports whether the user is assigned the given role code.
func (u User) HasRole(code string) bool {
	for _, c := range u.RoleCodes {
		if c == code {
			return true
		}
	}
	return false
}

// Template is the minimal document record kept as scaffolding for new
// resource modules.
type Template struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
