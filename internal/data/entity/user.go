package entity

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAgent UserRole = "agent"
	RoleAdmin UserRole = "admin"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type User struct {
	Base
	Email        string     `db:"email"`
	Username     string     `db:"username"`
	PasswordHash string     `db:"password"`
	FullName     *string    `db:"full_name"`
	Avatar       *string    `db:"avatar"`
	Phone        *string    `db:"phone"`
	Gender       *Gender    `db:"gender"`
	Address      *string    `db:"address"`
	Role         UserRole   `db:"role"`
	IsActive     bool       `db:"is_active"`
}

// UserProfile is the public part of a user joined into other resources.
type UserProfile struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	FullName *string `json:"fullName,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
	Email    string  `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}
