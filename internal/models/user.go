package models

import (
	"time"
)

// Role represents user roles in the system
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User represents a user profile in the system. The id is either the
// identity provider uid or a locally generated hex id.
type User struct {
	ID                 string     `bson:"_id" json:"id"`
	Username           string     `bson:"username" json:"username"`
	Name               string     `bson:"name" json:"name"`
	PasswordHash       string     `bson:"passwordHash,omitempty" json:"-"`
	Role               Role       `bson:"role" json:"role"`
	StoreID            string     `bson:"storeId" json:"storeId"`
	MustChangePassword bool       `bson:"mustChangePassword" json:"mustChangePassword"`
	IsActive           bool       `bson:"active" json:"active"`
	LastLogin          *time.Time `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	CreatedAt          time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// Actor is the resolved calling principal passed into every core operation.
type Actor struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Role    Role   `json:"role"`
	StoreID string `json:"storeId"`
}

// IsAdmin reports whether the actor has full visibility.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Actor projects the user profile onto the identity the engines consume.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Name: u.Name, Role: u.Role, StoreID: u.StoreID}
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Claims represents JWT claims
type Claims struct {
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
	Role    Role   `json:"role"`
	StoreID string `json:"store_id"`
	Exp     int64  `json:"exp"`
}

// Actor converts validated claims into an actor.
func (c *Claims) Actor() Actor {
	return Actor{ID: c.UserID, Name: c.Name, Role: c.Role, StoreID: c.StoreID}
}

// IsValidRole checks if a role is valid
func IsValidRole(role Role) bool {
	switch role {
	case RoleAdmin, RoleUser:
		return true
	default:
		return false
	}
}
