package models

import (
	"testing"
)

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		expected bool
	}{
		{"admin role", RoleAdmin, true},
		{"user role", RoleUser, true},
		{"legacy manager role", "manager", false},
		{"empty role", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidRole(tt.role)
			if result != tt.expected {
				t.Errorf("IsValidRole(%s) = %v, want %v", tt.role, result, tt.expected)
			}
		})
	}
}

func TestUser_Actor(t *testing.T) {
	user := &User{
		ID:      "uid-1",
		Name:    "Maria",
		Role:    RoleUser,
		StoreID: "loja-01",
	}

	actor := user.Actor()
	if actor.ID != "uid-1" || actor.Name != "Maria" || actor.StoreID != "loja-01" {
		t.Errorf("unexpected actor %+v", actor)
	}
	if actor.IsAdmin() {
		t.Errorf("user role must not be admin")
	}
	if !(Actor{Role: RoleAdmin}).IsAdmin() {
		t.Errorf("admin role must be admin")
	}
}

func TestClaims_Actor(t *testing.T) {
	claims := &Claims{UserID: "u1", Name: "João", Role: RoleAdmin, StoreID: "matriz"}
	actor := claims.Actor()
	if actor != (Actor{ID: "u1", Name: "João", Role: RoleAdmin, StoreID: "matriz"}) {
		t.Errorf("unexpected actor %+v", actor)
	}
}
