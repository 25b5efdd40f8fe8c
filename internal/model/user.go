package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleMaster  Role = "MASTER"
	RoleAdmin   Role = "ADMIN"
	RoleVisitor Role = "VISITOR"
)

type User struct {
	ID        uuid.UUID  `db:"id"         json:"id"`
	Name      string     `db:"name"       json:"name"`
	Email     string     `db:"email"      json:"email"`
	Password  string     `db:"password"   json:"-"` // never expose hash
	Role      Role       `db:"role"       json:"role"`
	TenantID  *uuid.UUID `db:"tenant_id"  json:"tenant_id"`
	IsActive  bool       `db:"is_active"  json:"is_active"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// DTO untuk response login
type UserResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	TenantID  *uuid.UUID `json:"tenant_id"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		TenantID:  u.TenantID,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// JWT Claims custom
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Name     string `json:"name"`
	TenantID string `json:"tenant_id"`
}
