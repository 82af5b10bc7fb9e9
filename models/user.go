package models

import (
	"time"
)

// User roles. The role drives route access; batch creation additionally
// requires the referenced instructor to carry RoleInstructor and be active.
const (
	RoleAdmin      = "Admin"
	RoleSupervisor = "Supervisor"
	RoleInstructor = "Instructor"
	RoleStaff      = "Staff"
)

type User struct {
	ID        int       `gorm:"primaryKey;column:id" json:"id"`
	Name      string    `gorm:"column:name" json:"name"`
	Email     string    `gorm:"column:email;unique" json:"email"`
	Password  string    `gorm:"column:password" json:"-"`
	Role      string    `gorm:"column:role" json:"role"`
	IsActive  bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserCreateRequest carries the admin payload for creating an account. The
// password arrives in clear and is bcrypt-hashed before storage; is_active
// defaults to true when absent.
type UserCreateRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,oneof=Admin Supervisor Instructor Staff"`
	IsActive *bool  `json:"is_active"`
}

// UserUpdateRequest uses pointers for partial-update semantics. Password
// changes go through the change-password endpoint, not here.
type UserUpdateRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=2,max=255"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Role     *string `json:"role" binding:"omitempty,oneof=Admin Supervisor Instructor Staff"`
	IsActive *bool   `json:"is_active"`
}
