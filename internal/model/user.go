package model

import "time"

// User account record
type User struct {
	Uid       int64      `db:"uid"`
	Name      string     `db:"name"`
	Username  string     `db:"username"`
	Email     string     `db:"email"`
	Password  string     `db:"password"`
	Birthday  *time.Time `db:"birthday"`
	Bio       string     `db:"bio"`
	Avatar    string     `db:"avatar"`
	Role      int        `db:"role"`   // 0: regular user, 1: admin
	Status    int        `db:"status"` // 0: normal, 1: banned
	LastVisit *time.Time `db:"last_visit"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

// UserDTO public user projection
type UserDTO struct {
	Uid      int64  `json:"uid"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Bio      string `json:"bio,omitempty"`
	Role     int    `json:"role"`
	Status   int    `json:"status"`
}

// LoginRequest login payload
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32"`
	Password string `json:"password" binding:"required,min=6,max=64"`
}

// RegisterRequest registration payload
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Username string `json:"username" binding:"required,min=3,max=32"`
	Password string `json:"password" binding:"required,min=6,max=64"`
	Email    string `json:"email" binding:"required,email"`
}

// UpdateProfileRequest own-profile edit payload
type UpdateProfileRequest struct {
	Name     string `json:"name" binding:"omitempty,max=100"`
	Bio      string `json:"bio" binding:"omitempty,max=1000"`
	Birthday string `json:"birthday" binding:"omitempty,datetime=2006-01-02"`
	Avatar   string `json:"avatar" binding:"omitempty,max=255"`
}

// LoginResponse login result
type LoginResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// RegisterResponse registration result
type RegisterResponse struct {
	User UserDTO `json:"user"`
}
