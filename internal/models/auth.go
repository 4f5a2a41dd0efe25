package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserRole represents the four login roles.
type UserRole string

const (
	RoleAdmin   UserRole = "Admin"
	RoleTeacher UserRole = "Teacher"
	RoleParent  UserRole = "Parent"
	RoleStudent UserRole = "Student"
)

// Valid reports whether the role is one of the known four.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleParent, RoleStudent:
		return true
	}
	return false
}

// LoginRequest holds the role-specific credential inputs. Code is a teacher
// login code or a student roll number; Name is the guardian name for parents.
type LoginRequest struct {
	Role     UserRole `json:"role" binding:"required"`
	Code     string   `json:"code"`
	Name     string   `json:"name"`
	Password string   `json:"password"`
}

// LoginResponse returns the session token and the resolved identity.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresIn int64     `json:"expires_in"`
	IssuedAt  time.Time `json:"issued_at"`
	Identity  Identity  `json:"identity"`
}

// ChangePasswordRequest payload for updating the caller's password.
type ChangePasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=4"`
}

// SessionClaims is the JWT payload carrying the active identity.
type SessionClaims struct {
	SessionID    string   `json:"session_id"`
	Role         UserRole `json:"role"`
	StudentID    string   `json:"student_id,omitempty"`
	TeacherID    string   `json:"teacher_id,omitempty"`
	TeacherClass string   `json:"teacher_class,omitempty"`
	jwt.RegisteredClaims
}

// Identity is the resolved session identity: the claims re-pointed at fresh
// entity copies from the current snapshot. Entities are read-only views; the
// Domain Store owns the records.
type Identity struct {
	SessionID    string   `json:"session_id"`
	Role         UserRole `json:"role"`
	Student      *Student `json:"student,omitempty"`
	Teacher      *Teacher `json:"teacher,omitempty"`
	TeacherClass string   `json:"teacher_class,omitempty"`
}
