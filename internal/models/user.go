package models

import (
	"encoding/json"
	"strings"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleMarketer Role = "marketer"
	RoleDoctor   Role = "doctor"
	RoleUser     Role = "user"
)

// ParseRole maps a free-form role string onto the closed set of roles.
// Empty or unknown values become RoleUser.
func ParseRole(s string) Role {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleMarketer, RoleDoctor, RoleUser:
		return r
	}
	return RoleUser
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMarketer, RoleDoctor, RoleUser:
		return true
	}
	return false
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// CanManageUsers reports whether the role sees the user directory on its dashboard.
func (r Role) CanManageUsers() bool {
	return r == RoleAdmin || r == RoleMarketer
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil || s == nil {
		*r = RoleUser
		return nil
	}
	*r = ParseRole(*s)
	return nil
}

// Session is the resolved identity of the viewer behind a bearer token.
type Session struct {
	ID         *int   `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	Country    string `json:"country,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	AboutMe    string `json:"about_me,omitempty"`
}

// Guest is the degraded identity used when the API cannot describe the viewer
// for reasons other than an invalid token.
func Guest() *Session {
	return &Session{
		ID:       nil,
		Username: "Guest",
		Role:     RoleUser,
	}
}

func (s *Session) IsGuest() bool {
	return s.ID == nil
}

func (s *Session) ProfileFields() map[string]string {
	return map[string]string{
		"username":    s.Username,
		"email":       s.Email,
		"first_name":  s.FirstName,
		"last_name":   s.LastName,
		"address":     s.Address,
		"city":        s.City,
		"country":     s.Country,
		"postal_code": s.PostalCode,
		"about_me":    s.AboutMe,
	}
}

type User struct {
	ID         int    `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	Country    string `json:"country,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	IsActive   bool   `json:"is_active"`
}

type UserGroup struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	UserIDs     []int  `json:"user_ids,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	Role  Role   `json:"role"`
}
