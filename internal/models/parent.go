package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Parent represents a parent account that owns child profiles
type Parent struct {
	ID        int64     `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password_hash"` // Never expose in JSON
	Name      string    `json:"name" db:"name"`
	IsAdmin   bool      `json:"is_admin" db:"is_admin"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// RegisterRequest represents a parent signup
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token for the mobile client
type LoginResponse struct {
	Token  string  `json:"token"`
	Parent *Parent `json:"parent"`
}

// SetPassword hashes and sets the parent's password
func (p *Parent) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies a password against the parent's hash
func (p *Parent) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(p.Password), []byte(password))
	return err == nil
}
