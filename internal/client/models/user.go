// Package models defines the client-side data shapes of HydrateMate: the
// cached account record, auth request/response bodies and the guest-mode
// entities persisted in the local store.
package models

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// User is the backend-owned account record. The client keeps an immutable
// copy and replaces it wholesale on every successful login or register.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the credentials the way the login form does.
func (c Credentials) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Email, validation.Required, is.Email),
		validation.Field(&c.Password, validation.Required, validation.Length(PasswordMinLength, PasswordMaxLength)),
	)
}

// RegisterData is what the user enters to create an account.
type RegisterData struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r RegisterData) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(NameMinLength, NameMaxLength)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(PasswordMinLength, PasswordMaxLength)),
	)
}

// RegisterRequest is the registration body sent to the backend. The profile
// fields are required by the backend and always carry the fixed defaults.
type RegisterRequest struct {
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Password      string        `json:"password"`
	Climate       Climate       `json:"climate"`
	WeightKg      float64       `json:"weightKg"`
	ActivityLevel ActivityLevel `json:"activityLevel"`
}

// NewRegisterRequest merges the default profile into data.
func NewRegisterRequest(data RegisterData) RegisterRequest {
	return RegisterRequest{
		Name:          data.Name,
		Email:         data.Email,
		Password:      data.Password,
		Climate:       DefaultClimate,
		WeightKg:      DefaultWeightKg,
		ActivityLevel: DefaultActivityLevel,
	}
}

// AuthResponse is the 2xx body of login and register.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Complete reports whether both halves of the session are present.
func (r *AuthResponse) Complete() bool {
	return r != nil && r.Token != "" && r.User != nil
}
