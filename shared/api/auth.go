package api

// Request DTOs

// Pointer fields let required reject a missing or null key while an empty
// string still passes.

// RegisterRequest keeps the camelCase profile keys existing clients send.
type RegisterRequest struct {
	Username      *string `json:"username" validate:"required"`
	Password      *string `json:"password" validate:"required"`
	PublicKey     *string `json:"public_key" validate:"required"`
	FirstName     *string `json:"firstName" validate:"required"`
	LastName      *string `json:"lastName" validate:"required"`
	PhoneNumber   *string `json:"phoneNumber" validate:"required"`
	Address       *string `json:"address" validate:"required"`
	RecoveryEmail *string `json:"recoveryEmail" validate:"required,email"`
}

// LoginRequest identifies the user by derived email, not username.
type LoginRequest struct {
	Email    *string `json:"email" validate:"required"`
	Password *string `json:"password" validate:"required"`
}

// Response DTOs

type RegisterResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

type LoginResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

type PublicKeyResponse struct {
	Email     string `json:"email"`
	PublicKey string `json:"public_key"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

type RootResponse struct {
	Project string `json:"Project"`
}
