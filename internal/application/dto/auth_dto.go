package dto

import "time"

// SignupRequest alta de usuario dueño y, opcionalmente, de su tienda.
type SignupRequest struct {
	Email    string              `json:"email" validate:"required,email"`
	Password string              `json:"password" validate:"required,min=8"`
	Name     string              `json:"name" validate:"omitempty,max=200"`
	Store    *SignupStoreRequest `json:"store" validate:"omitempty"`
	Logo     *Upload             `json:"-"`
	Banner   *Upload             `json:"-"`
}

// SignupStoreRequest datos de la tienda en el onboarding. Slug vacío = se deriva del nombre.
type SignupStoreRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=200"`
	Slug        string `json:"slug" validate:"omitempty,min=3,max=60"`
	Description string `json:"description"`
}

// SignupResponse usuario creado, tienda (si hubo) y token de sesión.
type SignupResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	User      UserResponse   `json:"user"`
	Store     *StoreResponse `json:"store,omitempty"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"store_id,omitempty"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// SessionResponse sesión vigente: usuario y resumen de su tienda.
type SessionResponse struct {
	User      UserResponse   `json:"user"`
	Store     *StoreResponse `json:"store,omitempty"`
	ExpiresAt time.Time      `json:"expires_at"`
}
