package models

type RegisterRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required"`
	Name      *string `json:"name"`
	Role      Role    `json:"role" validate:"omitempty,oneof=USER ADMIN"`
	AdminCode string  `json:"adminCode"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User  UserProfile `json:"user"`
	Token string      `json:"token"`
}
