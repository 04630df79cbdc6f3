package dto

import "github.com/jhoicas/storefront-core/internal/domain/entity"

// LoginRequest credenciales de inicio de sesión.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest alta de un usuario nuevo.
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Password  string `json:"password"`
}

// AuthSession respuesta de login/registro: token emitido y perfil del usuario.
type AuthSession struct {
	Token string              `json:"token"`
	User  *entity.UserProfile `json:"user"`
}

// ForgotPasswordRequest dispara el envío del código de un solo uso.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// VerifyOtpRequest canjea el código por una credencial corta de reseteo.
type VerifyOtpRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// ResetPasswordRequest finaliza el reseteo; el usuario debe loguearse después.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// UpdateProfileRequest edición de los datos del perfil.
type UpdateProfileRequest struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`
}
