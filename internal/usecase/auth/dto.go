package auth

import (
	userUC "ecommerce-backend/internal/usecase/user"
	"ecommerce-backend/pkg/utils"
)

type SignupRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Mobile   string `json:"mobile" validate:"required,phone"`
	Password string `json:"password" validate:"required"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

// LoginRequest.Email carries either an email address or a mobile number.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email  string `json:"email" validate:"omitempty,email"`
	Mobile string `json:"mobile" validate:"omitempty,phone"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"omitempty,email"`
	Mobile      string `json:"mobile" validate:"omitempty,phone"`
	OTP         string `json:"otp" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

type SignupResponse struct {
	Email string `json:"email"`
}

type AuthResponse struct {
	User   *userUC.UserResponse `json:"user"`
	Tokens *utils.TokenPair     `json:"tokens"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresAt   int64  `json:"expiresAt"`
}

type ForgotPasswordResponse struct {
	Email string `json:"email,omitempty"`
}
