package request

type RegisterRequest struct {
	Email    string  `json:"email" validate:"required,email,max=255"`
	Username *string `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
	Password string  `json:"password" validate:"required,min=6,max=72"`
	FullName *string `json:"fullName,omitempty" validate:"omitempty,max=120"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=10,max=15"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type VerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Token string `json:"token" validate:"required,len=8,hexadecimal"`
}

// EmailRequest is the body of send-otp and forgot-password.
type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Token       string `json:"token" validate:"required,len=6,numeric"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=72"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}
