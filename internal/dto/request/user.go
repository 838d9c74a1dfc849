package request

type UpdateProfileRequest struct {
	FullName *string `json:"fullName,omitempty" validate:"omitempty,max=120"`
	Avatar   *string `json:"avatar,omitempty" validate:"omitempty,url"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=10,max=15"`
	Gender   *string `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	Address  *string `json:"address,omitempty" validate:"omitempty,max=500"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72,nefield=CurrentPassword"`
}
