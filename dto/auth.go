package dto

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email" example:"dev@example.com"`
	Username string `json:"username" validate:"required,min=3,max=20,alphanum" example:"codewarrior"`
	Password string `json:"password" validate:"required,strong_password" example:"SecurePass123"`
}

func (r RegisterRequest) Validate() error {
	return GetValidator().Struct(r)
}

type LoginRequest struct {
	EmailOrUsername string `json:"emailOrUsername" validate:"required" example:"dev@example.com"`
	Password        string `json:"password" validate:"required" example:"SecurePass123"`
}

func (l LoginRequest) Validate() error {
	return GetValidator().Struct(l)
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email" example:"dev@example.com"`
}

func (f ForgotPasswordRequest) Validate() error {
	return GetValidator().Struct(f)
}

type ResetPasswordRequest struct {
	Email    string `json:"email" validate:"required,email" example:"dev@example.com"`
	Code     string `json:"code" validate:"required,len=6,numeric" example:"123456"`
	Password string `json:"password" validate:"required,strong_password" example:"NewSecurePass123"`
}

func (r ResetPasswordRequest) Validate() error {
	return GetValidator().Struct(r)
}

type TokenPair struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}

type AuthResponse struct {
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}
