package dto

type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

type LoginInput struct {
	Username string
	Password string
}

type ResetPasswordInput struct {
	UIDB64          string
	Token           string
	Password        string
	ConfirmPassword string
}

type UpdateProfileInput struct {
	UserID    int64
	FirstName *string
	LastName  *string
}

type UserSummary struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type TokenPair struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User UserSummary `json:"user"`
	TokenPair
}
