package model

// User is a dashboard account
type User struct {
	Username     string  `db:"username" json:"username"`
	LastName     *string `db:"last_name" json:"last_name,omitempty"`
	PasswordHash string  `db:"password_hash" json:"-"`
	AccountType  string  `db:"account_type" json:"account_type"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	Profile     *Profile `json:"profile"`
}

// Profile is the caller-visible slice of a user account
type Profile struct {
	Username    string  `json:"username"`
	LastName    *string `json:"last_name,omitempty"`
	AccountType string  `json:"account_type"`
}

type UpdateProfileRequest struct {
	LastName *string `json:"last_name"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}
