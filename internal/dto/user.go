package dto

import (
	"time"

	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/models"
)

// UserDTO represents a user in API responses. The password digest is never
// included.
type UserDTO struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FullName  *string   `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterResponse is returned after a successful registration
type RegisterResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

// LoginResponse carries a freshly issued bearer token
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      string `json:"user_id"`
}

// MessageResponse is a plain acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Username:  user.Username,
		FullName:  user.FullName,
		CreatedAt: user.CreatedAt,
	}
}

// ToRegisterResponse converts a new User to RegisterResponse
func ToRegisterResponse(user models.User) RegisterResponse {
	return RegisterResponse{
		ID:       user.ID,
		Username: user.Username,
		Message:  "Registered successfully",
	}
}

// ToLoginResponse builds the login response for token
func ToLoginResponse(user models.User, token string) LoginResponse {
	return LoginResponse{
		AccessToken: token,
		TokenType:   constants.TokenType,
		UserID:      user.ID,
	}
}
