package response

import (
	"time"

	"cinephile/internal/data/entity"
)

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

type UserResponse struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	SavedMovies []string  `json:"savedMovies"`
	CreatedAt   time.Time `json:"createdAt"`
}

func UserToResponse(user *entity.User) UserResponse {
	saved := user.SavedMovies
	if saved == nil {
		saved = []string{}
	}
	return UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		SavedMovies: saved,
		CreatedAt:   user.CreatedAt,
	}
}
