package response

import (
	"time"

	"cinephile/internal/data/entity"
)

type ReviewResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Username   string    `json:"username"`
	MovieID    string    `json:"movieId"`
	MovieTitle string    `json:"movieTitle,omitempty"`
	Rating     int       `json:"rating"`
	Review     string    `json:"review"`
	Edited     bool      `json:"edited"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func ReviewToResponse(review *entity.Review, username string) ReviewResponse {
	return ReviewResponse{
		ID:         review.ID,
		UserID:     review.UserID,
		Username:   username,
		MovieID:    review.MovieID,
		MovieTitle: review.MovieTitle,
		Rating:     review.Rating,
		Review:     review.Text,
		Edited:     review.Edited(),
		CreatedAt:  review.CreatedAt,
		UpdatedAt:  review.UpdatedAt,
	}
}
