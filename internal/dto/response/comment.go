package response

import (
	"time"

	"cinephile/internal/data/entity"
)

type CommentResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	MovieID   string    `json:"movieId"`
	Content   string    `json:"content"`
	Edited    bool      `json:"edited"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func CommentToResponse(comment *entity.Comment, username string) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		UserID:    comment.UserID,
		Username:  username,
		MovieID:   comment.MovieID,
		Content:   comment.Content,
		Edited:    comment.Edited(),
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
}

// Discussion entry kinds
const (
	DiscussionReview  = "review"
	DiscussionComment = "comment"
)

// DiscussionItem is one entry of the merged movie feed. Exactly one of
// Review and Comment is set, matching Type.
type DiscussionItem struct {
	Type      string           `json:"type"`
	CreatedAt time.Time        `json:"createdAt"`
	Review    *ReviewResponse  `json:"review,omitempty"`
	Comment   *CommentResponse `json:"comment,omitempty"`
}
