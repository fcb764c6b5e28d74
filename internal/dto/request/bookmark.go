package request

type BookmarkRequest struct {
	MovieID string `json:"movieId" validate:"required,max=64"`
}
