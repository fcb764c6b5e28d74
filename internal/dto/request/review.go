package request

type CreateReviewRequest struct {
	MovieID    string `json:"movieId" validate:"required,max=64"`
	MovieTitle string `json:"movieTitle" validate:"max=300"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Review     string `json:"review" validate:"required,min=10,max=500"`
}

type UpdateReviewRequest struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Review string `json:"review" validate:"required,min=10,max=500"`
}
