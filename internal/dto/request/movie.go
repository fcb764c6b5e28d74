package request

type SearchMoviesRequest struct {
	Query string `json:"query" validate:"max=200"`
}
