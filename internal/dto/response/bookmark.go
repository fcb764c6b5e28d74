package response

type BookmarksResponse struct {
	SavedMovies []string `json:"savedMovies"`
}
