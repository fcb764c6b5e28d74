package client

import "time"

// Request and response bodies of the API as seen from outside this module.
// Field names follow the JSON the server writes.

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateReviewRequest struct {
	MovieID    string `json:"movieId"`
	MovieTitle string `json:"movieTitle,omitempty"`
	Rating     int    `json:"rating"`
	Review     string `json:"review"`
}

type UpdateReviewRequest struct {
	Rating int    `json:"rating"`
	Review string `json:"review"`
}

type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	SavedMovies []string  `json:"savedMovies"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Auth struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

type Review struct {
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

type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	MovieID   string    `json:"movieId"`
	Content   string    `json:"content"`
	Edited    bool      `json:"edited"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DiscussionItem is either a review or a comment, tagged by Type
type DiscussionItem struct {
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
	Review    *Review   `json:"review,omitempty"`
	Comment   *Comment  `json:"comment,omitempty"`
}

type Movie struct {
	ExternalID string `json:"externalId"`
	Title      string `json:"title"`
	Year       string `json:"year"`
	PosterURL  string `json:"posterUrl"`
	Kind       string `json:"kind"`
}

type MovieRating struct {
	Source string `json:"source"`
	Value  string `json:"value"`
}

type MovieDetail struct {
	Movie
	Rated      string        `json:"rated"`
	Released   string        `json:"released"`
	Runtime    string        `json:"runtime"`
	Genre      string        `json:"genre"`
	Director   string        `json:"director"`
	Writer     string        `json:"writer"`
	Actors     string        `json:"actors"`
	Plot       string        `json:"plot"`
	Language   string        `json:"language"`
	Country    string        `json:"country"`
	Awards     string        `json:"awards"`
	IMDBRating string        `json:"imdbRating"`
	IMDBVotes  string        `json:"imdbVotes"`
	Ratings    []MovieRating `json:"ratings"`
}

// Featured lists the curated titles that loaded and the ids that did not
type Featured struct {
	Movies []MovieDetail `json:"movies"`
	Failed []string      `json:"failed"`
}

type searchResult struct {
	Search []Movie `json:"Search"`
}

type bookmarks struct {
	SavedMovies []string `json:"savedMovies"`
}

type bookmarkRequest struct {
	MovieID string `json:"movieId"`
}

type commentRequest struct {
	Content string `json:"content"`
}
