package entity

// MovieSummary is one normalized search hit from the movie provider.
type MovieSummary struct {
	ExternalID string
	Title      string
	Year       string
	PosterURL  string
	Kind       string
}

type MovieRating struct {
	Source string
	Value  string
}

// MovieDetail is the full record for a single title.
type MovieDetail struct {
	MovieSummary
	Rated      string
	Released   string
	Runtime    string
	Genre      string
	Director   string
	Writer     string
	Actors     string
	Plot       string
	Language   string
	Country    string
	Awards     string
	IMDBRating string
	IMDBVotes  string
	Ratings    []MovieRating
}
