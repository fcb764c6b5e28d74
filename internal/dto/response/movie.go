package response

import (
	"cinephile/internal/data/entity"
)

type MovieSummaryResponse struct {
	ExternalID string `json:"externalId"`
	Title      string `json:"title"`
	Year       string `json:"year"`
	PosterURL  string `json:"posterUrl"`
	Kind       string `json:"kind"`
}

// SearchResponse keeps the provider's top-level key the client reads
type SearchResponse struct {
	Search []MovieSummaryResponse `json:"Search"`
}

type MovieRatingResponse struct {
	Source string `json:"source"`
	Value  string `json:"value"`
}

type MovieDetailResponse struct {
	MovieSummaryResponse
	Rated      string                `json:"rated"`
	Released   string                `json:"released"`
	Runtime    string                `json:"runtime"`
	Genre      string                `json:"genre"`
	Director   string                `json:"director"`
	Writer     string                `json:"writer"`
	Actors     string                `json:"actors"`
	Plot       string                `json:"plot"`
	Language   string                `json:"language"`
	Country    string                `json:"country"`
	Awards     string                `json:"awards"`
	IMDBRating string                `json:"imdbRating"`
	IMDBVotes  string                `json:"imdbVotes"`
	Ratings    []MovieRatingResponse `json:"ratings"`
}

type FeaturedResponse struct {
	Movies []MovieDetailResponse `json:"movies"`
	Failed []string              `json:"failed"`
}

func MovieSummaryToResponse(m entity.MovieSummary) MovieSummaryResponse {
	return MovieSummaryResponse{
		ExternalID: m.ExternalID,
		Title:      m.Title,
		Year:       m.Year,
		PosterURL:  m.PosterURL,
		Kind:       m.Kind,
	}
}

func MovieDetailToResponse(m *entity.MovieDetail) MovieDetailResponse {
	ratings := make([]MovieRatingResponse, 0, len(m.Ratings))
	for _, r := range m.Ratings {
		ratings = append(ratings, MovieRatingResponse{Source: r.Source, Value: r.Value})
	}

	return MovieDetailResponse{
		MovieSummaryResponse: MovieSummaryToResponse(m.MovieSummary),
		Rated:                m.Rated,
		Released:             m.Released,
		Runtime:              m.Runtime,
		Genre:                m.Genre,
		Director:             m.Director,
		Writer:               m.Writer,
		Actors:               m.Actors,
		Plot:                 m.Plot,
		Language:             m.Language,
		Country:              m.Country,
		Awards:               m.Awards,
		IMDBRating:           m.IMDBRating,
		IMDBVotes:            m.IMDBVotes,
		Ratings:              ratings,
	}
}
