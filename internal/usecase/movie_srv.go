package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cinephile/internal/data/entity"
	"cinephile/internal/dto/request"
	"cinephile/internal/dto/response"
	"cinephile/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// featuredConcurrency bounds parallel provider calls for the featured list
const featuredConcurrency = 4

// MovieProvider is the external movie database
type MovieProvider interface {
	Search(ctx context.Context, query string) ([]entity.MovieSummary, error)
	Detail(ctx context.Context, externalID string) (*entity.MovieDetail, error)
}

type MovieService interface {
	SearchMovies(ctx context.Context, query string) response.SearchResponse
	GetMovie(ctx context.Context, externalID string) (*response.MovieDetailResponse, error)
	GetFeatured(ctx context.Context) (*response.FeaturedResponse, error)
}

type movieService struct {
	provider MovieProvider
	featured []string
	log      *zap.Logger
}

func NewMovieService(provider MovieProvider, featured []string, log *zap.Logger) MovieService {
	return &movieService{
		provider: provider,
		featured: featured,
		log:      log.With(zap.String("service", "movie")),
	}
}

// SearchMovies never fails: provider trouble degrades to an empty result
func (s *movieService) SearchMovies(ctx context.Context, query string) response.SearchResponse {
	result := response.SearchResponse{Search: []response.MovieSummaryResponse{}}

	req := request.SearchMoviesRequest{Query: strings.TrimSpace(query)}
	if req.Query == "" {
		return result
	}
	if err := utils.Validate(&req); err != nil {
		s.log.Warn("Movie search rejected", zap.Int("query_length", len(req.Query)), zap.Error(err))
		return result
	}

	movies, err := s.provider.Search(ctx, req.Query)
	if err != nil {
		s.log.Warn("Movie search degraded to empty result",
			zap.String("query", req.Query),
			zap.Error(err))
		return result
	}

	for _, m := range movies {
		result.Search = append(result.Search, response.MovieSummaryToResponse(m))
	}
	return result
}

func (s *movieService) GetMovie(ctx context.Context, externalID string) (*response.MovieDetailResponse, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, &utils.ValidationError{Fields: map[string]string{"id": "id is required"}}
	}

	detail, err := s.provider.Detail(ctx, externalID)
	if err != nil {
		if errors.Is(err, utils.ErrUpstream) {
			return nil, fmt.Errorf("movie %s: %w", externalID, err)
		}
		return nil, fmt.Errorf("movie %s: %w: %w", externalID, utils.ErrUpstream, err)
	}

	resp := response.MovieDetailToResponse(detail)
	return &resp, nil
}

// GetFeatured fetches the curated titles in parallel. A failed title is
// reported in Failed rather than failing the batch; only an all-failed
// batch is an error.
func (s *movieService) GetFeatured(ctx context.Context) (*response.FeaturedResponse, error) {
	details := make([]*entity.MovieDetail, len(s.featured))
	errs := make([]error, len(s.featured))

	var g errgroup.Group
	g.SetLimit(featuredConcurrency)

	for i, id := range s.featured {
		g.Go(func() error {
			details[i], errs[i] = s.provider.Detail(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	resp := &response.FeaturedResponse{
		Movies: []response.MovieDetailResponse{},
		Failed: []string{},
	}
	for i, id := range s.featured {
		if errs[i] != nil {
			s.log.Warn("Featured movie lookup failed", zap.String("movie_id", id), zap.Error(errs[i]))
			resp.Failed = append(resp.Failed, id)
			continue
		}
		resp.Movies = append(resp.Movies, response.MovieDetailToResponse(details[i]))
	}

	if len(s.featured) > 0 && len(resp.Movies) == 0 {
		return nil, fmt.Errorf("all %d featured lookups failed: %w", len(s.featured), utils.ErrUpstream)
	}
	return resp, nil
}
