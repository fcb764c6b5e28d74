package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cinephile/internal/data/entity"
	"cinephile/pkg/utils"

	"go.uber.org/zap"
)

const notAvailable = "N/A"

// Client talks to the OMDb HTTP API. Every failure it returns wraps utils.ErrUpstream.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient builds a client from cfg. A nil httpClient gets one with cfg.Timeout.
func NewClient(cfg utils.OMDbConfig, httpClient *http.Client, log *zap.Logger) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		log:        log.With(zap.String("client", "omdb")),
	}
}

type searchItem struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	IMDBID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

type searchResult struct {
	Search   []searchItem `json:"Search"`
	Response string       `json:"Response"`
	Error    string       `json:"Error"`
}

type detailResult struct {
	searchItem
	Rated      string `json:"Rated"`
	Released   string `json:"Released"`
	Runtime    string `json:"Runtime"`
	Genre      string `json:"Genre"`
	Director   string `json:"Director"`
	Writer     string `json:"Writer"`
	Actors     string `json:"Actors"`
	Plot       string `json:"Plot"`
	Language   string `json:"Language"`
	Country    string `json:"Country"`
	Awards     string `json:"Awards"`
	IMDBRating string `json:"imdbRating"`
	IMDBVotes  string `json:"imdbVotes"`
	Ratings    []struct {
		Source string `json:"Source"`
		Value  string `json:"Value"`
	} `json:"Ratings"`
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

// Search looks titles up by free text
func (c *Client) Search(ctx context.Context, query string) ([]entity.MovieSummary, error) {
	var result searchResult
	if err := c.get(ctx, url.Values{"s": {query}}, &result); err != nil {
		return nil, err
	}

	if !strings.EqualFold(result.Response, "True") {
		return nil, fmt.Errorf("omdb search %q: %s: %w", query, result.Error, utils.ErrUpstream)
	}

	movies := make([]entity.MovieSummary, 0, len(result.Search))
	for _, item := range result.Search {
		movies = append(movies, item.summary())
	}
	return movies, nil
}

// Detail fetches one title with its full plot
func (c *Client) Detail(ctx context.Context, externalID string) (*entity.MovieDetail, error) {
	var result detailResult
	params := url.Values{"i": {externalID}, "plot": {"full"}}
	if err := c.get(ctx, params, &result); err != nil {
		return nil, err
	}

	if !strings.EqualFold(result.Response, "True") {
		return nil, fmt.Errorf("omdb detail %s: %s: %w", externalID, result.Error, utils.ErrUpstream)
	}

	detail := &entity.MovieDetail{
		MovieSummary: result.summary(),
		Rated:        result.Rated,
		Released:     result.Released,
		Runtime:      result.Runtime,
		Genre:        result.Genre,
		Director:     result.Director,
		Writer:       result.Writer,
		Actors:       result.Actors,
		Plot:         result.Plot,
		Language:     result.Language,
		Country:      result.Country,
		Awards:       result.Awards,
		IMDBRating:   result.IMDBRating,
		IMDBVotes:    result.IMDBVotes,
		Ratings:      make([]entity.MovieRating, 0, len(result.Ratings)),
	}
	for _, r := range result.Ratings {
		detail.Ratings = append(detail.Ratings, entity.MovieRating{Source: r.Source, Value: r.Value})
	}
	return detail, nil
}

func (i searchItem) summary() entity.MovieSummary {
	poster := i.Poster
	if poster == notAvailable {
		poster = ""
	}
	return entity.MovieSummary{
		ExternalID: i.IMDBID,
		Title:      i.Title,
		Year:       i.Year,
		PosterURL:  poster,
		Kind:       i.Type,
	}
}

func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	params.Set("apikey", c.apiKey)
	endpoint := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("omdb: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("OMDb request failed", zap.Error(err))
		return fmt.Errorf("omdb: do request: %w", errors.Join(utils.ErrUpstream, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Warn("OMDb returned non-200",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)
		return fmt.Errorf("omdb: status %d: %w", resp.StatusCode, utils.ErrUpstream)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("omdb: decode json: %w", errors.Join(utils.ErrUpstream, err))
	}
	return nil
}
