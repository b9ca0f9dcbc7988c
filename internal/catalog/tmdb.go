package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/time/rate"

	"github.com/vanshika/reelpath/internal/domain"
)

// HTTPDoer is the subset of *http.Client used by the TMDB source.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TMDBOptions configures the TMDB source.
type TMDBOptions struct {
	APIKey            string
	BaseURL           string
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
	MaxRetries        int
	// RetryInitialInterval is the first backoff delay; zero uses 250ms.
	RetryInitialInterval time.Duration
	HTTPClient           HTTPDoer
}

// ErrMissingBaseURL indicates the TMDB base URL is not provided.
var ErrMissingBaseURL = errors.New("tmdb base URL is required")

// StatusError is returned for non-2xx TMDB responses.
type StatusError struct {
	StatusCode int
	Path       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tmdb %s: unexpected status %d", e.Path, e.StatusCode)
}

// Retryable reports whether the status is worth another attempt.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// TMDBClient is a Source backed by The Movie Database REST API. Every request
// waits on a shared rate limiter; 429 and 5xx responses and network errors are
// retried with exponential backoff.
type TMDBClient struct {
	opts    TMDBOptions
	base    *url.URL
	http    HTTPDoer
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewTMDBClient validates the options and builds a client.
func NewTMDBClient(opts TMDBOptions, logger *slog.Logger) (*TMDBClient, error) {
	if opts.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse tmdb base url: %w", err)
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 40
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryInitialInterval <= 0 {
		opts.RetryInitialInterval = 250 * time.Millisecond
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TMDBClient{
		opts:    opts,
		base:    base,
		http:    client,
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		logger:  logger.With("component", "tmdb"),
	}, nil
}

type tmdbSearchResponse struct {
	Results []tmdbMovie `json:"results"`
}

type tmdbMovie struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type tmdbCredits struct {
	Cast []tmdbCastMember `json:"cast"`
}

type tmdbCastMember struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type tmdbPersonCredits struct {
	Cast []tmdbMovie `json:"cast"`
}

// SearchMovie returns the first search result, as TMDB orders by relevance.
// A first result without an id or title counts as no match; later results
// are never considered.
func (c *TMDBClient) SearchMovie(ctx context.Context, title string) (domain.MovieRef, error) {
	var resp tmdbSearchResponse
	if err := c.getJSON(ctx, "/search/movie", url.Values{"query": {title}}, &resp); err != nil {
		return domain.MovieRef{}, err
	}
	if len(resp.Results) == 0 {
		return domain.MovieRef{}, ErrNotFound
	}
	if ref := resp.Results[0].ref(); ref.Valid() {
		return ref, nil
	}
	return domain.MovieRef{}, ErrNotFound
}

func (c *TMDBClient) MovieCast(ctx context.Context, movieID string) ([]domain.ActorRef, error) {
	var resp tmdbCredits
	if err := c.getJSON(ctx, "/movie/"+url.PathEscape(movieID)+"/credits", nil, &resp); err != nil {
		return nil, err
	}
	cast := make([]domain.ActorRef, 0, len(resp.Cast))
	for _, member := range resp.Cast {
		if member.ID == 0 {
			continue
		}
		cast = append(cast, domain.ActorRef{ID: strconv.FormatInt(member.ID, 10), Name: member.Name})
	}
	return cast, nil
}

func (c *TMDBClient) PersonCredits(ctx context.Context, personID string) ([]domain.MovieRef, error) {
	var resp tmdbPersonCredits
	if err := c.getJSON(ctx, "/person/"+url.PathEscape(personID)+"/movie_credits", nil, &resp); err != nil {
		return nil, err
	}
	movies := make([]domain.MovieRef, 0, len(resp.Cast))
	for _, m := range resp.Cast {
		if m.ID == 0 {
			continue
		}
		movies = append(movies, m.ref())
	}
	return movies, nil
}

func (m tmdbMovie) ref() domain.MovieRef {
	if m.ID == 0 {
		return domain.MovieRef{Title: m.Title}
	}
	return domain.MovieRef{ID: strconv.FormatInt(m.ID, 10), Title: m.Title}
}

// Ping makes one request to the configuration endpoint, without retries. It
// fails when TMDB is unreachable or rejects the API key.
func (c *TMDBClient) Ping(ctx context.Context) error {
	var resp struct {
		Images json.RawMessage `json:"images"`
	}
	return c.fetch(ctx, c.endpoint("/configuration", nil), "/configuration", &resp)
}

func (c *TMDBClient) getJSON(ctx context.Context, path string, query url.Values, dst any) error {
	endpoint := c.endpoint(path, query)

	policy := &backoff.ExponentialBackOff{
		InitialInterval:     c.opts.RetryInitialInterval,
		RandomizationFactor: backoff.DefaultRandomizationFactor,
		Multiplier:          backoff.DefaultMultiplier,
		MaxInterval:         backoff.DefaultMaxInterval,
	}
	policy.Reset()

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		err := c.fetch(ctx, endpoint, path, dst)
		if err == nil {
			return struct{}{}, nil
		}
		var statusErr *StatusError
		if errors.As(err, &statusErr) && !statusErr.Retryable() {
			return struct{}{}, backoff.Permanent(err)
		}
		if errors.Is(err, ErrNotFound) || ctx.Err() != nil {
			return struct{}{}, backoff.Permanent(err)
		}
		c.logger.Debug("tmdb request failed, retrying", "path", path, "attempt", attempt, "error", err)
		return struct{}{}, err
	}, backoff.WithBackOff(policy), backoff.WithMaxTries(uint(c.opts.MaxRetries+1)))
	return err
}

func (c *TMDBClient) fetch(ctx context.Context, endpoint, path string, dst any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build tmdb request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("tmdb %s: %w", path, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{StatusCode: resp.StatusCode, Path: path}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return backoff.Permanent(fmt.Errorf("decode tmdb %s: %w", path, err))
	}
	return nil
}

func (c *TMDBClient) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	q.Set("api_key", c.opts.APIKey)
	u.RawQuery = q.Encode()
	return u.String()
}
