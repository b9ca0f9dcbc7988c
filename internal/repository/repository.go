// Package repository stores the movie catalog in the graph database and
// serves catalog lookups from it.
//
// Movies and people are nodes; (:Person)-[:ACTED_IN {order}]->(:Movie) edges
// carry the billing order so casts come back the way the catalog lists them.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vanshika/reelpath/internal/catalog"
	"github.com/vanshika/reelpath/internal/domain"
	"github.com/vanshika/reelpath/internal/graph"
)

// CatalogCounts summarizes the stored catalog.
type CatalogCounts struct {
	Movies  int `json:"movies"`
	People  int `json:"people"`
	Credits int `json:"credits"`
}

// Repository encapsulates graph persistence operations.
type Repository struct {
	client graph.Client
}

var _ catalog.Source = (*Repository)(nil)

// New instantiates a Repository backed by the supplied graph client.
func New(client graph.Client) *Repository {
	return &Repository{client: client}
}

// EnsureSchema creates the uniqueness constraints the upserts rely on.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := r.client.ExecuteWrite(ctx, stmt, nil); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// UpsertMovie ensures a movie node exists with its current title and replaces
// its cast edges with the supplied cast, in billing order. It reports what the
// write changed.
func (r *Repository) UpsertMovie(ctx context.Context, movie domain.CatalogMovie) (graph.Counters, error) {
	if movie.ID == "" {
		return graph.Counters{}, errors.New("movie id is required")
	}

	params := map[string]any{
		"movieId": movie.ID,
		"title":   movie.Title,
		"cast":    castParams(movie.Cast),
	}

	res, err := r.client.ExecuteWrite(ctx, upsertMovieCypher, params)
	if err != nil {
		return graph.Counters{}, fmt.Errorf("upsert movie %s: %w", movie.ID, err)
	}
	return res.Counters, nil
}

// SearchMovie returns the movie whose title matches case-insensitively,
// falling back to the alphabetically first title containing the query.
func (r *Repository) SearchMovie(ctx context.Context, title string) (domain.MovieRef, error) {
	query := strings.ToLower(strings.TrimSpace(title))
	if query == "" {
		return domain.MovieRef{}, catalog.ErrNotFound
	}

	res, err := r.client.ExecuteRead(ctx, searchMovieCypher, map[string]any{"query": query})
	if err != nil {
		return domain.MovieRef{}, fmt.Errorf("search movie %q: %w", title, err)
	}
	if len(res.Records) == 0 {
		return domain.MovieRef{}, catalog.ErrNotFound
	}

	rec := res.Records[0]
	return domain.MovieRef{ID: rec.String("id"), Title: rec.String("title")}, nil
}

// MovieCast lists the people credited in a movie, in billing order.
func (r *Repository) MovieCast(ctx context.Context, movieID string) ([]domain.ActorRef, error) {
	res, err := r.client.ExecuteRead(ctx, movieCastCypher, map[string]any{"movieId": movieID})
	if err != nil {
		return nil, fmt.Errorf("movie cast %s: %w", movieID, err)
	}
	if len(res.Records) == 0 {
		return nil, catalog.ErrNotFound
	}

	entries := res.Records[0].Maps("cast")
	cast := make([]domain.ActorRef, 0, len(entries))
	for _, e := range entries {
		e := graph.Record(e)
		cast = append(cast, domain.ActorRef{ID: e.String("id"), Name: e.String("name")})
	}
	return cast, nil
}

// PersonCredits lists the movies a person acted in, ordered by title.
func (r *Repository) PersonCredits(ctx context.Context, personID string) ([]domain.MovieRef, error) {
	res, err := r.client.ExecuteRead(ctx, personCreditsCypher, map[string]any{"personId": personID})
	if err != nil {
		return nil, fmt.Errorf("person credits %s: %w", personID, err)
	}
	if len(res.Records) == 0 {
		return nil, catalog.ErrNotFound
	}

	entries := res.Records[0].Maps("credits")
	credits := make([]domain.MovieRef, 0, len(entries))
	for _, e := range entries {
		e := graph.Record(e)
		credits = append(credits, domain.MovieRef{ID: e.String("id"), Title: e.String("title")})
	}
	return credits, nil
}

// Counts reports how many movies, people and credits are stored.
func (r *Repository) Counts(ctx context.Context) (CatalogCounts, error) {
	res, err := r.client.ExecuteRead(ctx, countsCypher, nil)
	if err != nil {
		return CatalogCounts{}, fmt.Errorf("catalog counts: %w", err)
	}
	if len(res.Records) == 0 {
		return CatalogCounts{}, nil
	}
	rec := res.Records[0]
	return CatalogCounts{
		Movies:  rec.Int("movies"),
		People:  rec.Int("people"),
		Credits: rec.Int("credits"),
	}, nil
}

func castParams(cast []domain.ActorRef) []map[string]any {
	out := make([]map[string]any, 0, len(cast))
	for _, a := range cast {
		if !a.Valid() {
			continue
		}
		out = append(out, map[string]any{
			"id":   a.ID,
			"name": a.Name,
		})
	}
	return out
}
