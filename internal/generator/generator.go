// Package generator synthesizes movie catalogs for local runs and load tests.
package generator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/vanshika/reelpath/internal/catalog"
	"github.com/vanshika/reelpath/internal/domain"
)

// Generator produces synthetic catalogs where movies are linked through
// recurring cast members.
type Generator struct {
	cfg           Config
	rand          *rand.Rand
	nameFragments nameFragments
	titles        map[string]struct{}
	nextActor     int
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.NumMovies <= 0 {
		cfg.NumMovies = def.NumMovies
	}
	if cfg.MaxActors <= 0 {
		cfg.MaxActors = def.MaxActors
	}
	if cfg.CastMin <= 0 {
		cfg.CastMin = def.CastMin
	}
	if cfg.CastMax < cfg.CastMin {
		cfg.CastMax = cfg.CastMin
	}
	if cfg.RecastChance < 0 || cfg.RecastChance > 1 {
		cfg.RecastChance = def.RecastChance
	}
	if cfg.Islands <= 0 {
		cfg.Islands = 1
	}
	if cfg.Islands > cfg.NumMovies {
		cfg.Islands = cfg.NumMovies
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:           cfg,
		rand:          rand.New(rand.NewSource(cfg.Seed)),
		nameFragments: defaultNameFragments(),
		titles:        make(map[string]struct{}, cfg.NumMovies),
	}
}

// Generate synthesizes a catalog. It respects context cancellation.
//
// Movies are dealt round-robin into islands; each island keeps its own pool
// of credited actors, so actors never cross islands.
func (g *Generator) Generate(ctx context.Context) (catalog.Dataset, error) {
	movies := make([]domain.CatalogMovie, 0, g.cfg.NumMovies)
	pools := make([][]domain.ActorRef, g.cfg.Islands)
	actorBudget := g.cfg.MaxActors / g.cfg.Islands
	if actorBudget < g.cfg.CastMax {
		actorBudget = g.cfg.CastMax
	}

	for i := 0; i < g.cfg.NumMovies; i++ {
		if err := ctx.Err(); err != nil {
			return catalog.Dataset{}, err
		}

		island := i % g.cfg.Islands
		size := g.cfg.CastMin + g.rand.Intn(g.cfg.CastMax-g.cfg.CastMin+1)
		movies = append(movies, domain.CatalogMovie{
			ID:    fmt.Sprintf("MOV-%06d", i+1),
			Title: g.uniqueTitle(),
			Cast:  g.cast(&pools[island], size, actorBudget),
		})
	}

	return catalog.Dataset{Movies: movies}, nil
}

// cast fills size slots, reusing pool members with probability RecastChance
// and minting new actors while the island's budget allows.
func (g *Generator) cast(pool *[]domain.ActorRef, size, budget int) []domain.ActorRef {
	cast := make([]domain.ActorRef, 0, size)
	seen := make(map[string]struct{}, size)
	for attempts := 0; len(cast) < size && attempts < size*4; attempts++ {
		actor := g.maybeRecast(pool, budget)
		if _, dup := seen[actor.ID]; dup {
			continue
		}
		seen[actor.ID] = struct{}{}
		cast = append(cast, actor)
	}
	return cast
}

func (g *Generator) maybeRecast(pool *[]domain.ActorRef, budget int) domain.ActorRef {
	if len(*pool) > 0 && (len(*pool) >= budget || g.rand.Float64() < g.cfg.RecastChance) {
		return (*pool)[g.rand.Intn(len(*pool))]
	}
	g.nextActor++
	actor := domain.ActorRef{
		ID:   fmt.Sprintf("ACT-%06d", g.nextActor),
		Name: g.randomFullName(),
	}
	*pool = append(*pool, actor)
	return actor
}

func (g *Generator) uniqueTitle() string {
	f := g.nameFragments
	base := fmt.Sprintf("%s %s %s",
		f.articles[g.rand.Intn(len(f.articles))],
		f.adjectives[g.rand.Intn(len(f.adjectives))],
		f.nouns[g.rand.Intn(len(f.nouns))])
	title := base
	for n := 2; ; n++ {
		if _, taken := g.titles[title]; !taken {
			break
		}
		title = fmt.Sprintf("%s %d", base, n)
	}
	g.titles[title] = struct{}{}
	return title
}

func (g *Generator) randomFullName() string {
	return fmt.Sprintf("%s %s", g.nameFragments.first[g.rand.Intn(len(g.nameFragments.first))],
		g.nameFragments.last[g.rand.Intn(len(g.nameFragments.last))])
}

type nameFragments struct {
	first      []string
	last       []string
	articles   []string
	adjectives []string
	nouns      []string
}

func defaultNameFragments() nameFragments {
	return nameFragments{
		first:      []string{"Jane", "John", "Alex", "Priya", "Liu", "Maria", "Omar", "Sofia", "Noah", "Emma", "Lucas", "Mia", "Ava", "Ethan", "Zara"},
		last:       []string{"Doe", "Smith", "Chen", "Patel", "Garcia", "Khan", "Kim", "Ivanov", "Nguyen", "Silva", "Brown", "Lee"},
		articles:   []string{"The", "A", "Return of the", "Beyond the", "Last"},
		adjectives: []string{"Silent", "Crimson", "Hidden", "Broken", "Golden", "Midnight", "Distant", "Electric", "Frozen", "Savage"},
		nouns:      []string{"Harbor", "Empire", "Signal", "Horizon", "Witness", "Frontier", "Garden", "Protocol", "Voyage", "Kingdom", "Mirror"},
	}
}
