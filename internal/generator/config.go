package generator

// Config drives the synthetic catalog generator.
type Config struct {
	NumMovies int
	// MaxActors caps how many distinct people the catalog credits.
	MaxActors int
	CastMin   int
	CastMax   int
	// RecastChance is the probability that a cast slot goes to someone
	// already credited elsewhere rather than a new face. Higher values give a
	// denser, better connected catalog.
	RecastChance float64
	// Islands splits the catalog into that many groups of movies that never
	// share an actor, which exercises the no-connection outcome.
	Islands int
	Seed    int64
}

// DefaultConfig returns settings that produce a catalog large enough to make
// the bidirectional search worthwhile.
func DefaultConfig() Config {
	return Config{
		NumMovies:    5000,
		MaxActors:    20000,
		CastMin:      3,
		CastMax:      12,
		RecastChance: 0.6,
		Islands:      1,
		Seed:         42,
	}
}
