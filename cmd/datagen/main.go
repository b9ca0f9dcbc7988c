package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vanshika/reelpath/internal/catalog"
	"github.com/vanshika/reelpath/internal/generator"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		movies       = flag.Int("movies", cfg.NumMovies, "number of movies to generate")
		actors       = flag.Int("actors", cfg.MaxActors, "maximum number of distinct actors")
		castMin      = flag.Int("cast-min", cfg.CastMin, "minimum cast size per movie")
		castMax      = flag.Int("cast-max", cfg.CastMax, "maximum cast size per movie")
		recastChance = flag.Float64("recast-chance", cfg.RecastChance, "probability of casting an already credited actor")
		islands      = flag.Int("islands", cfg.Islands, "number of mutually unreachable groups of movies")
		seed         = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		output       = flag.String("output", "data/catalog.yaml", "path of the YAML catalog to write")
		writeStdout  = flag.Bool("stdout", false, "write the catalog to stdout instead of a file")
	)
	flag.Parse()

	genCfg := generator.Config{
		NumMovies:    *movies,
		MaxActors:    *actors,
		CastMin:      *castMin,
		CastMax:      *castMax,
		RecastChance: clampProbability(*recastChance),
		Islands:      *islands,
		Seed:         *seed,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dataset, err := generator.New(genCfg).Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	if *writeStdout {
		if err := catalog.WriteDataset(os.Stdout, dataset); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write catalog to stdout: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := generator.WriteDataset(dataset, *output); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write catalog: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Generated %d movies into %s\n", len(dataset.Movies), *output)
}

func clampProbability(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
