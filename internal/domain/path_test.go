package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathSteps(t *testing.T) {
	t.Run("single movie renders title only", func(t *testing.T) {
		p := SingleMoviePath(MovieRef{ID: "1", Title: "Heat"})

		assert.Equal(t, []string{"Heat"}, p.Steps())
		assert.Equal(t, 0, p.Hops())
		assert.Equal(t, "Heat", p.String())
	})

	t.Run("hops render actor then movie", func(t *testing.T) {
		p := Path{
			Movies: []MovieRef{{ID: "m1", Title: "M1"}, {ID: "m2", Title: "M2"}, {ID: "m3", Title: "M3"}},
			Actors: []ActorRef{{ID: "a1", Name: "A1"}, {ID: "a2", Name: "A2"}},
		}

		assert.Equal(t, []string{"M1", "A1 -> M2", "A2 -> M3"}, p.Steps())
		assert.Equal(t, "M1 -> A1 -> M2 -> A2 -> M3", p.String())
		assert.Equal(t, 2, p.Hops())
		assert.Equal(t, "m1", p.Start().ID)
		assert.Equal(t, "m3", p.End().ID)
	})

	t.Run("empty path", func(t *testing.T) {
		var p Path
		assert.True(t, p.Empty())
		assert.Nil(t, p.Steps())
		assert.Equal(t, MovieRef{}, p.Start())
	})
}

func TestPathReverse(t *testing.T) {
	p := Path{
		Movies: []MovieRef{{ID: "m1", Title: "M1"}, {ID: "m2", Title: "M2"}, {ID: "m3", Title: "M3"}},
		Actors: []ActorRef{{ID: "a1", Name: "A1"}, {ID: "a2", Name: "A2"}},
	}

	rev := p.Reverse()

	assert.Equal(t, []string{"M3", "A2 -> M2", "A1 -> M1"}, rev.Steps())
	assert.Equal(t, p, rev.Reverse())
}
