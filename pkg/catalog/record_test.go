package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dexkit/pokedex-client/internal/testutil"
	"github.com/dexkit/pokedex-client/pkg/cache"
	"github.com/dexkit/pokedex-client/pkg/client"
)

func TestFetchPokemon_FullEnrichment(t *testing.T) {
	mock := testutil.NewMockCatalog()
	defer mock.Close()

	cat := newTestCatalog(t, mock, nil)

	p, err := cat.FetchPokemon(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, p.ID)
	assert.Equal(t, "bulbasaur", p.Name)
	assert.Equal(t, []string{"grass", "poison"}, p.Types)
	require.NotEmpty(t, p.Stats)
	assert.Equal(t, "hp", p.Stats[0].Name)

	require.Len(t, p.Abilities, 2)
	assert.Equal(t, "overgrow", p.Abilities[0].Name)
	assert.Equal(t, "Powers up grass moves in a pinch.", p.Abilities[0].Description)
	assert.Equal(t, "chlorophyll", p.Abilities[1].Name)

	require.Len(t, p.Moves, 3)
	assert.Equal(t, "tackle", p.Moves[0].Name)
	assert.Equal(t, "normal", p.Moves[0].Type)
	require.NotNil(t, p.Moves[0].Power)
	assert.Equal(t, 40, *p.Moves[0].Power)
	require.NotNil(t, p.Moves[0].Accuracy)
	assert.Equal(t, 100, *p.Moves[0].Accuracy)

	// growl has no power upstream; nil is valid data, not a sentinel.
	assert.Equal(t, "growl", p.Moves[2].Name)
	assert.Nil(t, p.Moves[2].Power)
	assert.Equal(t, "Lowers the foe's attack.", p.Moves[2].Description)
}

func TestFetchPokemon_PrimaryFailurePropagates(t *testing.T) {
	mock := testutil.NewMockCatalog()
	defer mock.Close()

	mock.Fail("/api/v2/pokemon/1", 500)

	cat := newTestCatalog(t, mock, nil)

	_, err := cat.FetchPokemon(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, client.IsUpstreamError(err))
}

func TestFetchPokemon_AbilityFailureDegradesToSentinel(t *testing.T) {
	mock := testutil.NewMockCatalog()
	defer mock.Close()

	mock.Fail("/api/v2/ability/1", 500)

	cat := newTestCatalog(t, mock, nil)

	p, err := cat.FetchPokemon(context.Background(), 1)
	require.NoError(t, err, "sub-item failure must not fail the record")

	// Bundle keeps its full count with the sentinel only on the failed entry.
	require.Len(t, p.Abilities, 2)
	assert.Equal(t, "overgrow", p.Abilities[0].Name)
	assert.Equal(t, DescriptionUnavailable, p.Abilities[0].Description)
	assert.Equal(t, "Boosts speed in sunshine.", p.Abilities[1].Description)
}

func TestFetchPokemon_MoveTimeoutDegradesToSentinel(t *testing.T) {
	mock := testutil.NewMockCatalog()
	defer mock.Close()

	mock.Delay("/api/v2/move/2", 500*time.Millisecond)

	cat := newTestCatalog(t, mock, func(cfg *Config) {
		cfg.MoveTimeout = 100 * time.Millisecond
	})

	p, err := cat.FetchPokemon(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, p.Moves, 3)

	// vine-whip (move 2) timed out: sentinel description, fallback type,
	// nil numerics.
	timedOut := p.Moves[1]
	assert.Equal(t, "vine-whip", timedOut.Name)
	assert.Equal(t, DescriptionUnavailable, timedOut.Description)
	assert.Equal(t, TypeFallback, timedOut.Type)
	assert.Nil(t, timedOut.Power)
	assert.Nil(t, timedOut.Accuracy)

	// Neighbors are unaffected.
	assert.Equal(t, "A full-body charge attack.", p.Moves[0].Description)
	assert.Equal(t, "Lowers the foe's attack.", p.Moves[2].Description)
}

func TestFetchPokemon_BundleCaps(t *testing.T) {
	mock := testutil.NewMockCatalog()
	defer mock.Close()

	abilityIDs := make([]int, 6)
	moveIDs := make([]int, 25)
	var abilities []testutil.MockAbility
	var moves []testutil.MockMove
	for i := 0; i < 6; i++ {
		abilityIDs[i] = i + 1
		abilities = append(abilities, testutil.MockAbility{
			ID: i + 1, Name: fmt.Sprintf("ability-%d", i+1), Effect: "e",
		})
	}
	for i := 0; i < 25; i++ {
		moveIDs[i] = i + 1
		moves = append(moves, testutil.MockMove{
			ID: i + 1, Name: fmt.Sprintf("move-%d", i+1), Effect: "e", Type: "normal",
		})
	}
	mock.SetAbilities(abilities...)
	mock.SetMoves(moves...)
	mock.SetSpecies(testutil.MockSpecies{
		ID: 1, Name: "loaded", Types: []string{"normal"},
		AbilityID: abilityIDs, MoveID: moveIDs,
	})

	cat := newTestCatalog(t, mock, nil)

	p, err := cat.FetchPokemon(context.Background(), 1)
	require.NoError(t, err)

	assert.Len(t, p.Abilities, 4, "bundle A is capped at 4")
	assert.Len(t, p.Moves, 20, "bundle B is capped at 20")

	// Positional order follows the record's reference order.
	assert.Equal(t, "ability-1", p.Abilities[0].Name)
	assert.Equal(t, "ability-4", p.Abilities[3].Name)
	assert.Equal(t, "move-1", p.Moves[0].Name)
	assert.Equal(t, "move-20", p.Moves[19].Name)
}

func TestFetchPokemon_CacheRoundTrip(t *testing.T) {
	mock := testutil.NewMockCatalog()
	defer mock.Close()

	cat := newTestCatalog(t, mock, func(cfg *Config) {
		cfg.Cache = cache.NewMemoryStore()
		cfg.CacheTTL = time.Minute
	})

	ctx := context.Background()

	first, err := cat.FetchPokemon(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, mock.Requests("/api/v2/pokemon/1"))

	second, err := cat.FetchPokemon(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, mock.Requests("/api/v2/pokemon/1"), "second fetch must be served from cache")
	assert.Equal(t, first, second)
}

func TestFetchPokemon_InvalidID(t *testing.T) {
	mock := testutil.NewMockCatalog()
	defer mock.Close()

	cat := newTestCatalog(t, mock, nil)

	_, err := cat.FetchPokemon(context.Background(), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id must be > 0")
}
