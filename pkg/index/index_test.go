package index

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dexkit/pokedex-client/internal/testutil"
	"github.com/dexkit/pokedex-client/pkg/catalog"
	"github.com/dexkit/pokedex-client/pkg/client"
)

func newTestLister(t *testing.T, mock *testutil.MockCatalog) *catalog.Catalog {
	t.Helper()

	c, err := client.New(client.Config{
		BaseURL:   mock.BaseURL(),
		UserAgent: "index-test/1.0",
		Timeout:   5 * time.Second,
	})
	require.NoError(t, err)

	cat, err := catalog.New(catalog.DefaultConfig(c))
	require.NoError(t, err)
	return cat
}

func TestCache_Populate(t *testing.T) {
	mock := testutil.NewMockCatalog()
	defer mock.Close()

	idx := NewCache(0)
	assert.False(t, idx.Populated())
	assert.True(t, idx.Empty())

	idx.Populate(context.Background(), newTestLister(t, mock))

	assert.True(t, idx.Populated())
	assert.Equal(t, 3, idx.Len())
	assert.False(t, idx.Empty())
}

func TestCache_PopulateFetchesOnce(t *testing.T) {
	mock := testutil.NewMockCatalog()
	defer mock.Close()

	idx := NewCache(0)
	idx.Populate(context.Background(), newTestLister(t, mock))

	before := mock.Requests("/api/v2/pokemon")

	// Queries read the cached entries; the upstream sees no new requests.
	for i := 0; i < 10; i++ {
		idx.Search("saur")
	}

	assert.Equal(t, before, mock.Requests("/api/v2/pokemon"))
}

func TestCache_PopulateFailSoft(t *testing.T) {
	mock := testutil.NewMockCatalog()
	defer mock.Close()

	mock.Fail("/api/v2/pokemon", 503)

	idx := NewCache(0)
	idx.Populate(context.Background(), newTestLister(t, mock))

	// The failure is absorbed: the index is populated-but-empty, so search
	// degrades to browse mode instead of erroring.
	assert.True(t, idx.Populated())
	assert.True(t, idx.Empty())
	assert.Empty(t, idx.Search("bulbasaur"))
}

func TestCache_PopulateMalformedReference(t *testing.T) {
	mock := testutil.NewMockCatalog()
	defer mock.Close()

	mock.SetSpecies(testutil.MockSpecies{ID: 1, Name: "glitch"})
	mock.SetHandler("/api/v2/pokemon", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"count": 1, "results": [{"name": "glitch", "url": "https://x/pokemon/not-a-number/"}]}`))
	})

	idx := NewCache(0)
	idx.Populate(context.Background(), newTestLister(t, mock))

	assert.True(t, idx.Populated())
	assert.True(t, idx.Empty())
}

func TestCache_Invalidate(t *testing.T) {
	mock := testutil.NewMockCatalog()
	defer mock.Close()

	lister := newTestLister(t, mock)
	idx := NewCache(0)

	idx.Populate(context.Background(), lister)
	require.Equal(t, 3, idx.Len())

	idx.Invalidate()
	assert.False(t, idx.Populated())
	assert.True(t, idx.Empty())

	idx.Populate(context.Background(), lister)
	assert.Equal(t, 3, idx.Len())
}

func TestNewCache_DefaultOverFetchLimit(t *testing.T) {
	idx := NewCache(0)
	assert.Equal(t, DefaultOverFetchLimit, idx.overFetchLimit)

	idx = NewCache(500)
	assert.Equal(t, 500, idx.overFetchLimit)
}
