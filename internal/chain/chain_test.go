package chain

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consentvault/consent-keeper/internal/logger"
	"github.com/consentvault/consent-keeper/models"
)

func newTestChain(t *testing.T) *Chain {
	t.Helper()

	c, err := New(filepath.Join(t.TempDir(), "chain.json"), logger.Nop())
	require.NoError(t, err)
	return c
}

func TestNew_WritesGenesis(t *testing.T) {
	c := newTestChain(t)

	head, err := c.Head(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(0), head.Index)
	assert.Empty(t, head.PrevHash)
	assert.Equal(t, "genesis", head.Data["type"])
	assert.NotEmpty(t, head.Hash)
}

func TestNew_ReopensExistingChain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chain.json")

	c, err := New(path, logger.Nop())
	require.NoError(t, err)

	entry, err := c.Append(context.Background(), map[string]any{"submission_id": "s-1"})
	require.NoError(t, err)

	reopened, err := New(path, logger.Nop())
	require.NoError(t, err)

	head, err := reopened.Head(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entry.Hash, head.Hash)
	assert.Equal(t, int64(1), head.Index)
}

func TestAppend_LinksEntries(t *testing.T) {
	c := newTestChain(t)
	ctx := context.Background()

	first, err := c.Append(ctx, map[string]any{"submission_id": "s-1"})
	require.NoError(t, err)
	second, err := c.Append(ctx, map[string]any{"submission_id": "s-2"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.Index)
	assert.Equal(t, int64(2), second.Index)
	assert.Equal(t, first.Hash, second.PrevHash)

	verification, err := c.Verify(ctx, 0)
	require.NoError(t, err)
	assert.True(t, verification.Valid)
	assert.Nil(t, verification.BrokenAtIndex)
	assert.Equal(t, 3, verification.Entries)
}

func TestVerify_DetectsTampering(t *testing.T) {
	mutations := []struct {
		name   string
		mutate func(e *models.ChainEntry)
	}{
		{"data", func(e *models.ChainEntry) { e.Data["submission_id"] = "forged" }},
		{"hash", func(e *models.ChainEntry) { e.Hash = "deadbeef" + e.Hash[8:] }},
		{"prev_hash", func(e *models.ChainEntry) { e.PrevHash = "deadbeef" + e.PrevHash[8:] }},
		{"index", func(e *models.ChainEntry) { e.Index++ }},
	}

	for _, tc := range mutations {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestChain(t)
			ctx := context.Background()

			for _, id := range []string{"s-1", "s-2", "s-3"} {
				_, err := c.Append(ctx, map[string]any{"submission_id": id})
				require.NoError(t, err)
			}

			// Tamper with entry 2 directly on disk.
			entries, err := c.load()
			require.NoError(t, err)
			tc.mutate(&entries[2])
			require.NoError(t, c.persist(entries))

			verification, err := c.Verify(ctx, 0)
			require.NoError(t, err)
			assert.False(t, verification.Valid)
			require.NotNil(t, verification.BrokenAtIndex)
			assert.Equal(t, int64(2), *verification.BrokenAtIndex)
		})
	}
}

func TestVerify_FromIndexSkipsEarlierEntries(t *testing.T) {
	c := newTestChain(t)
	ctx := context.Background()

	for _, id := range []string{"s-1", "s-2"} {
		_, err := c.Append(ctx, map[string]any{"submission_id": id})
		require.NoError(t, err)
	}

	verification, err := c.Verify(ctx, 2)
	require.NoError(t, err)
	assert.True(t, verification.Valid)
	assert.Equal(t, 1, verification.Entries)
}

// Concurrent appends must produce contiguous indices and one unbroken
// linkage: no lost or duplicated index.
func TestAppend_ConcurrentAppendsStayLinked(t *testing.T) {
	c := newTestChain(t)
	ctx := context.Background()

	const n = 25

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := c.Append(ctx, map[string]any{"worker": i})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	head, err := c.Head(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(n), head.Index)

	verification, err := c.Verify(ctx, 0)
	require.NoError(t, err)
	assert.True(t, verification.Valid)
	assert.Equal(t, n+1, verification.Entries)
}
