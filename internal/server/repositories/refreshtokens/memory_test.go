package refreshtokens

import (
	"context"
	"sync"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	rt, err := r.Create(ctx, newToken("u1", "a"))
	require.NoError(t, err)
	assert.NotEmpty(t, rt.ID)

	got, err := r.Find(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)

	n, err := r.Delete(ctx, "a")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = r.Delete(ctx, "a")
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	_, err = r.Find(ctx, "a")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemoryRepository_DeleteByUserID(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	for _, tok := range []string{"a", "b", "c"} {
		_, err := r.Create(ctx, newToken("u1", tok))
		require.NoError(t, err)
	}
	_, err := r.Create(ctx, newToken("u2", "d"))
	require.NoError(t, err)

	n, err := r.DeleteByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	assert.Equal(t, 1, r.Len())

	n, err = r.DeleteByUserID(ctx, "nobody")
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestMemoryRepository_Rotate(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	_, err := r.Create(ctx, newToken("u1", "old"))
	require.NoError(t, err)

	_, err = r.Rotate(ctx, "old", newToken("u1", "new"))
	require.NoError(t, err)

	_, err = r.Find(ctx, "old")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = r.Find(ctx, "new")
	assert.NoError(t, err)

	_, err = r.Rotate(ctx, "old", newToken("u1", "newer"))
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = r.Find(ctx, "newer")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemoryRepository_ConcurrentRotateSingleWinner(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	_, err := r.Create(ctx, newToken("u1", "old"))
	require.NoError(t, err)

	const workers = 16
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := r.Rotate(ctx, "old", newToken("u1", string(rune('a'+i)))); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, r.Len())
}
