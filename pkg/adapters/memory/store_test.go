package memory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mindshifting/mindshift/pkg/adapters/memory"
	"github.com/mindshifting/mindshift/pkg/domain"
	"github.com/mindshifting/mindshift/pkg/ports"
)

func TestStore_Contract(t *testing.T) {
	ports.RunSessionStoreContract(t, memory.NewStore())
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state := domain.NewState("shared", "user-1")
			require.NoError(t, store.Save(ctx, "shared", state))
			_, _ = store.Load(ctx, "shared")
			_, _ = store.List(ctx)
		}()
	}
	wg.Wait()

	loaded, err := store.Load(ctx, "shared")
	require.NoError(t, err)
	require.Equal(t, "shared", loaded.SessionID)
}
