package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deskhub/internal/domain/helpdesk"
)

func newTestStore(t *testing.T, ttl time.Duration) (*ResultStore[helpdesk.Route], *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewResultStore[helpdesk.Route](client, "deskhub:helpdesk:routes:", ttl), mr
}

func TestResultStoreRoundTrip(t *testing.T) {
	store, _ := newTestStore(t, 10*time.Minute)
	ctx := context.Background()

	value := helpdesk.AggregateResult[helpdesk.Route]{
		Items: []helpdesk.Route{
			{Origin: "desk-it", Code: "net", Name: "Network"},
		},
		Errors: []helpdesk.ErrorCode{helpdesk.ErrBackendTimeout},
	}

	stored, err := store.Set(ctx, "7", value)
	require.NoError(t, err)
	assert.Equal(t, value, stored.Value)
	assert.Equal(t, 10*time.Minute, stored.TTL)
	assert.WithinDuration(t, time.Now().UTC(), stored.StoredAt, time.Second)

	got, err := store.Get(ctx, "7")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, value, got.Value)
	assert.Equal(t, stored.StoredAt.Unix(), got.StoredAt.Unix())
}

func TestResultStoreMissIsNotAnError(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)

	got, err := store.Get(context.Background(), "absent")

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResultStoreTTLExpiry(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	_, err := store.Set(ctx, "7", helpdesk.AggregateResult[helpdesk.Route]{Items: []helpdesk.Route{}})
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	got, err := store.Get(ctx, "7")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResultStoreOverwriteReplacesValue(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)
	ctx := context.Background()

	_, err := store.Set(ctx, "7", helpdesk.AggregateResult[helpdesk.Route]{
		Items: []helpdesk.Route{{Code: "old", Name: "Old"}},
	})
	require.NoError(t, err)

	replacement := helpdesk.AggregateResult[helpdesk.Route]{
		Items: []helpdesk.Route{{Code: "new", Name: "New"}},
	}
	_, err = store.Set(ctx, "7", replacement)
	require.NoError(t, err)

	got, err := store.Get(ctx, "7")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, replacement, got.Value)
}
