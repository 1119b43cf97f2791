package data

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	calls map[string]int
	err   error
}

func (s *countingSource) Fetch(_ context.Context, name string) ([]byte, error) {
	if s.calls == nil {
		s.calls = map[string]int{}
	}
	s.calls[name]++
	if s.err != nil {
		return nil, s.err
	}
	return []byte("body:" + name), nil
}

func TestMemoryStore_TTL(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := NewMemoryStore(time.Minute, clock)
	ctx := context.Background()

	store.Set(ctx, "links.csv", []byte("x"))
	v, ok := store.Get(ctx, "links.csv")
	require.True(t, ok)
	assert.Equal(t, []byte("x"), v)

	clock.Advance(59 * time.Second)
	_, ok = store.Get(ctx, "links.csv")
	assert.True(t, ok)

	clock.Advance(2 * time.Second)
	_, ok = store.Get(ctx, "links.csv")
	assert.False(t, ok)
}

func TestMemoryStore_Sweep(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := NewMemoryStore(time.Minute, clock)
	ctx := context.Background()

	store.Set(ctx, "a", []byte("1"))
	clock.Advance(30 * time.Second)
	store.Set(ctx, "b", []byte("2"))
	clock.Advance(45 * time.Second)

	assert.Equal(t, 1, store.Sweep())
	_, ok := store.Get(ctx, "b")
	assert.True(t, ok)
}

func TestMemoryStore_RunSweeperStopsOnCancel(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := NewMemoryStore(time.Minute, clock)
	store.Set(context.Background(), "a", []byte("1"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.RunSweeper(ctx, time.Minute)
		close(done)
	}()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(2 * time.Minute)
	assert.Eventually(t, func() bool {
		store.mu.RLock()
		defer store.mu.RUnlock()
		return len(store.store) == 0
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestCachedSource_HitAndMiss(t *testing.T) {
	inner := &countingSource{}
	cached := NewCachedSource(inner, NewMemoryStore(time.Minute, clockwork.NewFakeClock()))
	var lookups []string
	cached.OnLookup = func(result string) { lookups = append(lookups, result) }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		raw, err := cached.Fetch(ctx, "result.json")
		require.NoError(t, err)
		assert.Equal(t, "body:result.json", string(raw))
	}
	assert.Equal(t, 1, inner.calls["result.json"])
	assert.Equal(t, []string{"miss", "hit", "hit"}, lookups)

	cached.Invalidate(ctx)
	_, err := cached.Fetch(ctx, "result.json")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls["result.json"])
}

func TestCachedSource_ErrorsAreNotCached(t *testing.T) {
	inner := &countingSource{err: errors.New("boom")}
	cached := NewCachedSource(inner, NewMemoryStore(time.Minute, nil))

	_, err := cached.Fetch(context.Background(), "links.csv")
	require.Error(t, err)
	_, err = cached.Fetch(context.Background(), "links.csv")
	require.Error(t, err)
	assert.Equal(t, 2, inner.calls["links.csv"])
}

func TestRedisStore_UnreachableServerMisses(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	defer client.Close()
	store := NewRedisStore(client, "", time.Minute)
	assert.Equal(t, "gridmap:asset:", store.prefix)

	ctx := context.Background()
	store.Set(ctx, "links.csv", []byte("x"))
	_, ok := store.Get(ctx, "links.csv")
	assert.False(t, ok)

	inner := &countingSource{}
	cached := NewCachedSource(inner, store)
	raw, err := cached.Fetch(ctx, "links.csv")
	require.NoError(t, err)
	assert.Equal(t, "body:links.csv", string(raw))
}

// recordingHook captures command names and answers every command locally.
type recordingHook struct {
	mu   sync.Mutex
	cmds []string
}

func (h *recordingHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h *recordingHook) ProcessHook(_ redis.ProcessHook) redis.ProcessHook {
	return func(_ context.Context, cmd redis.Cmder) error {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.cmds = append(h.cmds, cmd.Name())
		return nil
	}
}

func (h *recordingHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (h *recordingHook) names() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.cmds...)
}

func TestRedisStore_SetHonoursTTL(t *testing.T) {
	tests := []struct {
		name string
		ttl  time.Duration
		want []string
	}{
		{"zero ttl disables caching", 0, nil},
		{"positive ttl sets with expiry", time.Minute, []string{"set"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
			defer client.Close()
			hook := &recordingHook{}
			client.AddHook(hook)

			NewRedisStore(client, "", tt.ttl).Set(context.Background(), "links.csv", []byte("x"))
			assert.Equal(t, tt.want, hook.names())
		})
	}
}

func TestMemoryStore_ZeroTTLDisablesCaching(t *testing.T) {
	store := NewMemoryStore(0, clockwork.NewFakeClock())
	ctx := context.Background()

	store.Set(ctx, "links.csv", []byte("x"))
	_, ok := store.Get(ctx, "links.csv")
	assert.False(t, ok)
}
