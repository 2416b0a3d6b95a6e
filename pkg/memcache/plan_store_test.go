package memcache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastPlans_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewLastPlans()

	_, ok, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	plan := []byte(`{"days":[]}`)
	require.NoError(t, s.Set(ctx, "u1", plan, time.Hour))
	plan[0] = 'X'

	got, ok, err := s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"days":[]}`, string(got))

	require.NoError(t, s.Delete(ctx, "u1"))
	_, ok, _ = s.Get(ctx, "u1")
	assert.False(t, ok)
}

func TestLastPlans_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewLastPlans()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "u1", []byte("a"), time.Minute))
	require.NoError(t, s.Set(ctx, "u2", []byte("b"), time.Hour))

	now = now.Add(2 * time.Minute)

	_, ok, _ := s.Get(ctx, "u1")
	assert.False(t, ok)
	_, ok, _ = s.Get(ctx, "u2")
	assert.True(t, ok)

	now = now.Add(2 * time.Hour)
	assert.Equal(t, 1, s.Purge())
	assert.Empty(t, s.data)
}

func TestLastPlans_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := NewLastPlans()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.Set(ctx, "u", []byte("plan"), time.Minute)
		}()
		go func() {
			defer wg.Done()
			_, _, _ = s.Get(ctx, "u")
		}()
	}
	wg.Wait()

	got, ok, err := s.Get(ctx, "u")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "plan", string(got))
}

func TestNewRedisPlanStore(t *testing.T) {
	_, err := NewRedisPlanStore("not a url")
	assert.Error(t, err)

	s, err := NewRedisPlanStore("redis://localhost:6379/0")
	require.NoError(t, err)
	assert.Equal(t, "aitravel:last-plan:u1", planKey("u1"))
	assert.NoError(t, s.Close())
}
