package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/use-agent/deckscope/models"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newFake() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func deck(name string) *models.AverageDeckResult {
	return &models.AverageDeckResult{CommanderName: name, Bracket: "core"}
}

func TestCache_ExpiresAfterTTL(t *testing.T) {
	clock := newFake()
	c := New(0, 0, WithClock(clock.Now))
	key := Key("atraxa-praetors-voice", "core")

	c.Set(key, deck("Atraxa"))

	clock.Advance(14*time.Minute + 59*time.Second)
	got, ok := c.Get(key)
	require.True(t, ok)
	require.Equal(t, "Atraxa", got.CommanderName)

	clock.Advance(time.Second)
	_, ok = c.Get(key)
	require.False(t, ok, "entry should expire at exactly the TTL")
	require.Equal(t, 0, c.Len(), "expired entry is dropped on read")
}

func TestCache_SetRefreshesExpiry(t *testing.T) {
	clock := newFake()
	c := New(time.Minute, 0, WithClock(clock.Now))

	c.Set("k", deck("first"))
	clock.Advance(50 * time.Second)
	c.Set("k", deck("second"))
	clock.Advance(50 * time.Second)

	got, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, "second", got.CommanderName)
}

func TestCache_EvictsAtCapacity(t *testing.T) {
	c := New(time.Hour, 3)
	for i := 0; i < 10; i++ {
		c.Set(fmt.Sprintf("k%d", i), deck("x"))
		require.LessOrEqual(t, c.Len(), 3)
	}
	_, ok := c.Get("k9")
	require.True(t, ok, "the newest entry always survives")

	// Overwriting an existing key never evicts.
	c.Set("k9", deck("y"))
	require.Equal(t, 3, c.Len())
}

func TestCache_Purge(t *testing.T) {
	clock := newFake()
	c := New(time.Minute, 0, WithClock(clock.Now))
	c.Set("old", deck("old"))
	clock.Advance(2 * time.Minute)
	c.Set("new", deck("new"))

	require.Equal(t, 1, c.Purge())
	require.Equal(t, 1, c.Len())
	_, ok := c.Get("new")
	require.True(t, ok)
}

func TestCache_CleanupLoopStops(t *testing.T) {
	clock := newFake()
	c := New(time.Minute, 0, WithClock(clock.Now), WithCleanupInterval(5*time.Millisecond))
	c.Set("k", deck("k"))
	clock.Advance(time.Hour)

	require.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
	c.Stop()
	c.Stop()
}

func TestKey_CaseInsensitive(t *testing.T) {
	require.Equal(t, Key("Atraxa", "CORE"), Key("atraxa", "core"))
	require.NotEqual(t, Key("atraxa", "core"), Key("atraxa", "core/budget"))
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New(time.Minute, 16)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", (g*7+i)%32)
				c.Set(key, deck(key))
				c.Get(key)
				if i%50 == 0 {
					c.Purge()
				}
			}
		}(g)
	}
	wg.Wait()
	require.LessOrEqual(t, c.Len(), 16)
}
