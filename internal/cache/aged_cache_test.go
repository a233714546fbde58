package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingClock struct {
	*ManualClock
	reads int
}

func (c *countingClock) Now() time.Time {
	c.reads++
	return c.ManualClock.Now()
}

func newTestCache(t *testing.T) (*AgedCache[string, string], *ManualClock) {
	t.Helper()
	clock := NewManualClock(time.Time{})
	return New[string, string](WithClock(clock)), clock
}

func TestAgedCache_PermanentAndExpiring(t *testing.T) {
	c, clock := newTestCache(t)

	require.NoError(t, c.Put("a", "A", 0))
	require.NoError(t, c.Put("b", "B", 50*time.Millisecond))

	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, "A", v)
	v, ok = c.Get("b")
	require.True(t, ok)
	require.Equal(t, "B", v)
	require.Equal(t, 2, c.Size())

	clock.Advance(60 * time.Millisecond)

	_, ok = c.Get("b")
	require.False(t, ok)
	v, ok = c.Get("a")
	require.True(t, ok)
	require.Equal(t, "A", v)
	require.Equal(t, 1, c.Size())
}

func TestAgedCache_DuplicateKeyRejected(t *testing.T) {
	c, clock := newTestCache(t)

	require.NoError(t, c.Put("x", "X", 10*time.Millisecond))

	err := c.Put("x", "Y", 10*time.Millisecond)
	require.ErrorIs(t, err, ErrDuplicateKey)
	var dup *DuplicateKeyError
	require.True(t, errors.As(err, &dup))
	require.Equal(t, "x", dup.Key)

	v, ok := c.Get("x")
	require.True(t, ok)
	require.Equal(t, "X", v)

	// Once the first entry has expired the pre-insert sweep removes it.
	clock.Advance(11 * time.Millisecond)
	require.NoError(t, c.Put("x", "Y", 10*time.Millisecond))
	v, ok = c.Get("x")
	require.True(t, ok)
	require.Equal(t, "Y", v)
	require.Equal(t, 1, c.Size())
}

func TestAgedCache_DuplicatePermanentKeyRejectedForever(t *testing.T) {
	c, clock := newTestCache(t)
	require.NoError(t, c.Put("p", "P", 0))

	clock.Advance(365 * 24 * time.Hour)
	require.ErrorIs(t, c.Put("p", "Q", 0), ErrDuplicateKey)

	v, ok := c.Get("p")
	require.True(t, ok)
	require.Equal(t, "P", v)
}

func TestAgedCache_NilArguments(t *testing.T) {
	c := New[*string, *string](WithClock(NewManualClock(time.Time{})))
	k, v := "k", "v"

	err := c.Put(nil, &v, 0)
	require.ErrorIs(t, err, ErrInvalidArgument)
	var invalid *InvalidArgumentError
	require.True(t, errors.As(err, &invalid))
	require.Equal(t, "key", invalid.Field)
	require.True(t, c.IsEmpty())

	err = c.Put(&k, nil, 0)
	require.ErrorIs(t, err, ErrInvalidArgument)
	require.True(t, errors.As(err, &invalid))
	require.Equal(t, "value", invalid.Field)
	require.True(t, c.IsEmpty())

	// Key is checked before value.
	err = c.Put(nil, nil, 0)
	require.True(t, errors.As(err, &invalid))
	require.Equal(t, "key", invalid.Field)

	_, ok := c.Get(nil)
	require.False(t, ok)
}

func TestAgedCache_NilInterfaceValues(t *testing.T) {
	c := New[any, any]()

	err := c.Put("k", nil, 0)
	var invalid *InvalidArgumentError
	require.True(t, errors.As(err, &invalid))
	require.Equal(t, "value", invalid.Field)

	var nilSlice []int
	require.ErrorIs(t, c.Put("k", nilSlice, 0), ErrInvalidArgument)
	require.NoError(t, c.Put("k", []int{}, 0))

	// A non-nil zero value is a valid value.
	require.NoError(t, c.Put("zero", 0, 0))
	v, ok := c.Get("zero")
	require.True(t, ok)
	require.Equal(t, 0, v)
}

func TestAgedCache_FailedPutStillSweeps(t *testing.T) {
	c, clock := newTestCache(t)
	require.NoError(t, c.Put("keep", "v", 0))
	require.NoError(t, c.Put("gone", "v", 5*time.Millisecond))
	clock.Advance(5 * time.Millisecond)

	require.ErrorIs(t, c.Put("keep", "other", 0), ErrDuplicateKey)
	require.Equal(t, 1, c.entries.Len())
}

func TestAgedCache_IsEmptySweepsButGetDoesNot(t *testing.T) {
	c, clock := newTestCache(t)
	require.True(t, c.IsEmpty())

	require.NoError(t, c.Put("k", "v", 0))
	require.False(t, c.IsEmpty())

	require.NoError(t, c.Put("e", "v", 5*time.Millisecond))
	clock.Advance(10 * time.Millisecond)

	v, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, "v", v)
	// Get only examined "k"; the expired "e" is still stored.
	require.Equal(t, 2, c.entries.Len())

	require.False(t, c.IsEmpty())
	require.Equal(t, 1, c.entries.Len())
}

func TestAgedCache_GetEvictsOnlyQueriedKey(t *testing.T) {
	c, clock := newTestCache(t)
	require.NoError(t, c.Put("a", "A", 5*time.Millisecond))
	require.NoError(t, c.Put("b", "B", 5*time.Millisecond))
	clock.Advance(5 * time.Millisecond)

	_, ok := c.Get("a")
	require.False(t, ok)
	require.Equal(t, 1, c.entries.Len())
	_, ok = c.entries.Get("b")
	require.True(t, ok)

	require.Equal(t, 0, c.Size())
}

func TestAgedCache_ExpirationBoundaryIsInclusive(t *testing.T) {
	c, clock := newTestCache(t)
	require.NoError(t, c.Put("k", "v", 100*time.Millisecond))

	clock.Advance(99 * time.Millisecond)
	_, ok := c.Get("k")
	require.True(t, ok)

	clock.Advance(time.Millisecond)
	_, ok = c.Get("k")
	require.False(t, ok)
}

func TestAgedCache_PermanentNeverExpires(t *testing.T) {
	c, clock := newTestCache(t)
	require.NoError(t, c.Put("forever", "v", 0))

	clock.Advance(100 * 365 * 24 * time.Hour)
	v, ok := c.Get("forever")
	require.True(t, ok)
	require.Equal(t, "v", v)
	require.Equal(t, 1, c.Size())
}

func TestAgedCache_SizeIsIdempotent(t *testing.T) {
	c, clock := newTestCache(t)
	for i, ttl := range []time.Duration{0, 10, 20, 30, 0} {
		require.NoError(t, c.Put(string(rune('a'+i)), "v", ttl*time.Millisecond))
	}
	clock.Advance(20 * time.Millisecond)

	first := c.Size()
	require.Equal(t, 3, first)
	require.Equal(t, first, c.Size())
	require.Equal(t, c.Size() == 0, c.IsEmpty())
}

func TestAgedCache_SweepKeepsSurvivorsRetrievable(t *testing.T) {
	c, clock := newTestCache(t)
	for i := 0; i < 100; i++ {
		ttl := time.Duration(0)
		if i%2 == 0 {
			ttl = time.Duration(i+1) * time.Millisecond
		}
		require.NoError(t, c.Put(string(rune(1000+i)), string(rune(2000+i)), ttl))
	}
	clock.Advance(50 * time.Millisecond)

	// Even keys 0..48 expired (ttl 1..49ms); even keys 50..98 and every odd key survive.
	require.Equal(t, 75, c.Size())
	for i := 0; i < 100; i++ {
		v, ok := c.Get(string(rune(1000 + i)))
		if i%2 == 0 && i < 49 {
			require.False(t, ok, "key %d", i)
			continue
		}
		require.True(t, ok, "key %d", i)
		require.Equal(t, string(rune(2000+i)), v)
	}
}

func TestAgedCache_NegativeAndSubMillisecondRetention(t *testing.T) {
	c, clock := newTestCache(t)

	require.NoError(t, c.Put("neg", "v", -time.Millisecond))
	_, ok := c.Get("neg")
	require.False(t, ok)

	require.NoError(t, c.Put("tiny", "v", time.Microsecond))
	_, ok = c.Get("tiny")
	require.True(t, ok)
	clock.Advance(time.Millisecond)
	_, ok = c.Get("tiny")
	require.False(t, ok)
}

func TestAgedCache_ClockReadOncePerCheck(t *testing.T) {
	clock := &countingClock{ManualClock: NewManualClock(time.Time{})}
	c := New[string, string](WithClock(clock))

	require.NoError(t, c.Put("p", "v", 0))
	require.Equal(t, 0, clock.reads)

	require.NoError(t, c.Put("e", "v", time.Second))
	require.Equal(t, 1, clock.reads) // creation time

	_, _ = c.Get("p")
	require.Equal(t, 1, clock.reads)
	_, _ = c.Get("e")
	require.Equal(t, 2, clock.reads)

	c.Size()
	require.Equal(t, 3, clock.reads)
}

func TestNew_NilClockUsesSystemClock(t *testing.T) {
	c := New[string, int](WithClock(nil))
	require.IsType(t, SystemClock{}, c.clock)

	require.NoError(t, c.Put("k", 1, time.Hour))
	v, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, 1, v)
}

func TestAgedCache_UnhashableKeysRejected(t *testing.T) {
	c := New[any, string]()

	err := c.Put([]int{1, 2}, "v", 0)
	require.ErrorIs(t, err, ErrInvalidArgument)
	var invalid *InvalidArgumentError
	require.True(t, errors.As(err, &invalid))
	require.Equal(t, "key", invalid.Field)

	type wrapped struct{ inner any }
	require.ErrorIs(t, c.Put(wrapped{inner: map[string]int{}}, "v", 0), ErrInvalidArgument)
	require.True(t, c.IsEmpty())

	_, ok := c.Get([]int{1, 2})
	require.False(t, ok)
	_, ok = c.Get(wrapped{inner: []string{"x"}})
	require.False(t, ok)

	require.NoError(t, c.Put([2]int{1, 2}, "array", 0))
	v, ok := c.Get([2]int{1, 2})
	require.True(t, ok)
	require.Equal(t, "array", v)
}
