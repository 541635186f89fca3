package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bestsellers/internal/config"
	"github.com/mrlokans/bestsellers/internal/nyt"
)

type fakeProvider struct {
	calls atomic.Int32
	delay time.Duration
	err   error
	dates sync.Map
}

func (f *fakeProvider) FullOverview(_ context.Context, publishedDate string) ([]nyt.List, error) {
	f.calls.Add(1)
	f.dates.Store(publishedDate, true)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return sampleLists(), nil
}

func sampleLists() []nyt.List {
	return []nyt.List{{
		ListID:      704,
		DisplayName: "Combined Print & E-Book Fiction",
		Books:       []nyt.ListBook{{Rank: 1, Title: "FAIRY TALE", PrimaryISBN10: "1668002175"}},
	}}
}

// blockingProvider holds every fetch until release is closed or the fetch
// context ends.
type blockingProvider struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func newBlockingProvider() *blockingProvider {
	return &blockingProvider{started: make(chan struct{}), release: make(chan struct{})}
}

func (p *blockingProvider) FullOverview(ctx context.Context, _ string) ([]nyt.List, error) {
	if p.calls.Add(1) == 1 {
		close(p.started)
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.release:
		return sampleLists(), nil
	}
}

func newTestCache(t *testing.T, provider OverviewProvider, ttl time.Duration) *Cache {
	t.Helper()
	c, err := New(provider, config.Cache{Type: config.CacheTypeMemory, TTL: ttl})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

var sunday = time.Date(2022, time.September, 18, 15, 4, 5, 0, time.UTC)

func TestKey(t *testing.T) {
	assert.Equal(t, "2022-09-18", Key(sunday))
	assert.Equal(t, "2022-01-02", Key(time.Date(2022, time.January, 2, 0, 0, 0, 0, time.UTC)))
}

func TestWeeklyOverview_CachesPerDay(t *testing.T) {
	provider := &fakeProvider{}
	c := newTestCache(t, provider, time.Hour)
	ctx := context.Background()

	first, err := c.WeeklyOverview(ctx, sunday)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := c.WeeklyOverview(ctx, sunday.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.Equal(t, int32(1), provider.calls.Load())
	_, asked := provider.dates.Load("2022-09-18")
	assert.True(t, asked, "provider receives the formatted date")

	assert.Equal(t, Stats{Hits: 1, Misses: 1}, c.Stats())
}

func TestWeeklyOverview_DifferentDaysAreSeparate(t *testing.T) {
	provider := &fakeProvider{}
	c := newTestCache(t, provider, time.Hour)
	ctx := context.Background()

	_, err := c.WeeklyOverview(ctx, sunday)
	require.NoError(t, err)
	_, err = c.WeeklyOverview(ctx, sunday.AddDate(0, 0, 1))
	require.NoError(t, err)

	assert.Equal(t, int32(2), provider.calls.Load())
}

func TestWeeklyOverview_Expires(t *testing.T) {
	provider := &fakeProvider{}
	c := newTestCache(t, provider, 30*time.Millisecond)
	ctx := context.Background()

	_, err := c.WeeklyOverview(ctx, sunday)
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)

	_, err = c.WeeklyOverview(ctx, sunday)
	require.NoError(t, err)
	assert.Equal(t, int32(2), provider.calls.Load())
}

func TestWeeklyOverview_FailureIsNotCached(t *testing.T) {
	upstream := errors.New("upstream down")
	provider := &fakeProvider{err: upstream}
	c := newTestCache(t, provider, time.Hour)
	ctx := context.Background()

	_, err := c.WeeklyOverview(ctx, sunday)
	assert.ErrorIs(t, err, upstream)

	provider.err = nil
	lists, err := c.WeeklyOverview(ctx, sunday)
	require.NoError(t, err)
	assert.Len(t, lists, 1)
	assert.Equal(t, int32(2), provider.calls.Load())
}

func TestWeeklyOverview_ConcurrentMissesShareFetch(t *testing.T) {
	provider := &fakeProvider{delay: 100 * time.Millisecond}
	c := newTestCache(t, provider, time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lists, err := c.WeeklyOverview(context.Background(), sunday)
			assert.NoError(t, err)
			assert.Len(t, lists, 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), provider.calls.Load())
}

func TestNew_UnknownType(t *testing.T) {
	_, err := New(&fakeProvider{}, config.Cache{Type: "memcached"})
	assert.Error(t, err)
}

func TestWeeklyOverview_CancelledCallerDoesNotFailOthers(t *testing.T) {
	provider := newBlockingProvider()
	c := newTestCache(t, provider, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	firstErr := make(chan error, 1)
	go func() {
		_, err := c.WeeklyOverview(ctx, sunday)
		firstErr <- err
	}()
	<-provider.started

	type result struct {
		lists []nyt.List
		err   error
	}
	second := make(chan result, 1)
	go func() {
		lists, err := c.WeeklyOverview(context.Background(), sunday)
		second <- result{lists, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller is still waiting")
	}

	close(provider.release)
	select {
	case res := <-second:
		require.NoError(t, res.err)
		assert.Len(t, res.lists, 1)
	case <-time.After(time.Second):
		t.Fatal("second caller never got the overview")
	}

	lists, err := c.WeeklyOverview(context.Background(), sunday)
	require.NoError(t, err)
	assert.Len(t, lists, 1)
	assert.Equal(t, int32(1), provider.calls.Load())
}

func TestWeeklyOverview_FetchOutlivesOnlyCaller(t *testing.T) {
	provider := newBlockingProvider()
	c := newTestCache(t, provider, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.WeeklyOverview(ctx, sunday)
		done <- err
	}()
	<-provider.started
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	close(provider.release)
	require.Eventually(t, func() bool {
		lists, err := c.store.Get(context.Background(), Key(sunday))
		return err == nil && len(lists) == 1
	}, time.Second, 10*time.Millisecond)

	_, err := c.WeeklyOverview(context.Background(), sunday)
	require.NoError(t, err)
	assert.Equal(t, int32(1), provider.calls.Load())
}
