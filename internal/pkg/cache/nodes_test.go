package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FredHutch/slurm-node-dashboard/internal/pkg/client/slurmrest/model"
)

type stubFetcher struct {
	calls      atomic.Int32
	GetNodesFn func(ctx context.Context) (model.Nodes, error)
}

func (s *stubFetcher) GetNodes(ctx context.Context) (model.Nodes, error) {
	s.calls.Add(1)
	return s.GetNodesFn(ctx)
}

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

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func twoNodes(ctx context.Context) (model.Nodes, error) {
	return model.Nodes{
		{Name: "n1", State: model.StringList{"IDLE"}},
		{Name: "", Hostname: "anonymous"},
		{Name: "n2", State: model.StringList{"ALLOCATED", "DRAIN"}},
	}, nil
}

func TestGetOrRefreshWithinTTL(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	f := &stubFetcher{GetNodesFn: twoNodes}
	c := New(f, DefaultTTL, discard(), WithClock(clock.Now))

	first := c.GetOrRefresh(context.Background())
	require.EqualValues(t, 1, f.calls.Load())
	assert.Equal(t, []string{"n1", "n2"}, first.Names)
	assert.Len(t, first.Nodes, 3)

	for i := 0; i < 5; i++ {
		clock.Advance(20 * time.Second)
		again := c.GetOrRefresh(context.Background())
		assert.Equal(t, first, again)
	}
	assert.EqualValues(t, 1, f.calls.Load())
}

func TestGetOrRefreshAfterTTL(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	f := &stubFetcher{GetNodesFn: twoNodes}
	c := New(f, DefaultTTL, discard(), WithClock(clock.Now))

	c.GetOrRefresh(context.Background())
	clock.Advance(DefaultTTL)
	s := c.GetOrRefresh(context.Background())
	assert.EqualValues(t, 2, f.calls.Load())
	assert.Equal(t, clock.Now(), s.Timestamp)
}

func TestInvalidate(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	f := &stubFetcher{GetNodesFn: twoNodes}
	c := New(f, DefaultTTL, discard(), WithClock(clock.Now))

	c.GetOrRefresh(context.Background())
	c.Invalidate()
	_, fresh := c.Fresh()
	assert.False(t, fresh)

	c.GetOrRefresh(context.Background())
	assert.EqualValues(t, 2, f.calls.Load())
	c.GetOrRefresh(context.Background())
	assert.EqualValues(t, 2, f.calls.Load())
}

func TestRefreshFailureReturnsEmpty(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	fail := false
	f := &stubFetcher{GetNodesFn: func(ctx context.Context) (model.Nodes, error) {
		if fail {
			return nil, errors.New("connection refused")
		}
		return twoNodes(ctx)
	}}
	c := New(f, DefaultTTL, discard(), WithClock(clock.Now))

	c.GetOrRefresh(context.Background())
	clock.Advance(3 * time.Minute)
	fail = true

	s := c.GetOrRefresh(context.Background())
	assert.Empty(t, s.Nodes)
	assert.NotNil(t, s.Nodes)
	assert.Empty(t, s.Names)
	assert.Equal(t, clock.Now(), s.Timestamp)

	// 失败不会覆盖缓存, 也不会被当作新鲜数据
	s = c.GetOrRefresh(context.Background())
	assert.Empty(t, s.Nodes)
	assert.EqualValues(t, 3, f.calls.Load())

	fail = false
	s = c.GetOrRefresh(context.Background())
	assert.Len(t, s.Nodes, 3)
}

func TestEmptyListIsNeverFresh(t *testing.T) {
	f := &stubFetcher{GetNodesFn: func(ctx context.Context) (model.Nodes, error) {
		return model.Nodes{}, nil
	}}
	c := New(f, DefaultTTL, discard())

	c.GetOrRefresh(context.Background())
	c.GetOrRefresh(context.Background())
	assert.EqualValues(t, 2, f.calls.Load())
}

func TestSingleFlightCoalescesRefresh(t *testing.T) {
	release := make(chan struct{})
	f := &stubFetcher{GetNodesFn: func(ctx context.Context) (model.Nodes, error) {
		<-release
		return twoNodes(ctx)
	}}
	c := New(f, DefaultTTL, discard(), WithSingleFlight(true))

	var wg sync.WaitGroup
	results := make([]Snapshot, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.GetOrRefresh(context.Background())
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, f.calls.Load())
	for _, r := range results {
		assert.Equal(t, []string{"n1", "n2"}, r.Names)
	}
}

func TestSingleFlightIgnoresCallerCancellation(t *testing.T) {
	f := &stubFetcher{GetNodesFn: func(ctx context.Context) (model.Nodes, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return twoNodes(ctx)
	}}
	c := New(f, DefaultTTL, discard(), WithSingleFlight(true))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := c.GetOrRefresh(ctx)
	assert.Equal(t, []string{"n1", "n2"}, s.Names)

	_, ok := c.Fresh()
	assert.True(t, ok)
}
