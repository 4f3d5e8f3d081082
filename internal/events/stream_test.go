package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func receive[T any](t *testing.T, s *Subscription[T]) T {
	t.Helper()
	select {
	case v, ok := <-s.C():
		require.True(t, ok, "subscription closed unexpectedly")
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	var zero T
	return zero
}

func TestWatch_EmitsInitialAndOnChange(t *testing.T) {
	d := NewEventDispatcher(nil)
	var version atomic.Int64

	sub := Watch(context.Background(), d, []string{TableEvents}, func(context.Context) (int64, error) {
		return version.Load(), nil
	})
	defer sub.Cancel()

	assert.Equal(t, int64(0), receive(t, sub))

	version.Store(1)
	d.Dispatch(NewTableChanged(context.Background(), TableEvents, OpInsert, 1))
	assert.Equal(t, int64(1), receive(t, sub))
}

func TestWatch_IgnoresOtherTables(t *testing.T) {
	d := NewEventDispatcher(nil)
	var loads atomic.Int64

	sub := Watch(context.Background(), d, []string{TableGoals}, func(context.Context) (int64, error) {
		return loads.Add(1), nil
	})
	defer sub.Cancel()

	assert.Equal(t, int64(1), receive(t, sub))

	d.Dispatch(NewTableChanged(context.Background(), TableEvents, OpInsert, 1))

	select {
	case v := <-sub.C():
		t.Fatalf("unexpected snapshot %d", v)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWatch_CoalescesBursts(t *testing.T) {
	d := NewEventDispatcher(nil)
	var version atomic.Int64

	sub := Watch(context.Background(), d, []string{TableEvents}, func(context.Context) (int64, error) {
		return version.Load(), nil
	})
	defer sub.Cancel()

	receive(t, sub)

	for i := 1; i <= 10; i++ {
		version.Store(int64(i))
		d.Dispatch(NewTableChanged(context.Background(), TableEvents, OpInsert, int64(i)))
	}

	// At most two snapshots can be pending for a burst: the one already
	// being loaded and one coalesced reload. The last one must be current.
	var last int64
	deadline := time.After(2 * time.Second)
	for last != 10 {
		select {
		case last = <-sub.C():
		case <-deadline:
			t.Fatalf("never saw latest snapshot, last=%d", last)
		}
	}
}

func TestWatch_CancelUnregistersAndCloses(t *testing.T) {
	d := NewEventDispatcher(nil)
	sub := Watch(context.Background(), d, []string{TableEvents}, func(context.Context) (int, error) {
		return 1, nil
	})

	receive(t, sub)
	sub.Cancel()
	sub.Cancel()

	_, ok := <-sub.C()
	assert.False(t, ok)
	assert.Equal(t, 0, d.ObserverCount())
	assert.NoError(t, sub.Err())
}

func TestWatch_ContextCancellation(t *testing.T) {
	d := NewEventDispatcher(nil)
	ctx, cancel := context.WithCancel(context.Background())

	sub := Watch(ctx, d, []string{TableEvents}, func(context.Context) (int, error) {
		return 1, nil
	})
	receive(t, sub)
	cancel()

	select {
	case <-sub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("subscription did not stop after context cancellation")
	}
}

func TestWatch_LoadErrorEndsSubscription(t *testing.T) {
	d := NewEventDispatcher(nil)
	loadErr := errors.New("disk I/O error")

	sub := Watch(context.Background(), d, []string{TableEvents}, func(context.Context) (int, error) {
		return 0, loadErr
	})

	<-sub.Done()
	_, ok := <-sub.C()
	assert.False(t, ok)
	assert.ErrorIs(t, sub.Err(), loadErr)
}

func TestWatch_Resubscribe(t *testing.T) {
	d := NewEventDispatcher(nil)
	load := func(context.Context) (string, error) { return "snapshot", nil }

	first := Watch(context.Background(), d, []string{TableEvents}, load)
	assert.Equal(t, "snapshot", receive(t, first))
	first.Cancel()

	second := Watch(context.Background(), d, []string{TableEvents}, load)
	defer second.Cancel()
	assert.Equal(t, "snapshot", receive(t, second))
}

func TestMap(t *testing.T) {
	d := NewEventDispatcher(nil)
	var version atomic.Int64

	parent := Watch(context.Background(), d, []string{TableEvents}, func(context.Context) (int64, error) {
		return version.Load(), nil
	})
	doubled := Map(parent, func(v int64) int64 { return v * 2 })

	assert.Equal(t, int64(0), receive(t, doubled))

	version.Store(21)
	d.Dispatch(NewTableChanged(context.Background(), TableEvents, OpUpdate, 1))
	assert.Equal(t, int64(42), receive(t, doubled))

	doubled.Cancel()
	<-parent.Done()
	assert.Equal(t, 0, d.ObserverCount())
}
