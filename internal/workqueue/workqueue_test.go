package workqueue_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Emeline-1/pathinfer/internal/store/memstore"
	"github.com/Emeline-1/pathinfer/internal/workqueue"
)

func TestPushDedupesPendingValue(t *testing.T) {
	ctx := context.Background()
	ms := memstore.New()
	q, err := workqueue.New(ctx, ms, "snap1", false)
	require.NoError(t, err)

	added, err := q.Push(ctx, "64500")
	require.NoError(t, err)
	require.True(t, added)

	added, err = q.Push(ctx, "64500")
	require.NoError(t, err)
	require.False(t, added)
}

func TestPopRemovesFromInFilter(t *testing.T) {
	ctx := context.Background()
	ms := memstore.New()
	q, err := workqueue.New(ctx, ms, "snap1", false)
	require.NoError(t, err)

	_, err = q.Push(ctx, "64500")
	require.NoError(t, err)

	v, ok, err := q.Pop(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "64500", v)

	added, err := q.Push(ctx, "64500")
	require.NoError(t, err)
	require.True(t, added, "value should be re-enqueueable after pop removed it from the in-filter")
}

func TestPopTimesOutOnEmptyQueue(t *testing.T) {
	ctx := context.Background()
	ms := memstore.New()
	q, err := workqueue.New(ctx, ms, "empty", false)
	require.NoError(t, err)

	_, ok, err := q.Pop(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCloseClampsNegativeListenerCounter(t *testing.T) {
	ctx := context.Background()
	ms := memstore.New()
	q, err := workqueue.New(ctx, ms, "snap1", true)
	require.NoError(t, err)

	// Stray decrements from handles that never incremented drive the shared
	// counter negative before this listener closes.
	_, err = ms.Decr(ctx, "procqueue:snap1:meta:have_listener")
	require.NoError(t, err)
	n, err := ms.Decr(ctx, "procqueue:snap1:meta:have_listener")
	require.NoError(t, err)
	require.Equal(t, int64(-1), n)

	// Close takes the counter to -2 and must clamp it back to 0.
	require.NoError(t, q.Close(ctx))
	n, err = ms.Incr(ctx, "procqueue:snap1:meta:have_listener")
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}
