package logstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFIFOLock_AdmitsInArrivalOrder(t *testing.T) {
	var l fifoLock
	ctx := context.Background()
	require.NoError(t, l.Lock(ctx))

	const n = 5
	var (
		mu    sync.Mutex
		order []int
		wg    sync.WaitGroup
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, l.Lock(ctx))
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			l.Unlock()
		}(i)
		// Queue each waiter before starting the next.
		require.Eventually(t, func() bool { return l.waiting() == i+1 }, time.Second, time.Millisecond)
	}

	l.Unlock()
	wg.Wait()
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestFIFOLock_CancelRemovesWaiter(t *testing.T) {
	var l fifoLock
	require.NoError(t, l.Lock(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- l.Lock(ctx) }()

	require.Eventually(t, func() bool { return l.waiting() == 1 }, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)
	assert.Equal(t, 0, l.waiting())

	l.Unlock()
	require.NoError(t, l.Lock(context.Background()))
	l.Unlock()
}

func TestFIFOLock_AlreadyCanceledStillAcquiresWhenFree(t *testing.T) {
	var l fifoLock
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, l.Lock(ctx))
	l.Unlock()
}

func TestFIFOLock_UnlockOfUnlockedPanics(t *testing.T) {
	var l fifoLock
	assert.Panics(t, func() { l.Unlock() })
}
