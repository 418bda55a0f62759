package storage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLockerSerializes(t *testing.T) {
	locker := NewLocalLocker()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		active  int
		maxSeen int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(ctx, "schedule:1")
			if !assert.NoError(t, err) {
				return
			}
			defer unlock()

			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()
	require.Equal(t, 1, maxSeen)
}

func TestLocalLockerTimeout(t *testing.T) {
	locker := NewLocalLocker()
	unlock, err := locker.Lock(context.Background(), "k")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "k")
	require.ErrorIs(t, err, ErrLockTimeout)

	other, err := locker.Lock(context.Background(), "other")
	require.NoError(t, err)
	other()
}

func TestPageSkip(t *testing.T) {
	require.Equal(t, 0, Page{Page: 0, Limit: 10}.Skip())
	require.Equal(t, 0, Page{Page: 1, Limit: 10}.Skip())
	require.Equal(t, 20, Page{Page: 3, Limit: 10}.Skip())
}

func TestNewPageClamps(t *testing.T) {
	require.Equal(t, Page{Page: 1, Limit: DefaultPageLimit}, NewPage(0, 0))
	require.Equal(t, Page{Page: 2, Limit: MaxPageLimit}, NewPage(2, 500))
	require.Equal(t, Page{Page: 3, Limit: 5}, NewPage(3, 5))
}
