package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInline_RunsImmediately(t *testing.T) {
	ran := false
	require.NoError(t, Inline{}.Post(func() { ran = true }))
	assert.True(t, ran)
}

func TestSerial_RunsInOrderOnOneGoroutine(t *testing.T) {
	s := NewSerial()
	go s.Run(context.Background())

	var (
		mu  sync.Mutex
		got []int
	)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		i := i
		require.NoError(t, s.Post(func() {
			defer wg.Done()
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		}))
	}
	wg.Wait()
	s.Close()

	require.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestSerial_CloseDrainsAndRejects(t *testing.T) {
	s := NewSerial()
	ran := 0
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Post(func() { ran++ }))
	}
	go s.Run(context.Background())
	s.Close()

	assert.Equal(t, 3, ran)
	assert.ErrorIs(t, s.Post(func() {}), ErrClosed)
}

func TestSerial_StopsOnContextCancel(t *testing.T) {
	s := NewSerial()
	ctx, cancel := context.WithCancel(context.Background())
	go s.Run(ctx)
	cancel()

	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.ErrorIs(t, s.Post(func() {}), ErrClosed)
}
