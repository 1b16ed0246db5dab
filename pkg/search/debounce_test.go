package search

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncer(t *testing.T) {
	t.Run("SingleQueryPasses", func(t *testing.T) {
		d := NewDebouncer(10 * time.Millisecond)
		q, err := d.Wait(context.Background(), "s1", "  tolkien ")
		require.NoError(t, err)
		assert.Equal(t, "tolkien", q)
	})

	t.Run("BlankQueryIgnored", func(t *testing.T) {
		d := NewDebouncer(10 * time.Millisecond)
		_, err := d.Wait(context.Background(), "s1", " \t ")
		assert.ErrorIs(t, err, ErrBlankQuery)
	})

	t.Run("NewerQuerySupersedes", func(t *testing.T) {
		d := NewDebouncer(50 * time.Millisecond)

		var wg sync.WaitGroup
		var firstErr error
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, firstErr = d.Wait(context.Background(), "s1", "tol")
		}()

		time.Sleep(10 * time.Millisecond)
		q, err := d.Wait(context.Background(), "s1", "tolkien")
		wg.Wait()

		require.NoError(t, err)
		assert.Equal(t, "tolkien", q)
		assert.ErrorIs(t, firstErr, ErrSuperseded)
	})

	t.Run("KeysAreIndependent", func(t *testing.T) {
		d := NewDebouncer(20 * time.Millisecond)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i, key := range []string{"a", "b"} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, errs[i] = d.Wait(context.Background(), key, "q")
			}()
		}
		wg.Wait()

		assert.NoError(t, errs[0])
		assert.NoError(t, errs[1])
	})

	t.Run("ContextCancelled", func(t *testing.T) {
		d := NewDebouncer(time.Second)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := d.Wait(ctx, "s1", "q")
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("Forget", func(t *testing.T) {
		d := NewDebouncer(time.Second)
		done := make(chan error, 1)
		go func() {
			_, err := d.Wait(context.Background(), "s1", "q")
			done <- err
		}()

		time.Sleep(10 * time.Millisecond)
		d.Forget("s1")
		assert.ErrorIs(t, <-done, ErrSuperseded)
	})

	t.Run("DefaultDelay", func(t *testing.T) {
		assert.Equal(t, DefaultDelay, NewDebouncer(0).delay)
	})
}
