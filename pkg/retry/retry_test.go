package retry

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pomkit/pomkit/pkg/config"
)

var errFlaky = errors.New("flaky")

func TestRetry(t *testing.T) {
	a := New(2)

	assert.True(t, a.Retry())
	assert.True(t, a.Retry())
	assert.False(t, a.Retry())
	assert.False(t, a.Retry())
	assert.Equal(t, 2, a.Retries())
	assert.Equal(t, 2, a.Max())
}

func TestNewClampsNegative(t *testing.T) {
	a := New(-3)
	assert.Equal(t, 0, a.Max())
	assert.False(t, a.Retry())
}

func TestFromConfig(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"configured", "3", 3},
		{"missing", "", DefaultMaxRetries},
		{"malformed", "twice", DefaultMaxRetries},
		{"zero", "0", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := config.NewMapSource(map[string]string{config.KeyRetryCount: tt.value})
			assert.Equal(t, tt.want, FromConfig(src).Max())
		})
	}
}

func TestRun(t *testing.T) {
	t.Run("passes first time", func(t *testing.T) {
		calls := 0
		err := New(1).Run(func(int) error {
			calls++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("passes on retry", func(t *testing.T) {
		var attempts []int
		a := New(1)
		err := a.Run(func(attempt int) error {
			attempts = append(attempts, attempt)
			if attempt == 1 {
				return errFlaky
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, attempts)
		assert.Equal(t, 1, a.Retries())
	})

	t.Run("gives up", func(t *testing.T) {
		calls := 0
		err := New(2).Run(func(int) error {
			calls++
			return errFlaky
		})
		assert.ErrorIs(t, err, errFlaky)
		assert.Contains(t, err.Error(), "failed after 3 attempts")
		assert.Equal(t, 3, calls)
	})

	t.Run("no retries", func(t *testing.T) {
		err := New(0).Run(func(int) error { return errFlaky })
		assert.Equal(t, errFlaky, err)
	})
}

func TestRetryConcurrent(t *testing.T) {
	a := New(5)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if a.Retry() {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, granted)
}
