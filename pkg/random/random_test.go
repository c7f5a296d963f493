package random

import (
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRandomString_Length(t *testing.T) {
	for _, length := range []int{1, 6, 10, 32} {
		s, err := NewRandomString(length)
		require.NoError(t, err)
		assert.Len(t, s, length)
	}
}

func TestNewRandomString_Charset(t *testing.T) {
	pattern := regexp.MustCompile(`^[a-z0-9]{6}$`)

	for i := 0; i < 100; i++ {
		s, err := NewRandomString(6)
		require.NoError(t, err)
		assert.True(t, pattern.MatchString(s), "generated code %q outside [a-z0-9]", s)
	}
}

func TestNewRandomString_Distinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		s, err := NewRandomString(6)
		require.NoError(t, err)
		seen[s] = true
	}
	// with 36^6 possible values, collisions over a thousand draws are rare
	assert.Greater(t, len(seen), 990)
}

func TestNewRandomString_Concurrent(t *testing.T) {
	const goroutines = 20
	const perGoroutine = 50

	var mu sync.Mutex
	seen := make(map[string]int)

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				s, err := NewRandomString(6)
				assert.NoError(t, err)
				mu.Lock()
				seen[s]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Greater(t, len(seen), goroutines*perGoroutine-10)
}
