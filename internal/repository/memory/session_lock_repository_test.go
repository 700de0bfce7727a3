package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetReturnsSameLockPerSession(t *testing.T) {
	repo := NewSessionLockRepository()

	a := repo.Get("session-a")
	b := repo.Get("session-b")

	assert.Same(t, a, repo.Get("session-a"))
	assert.NotSame(t, a, b)
}

func TestGetIsSafeUnderConcurrency(t *testing.T) {
	repo := NewSessionLockRepository()

	locks := make([]*sync.Mutex, 50)
	var wg sync.WaitGroup
	for i := range locks {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			locks[i] = repo.Get("shared-session")
		}(i)
	}
	wg.Wait()

	for _, lock := range locks {
		assert.Same(t, locks[0], lock)
	}
}

func TestDeleteDropsLock(t *testing.T) {
	repo := NewSessionLockRepository()

	before := repo.Get("session")
	repo.Delete("session")
	after := repo.Get("session")

	assert.NotSame(t, before, after)
}
