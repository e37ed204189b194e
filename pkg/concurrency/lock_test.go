package concurrency

import (
	"fmt"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type KeyedMutexTestSuite struct {
	suite.Suite
	locks *KeyedMutex
}

func (suite *KeyedMutexTestSuite) SetupTest() {
	suite.locks = NewKeyedMutex()
}

func (suite *KeyedMutexTestSuite) TestNewKeyedMutex() {
	locks := NewKeyedMutex()

	assert.NotNil(suite.T(), locks)
	assert.NotNil(suite.T(), locks.locks)
	assert.Equal(suite.T(), 0, locks.Len())
}

func (suite *KeyedMutexTestSuite) TestLockUnlockReleasesKey() {
	key := "[DEFAULT]"

	suite.locks.Lock(key)
	assert.Equal(suite.T(), 1, suite.locks.Len())

	suite.locks.Unlock(key)
	assert.Equal(suite.T(), 0, suite.locks.Len())
}

func (suite *KeyedMutexTestSuite) TestUnlockNonexistentKey() {
	assert.NotPanics(suite.T(), func() {
		suite.locks.Unlock("nonexistent-key")
	})
	assert.Equal(suite.T(), 0, suite.locks.Len())
}

func (suite *KeyedMutexTestSuite) TestMultipleKeys() {
	keys := []string{"key1", "key2", "key3"}

	for _, key := range keys {
		suite.locks.Lock(key)
	}
	assert.Equal(suite.T(), len(keys), suite.locks.Len())

	for _, key := range keys {
		suite.locks.Unlock(key)
	}
	assert.Equal(suite.T(), 0, suite.locks.Len())
}

func (suite *KeyedMutexTestSuite) TestMutualExclusion() {
	key := "exclusion-key"
	counter := 0
	numGoroutines := 50
	incrementsPerGoroutine := 100
	var wg sync.WaitGroup

	for range numGoroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range incrementsPerGoroutine {
				suite.locks.Lock(key)
				temp := counter
				runtime.Gosched()
				temp++
				counter = temp
				suite.locks.Unlock(key)
			}
		}()
	}

	wg.Wait()

	assert.Equal(suite.T(), numGoroutines*incrementsPerGoroutine, counter)
	assert.Equal(suite.T(), 0, suite.locks.Len(), "no key should remain after all holders release")
}

func (suite *KeyedMutexTestSuite) TestDifferentKeysNoBlocking() {
	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		suite.locks.Lock("key1")
		close(locked)
		<-release
		suite.locks.Unlock("key1")
	}()

	<-locked

	go func() {
		suite.locks.Lock("key2")
		suite.locks.Unlock("key2")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		suite.T().Fatal("key2 was blocked by key1")
	}

	close(release)
}

func (suite *KeyedMutexTestSuite) TestSameKeyBlocking() {
	key := "blocking-key"
	acquired := make(chan struct{})

	suite.locks.Lock(key)

	go func() {
		suite.locks.Lock(key)
		close(acquired)
		suite.locks.Unlock(key)
	}()

	select {
	case <-acquired:
		suite.T().Fatal("second holder acquired a key that was still locked")
	case <-time.After(50 * time.Millisecond):
	}

	// the waiter keeps the key alive
	assert.Equal(suite.T(), 1, suite.locks.Len())

	suite.locks.Unlock(key)

	select {
	case <-acquired:
	case <-time.After(time.Second):
		suite.T().Fatal("waiter never acquired the released key")
	}
}

func (suite *KeyedMutexTestSuite) TestKeysAreReclaimed() {
	numKeys := 1000
	for i := range numKeys {
		key := fmt.Sprintf("app-%d", i)
		suite.locks.Lock(key)
		suite.locks.Unlock(key)
	}

	assert.Equal(suite.T(), 0, suite.locks.Len())
}

func (suite *KeyedMutexTestSuite) TestConcurrentDistinctKeys() {
	numGoroutines := 100
	operationsPerGoroutine := 10
	var wg sync.WaitGroup

	for i := range numGoroutines {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := range operationsPerGoroutine {
				key := fmt.Sprintf("goroutine-%d-op-%d", id, j)
				suite.locks.Lock(key)
				time.Sleep(time.Microsecond)
				suite.locks.Unlock(key)
			}
		}(i)
	}

	wg.Wait()

	assert.Equal(suite.T(), 0, suite.locks.Len())
}

func TestKeyedMutexTestSuite(t *testing.T) {
	suite.Run(t, new(KeyedMutexTestSuite))
}

func TestKeyedMutex_EdgeCases(t *testing.T) {
	locks := NewKeyedMutex()

	t.Run("Empty key", func(t *testing.T) {
		assert.NotPanics(t, func() {
			locks.Lock("")
			locks.Unlock("")
		})
	})

	t.Run("Unicode keys", func(t *testing.T) {
		assert.NotPanics(t, func() {
			locks.Lock("测试-🔒-мютекс")
			locks.Unlock("测试-🔒-мютекс")
		})
	})
}

func TestKeyedMutex_StressTest(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping stress test in short mode")
	}

	locks := NewKeyedMutex()
	numGoroutines := 200
	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := range numGoroutines {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					key := fmt.Sprintf("stress-key-%d", id%10)
					locks.Lock(key)
					time.Sleep(time.Microsecond)
					locks.Unlock(key)
				}
			}
		}(i)
	}

	time.Sleep(500 * time.Millisecond)
	close(stop)
	wg.Wait()

	assert.Equal(t, 0, locks.Len())
}
