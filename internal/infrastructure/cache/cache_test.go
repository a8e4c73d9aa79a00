package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGetCopies(t *testing.T) {
	c := New(4)
	value := []byte("abc")
	c.Put("k", value)
	value[0] = 'x'

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("abc"), got)

	got[1] = 'y'
	again, _ := c.Get("k")
	assert.Equal(t, []byte("abc"), again)
}

func TestEviction(t *testing.T) {
	c := New(2)
	c.Put("a", []byte("1"))
	c.Put("b", []byte("2"))
	c.Put("c", []byte("3"))

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestRemovePrefix(t *testing.T) {
	c := New(0)
	c.Put("sales:owner:u1", []byte("1"))
	c.Put("sales:owner:u2", []byte("2"))
	c.Put("sales:id:x", []byte("3"))
	c.Put("diaries:owner:u1", []byte("4"))

	c.RemovePrefix("sales:owner:")
	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("diaries:owner:u1")
	assert.True(t, ok)
	c.Remove("sales:id:x")
	assert.Equal(t, 1, c.Len())
}

func TestNilCacheIsSafe(t *testing.T) {
	var c *Cache
	c.Put("a", []byte("1"))
	_, ok := c.Get("a")
	assert.False(t, ok)
	c.RemovePrefix("a")
	assert.Zero(t, c.Len())
}

func TestConcurrentAccess(t *testing.T) {
	c := New(64)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("sales:owner:u%d:%d", worker, j)
				c.Put(key, []byte("v"))
				c.Get(key)
				if j%10 == 0 {
					c.RemovePrefix(fmt.Sprintf("sales:owner:u%d:", worker))
				}
			}
		}(i)
	}
	wg.Wait()

	c.RemovePrefix("sales:owner:")
	assert.Zero(t, c.Len())
}
