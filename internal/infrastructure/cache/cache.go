package cache

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSize は CACHE_SIZE 未指定時のエントリ上限。
const DefaultSize = 512

// Cache はストアから最後に読めたドキュメントを BSON バイト列で保持するローカルキャッシュ。
// ストアへ到達できないときの読み取りフォールバックに使う。並行利用してよい。
type Cache struct {
	entries *lru.Cache[string, []byte]
}

// New は size 件まで保持するキャッシュを返す。size が 0 以下なら DefaultSize。
func New(size int) *Cache {
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.New[string, []byte](size)
	if err != nil {
		// size > 0 なので到達しない
		panic(err)
	}
	return &Cache{entries: entries}
}

// Get は key のバイト列のコピーを返す。
func (c *Cache) Get(key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	value, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	return append([]byte(nil), value...), true
}

// Put は value のコピーを key に保存する。
func (c *Cache) Put(key string, value []byte) {
	if c == nil {
		return
	}
	c.entries.Add(key, append([]byte(nil), value...))
}

// Remove は key を削除する。
func (c *Cache) Remove(key string) {
	if c == nil {
		return
	}
	c.entries.Remove(key)
}

// RemovePrefix は prefix で始まるキーをまとめて削除する。走査中に追加されたキーは残り得る。
func (c *Cache) RemovePrefix(prefix string) {
	if c == nil {
		return
	}
	for _, key := range c.entries.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.entries.Remove(key)
		}
	}
}

// Len は保持件数を返す。
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}
