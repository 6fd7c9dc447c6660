package store

import (
	"sync"

	"github.com/google/btree"

	"github.com/stockd/stockd/internal/domain"
)

type entry[T any] struct {
	key string
	val T
}

// collection is an id-keyed in-memory set ordered by id. The btree keeps
// iteration (and therefore save output) deterministic. The mutex makes
// each individual call safe under concurrency; read-modify-write
// sequences and file saves are serialized one level up, by the
// warehouse service's operation lock.
type collection[T any] struct {
	kind string
	mu   sync.RWMutex
	tree *btree.BTreeG[entry[T]]
}

func newCollection[T any](kind string) *collection[T] {
	return &collection[T]{
		kind: kind,
		tree: btree.NewG[entry[T]](8, func(a, b entry[T]) bool { return a.key < b.key }),
	}
}

func (c *collection[T]) add(key string, v T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.tree.Get(entry[T]{key: key}); ok {
		return &domain.DuplicateIDError{Kind: c.kind, ID: key}
	}
	c.tree.ReplaceOrInsert(entry[T]{key: key, val: v})
	return nil
}

func (c *collection[T]) update(key string, v T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.tree.Get(entry[T]{key: key}); !ok {
		return domain.NewNotFound(c.kind, key)
	}
	c.tree.ReplaceOrInsert(entry[T]{key: key, val: v})
	return nil
}

func (c *collection[T]) delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.tree.Delete(entry[T]{key: key}); !ok {
		return domain.NewNotFound(c.kind, key)
	}
	return nil
}

func (c *collection[T]) get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.tree.Get(entry[T]{key: key})
	return e.val, ok
}

// all returns the values in ascending id order. The slice is fresh on
// every call; mutating it does not affect the collection.
func (c *collection[T]) all() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0, c.tree.Len())
	c.tree.Ascend(func(e entry[T]) bool {
		out = append(out, e.val)
		return true
	})
	return out
}

func (c *collection[T]) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tree.Len()
}

// clear drops every entry. Used by load to replace state wholesale.
func (c *collection[T]) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tree.Clear(false)
}
