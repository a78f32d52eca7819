package iiif

import "sync"

// cell is a write-once cache for a lazily derived value. The compute
// function runs at most once per cell, which keeps first-access
// memoization correct even if node instances are ever shared between
// goroutines.
type cell[T any] struct {
	once sync.Once
	val  T
	err  error
}

func (c *cell[T]) get(compute func() (T, error)) (T, error) {
	c.once.Do(func() {
		c.val, c.err = compute()
	})
	return c.val, c.err
}
