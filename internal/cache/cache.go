// Package cache holds rendered timeline pages for a short TTL window.
// Within the window repeated requests get byte-identical output even if
// the underlying data changed. A nil *Pages disables caching, which is
// how tests bypass it.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type Pages struct {
	lru *expirable.LRU[string, []byte]
}

func New(size int, ttl time.Duration) *Pages {
	if size <= 0 {
		size = 64
	}
	return &Pages{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (c *Pages) Get(key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	return c.lru.Get(key)
}

func (c *Pages) Set(key string, body []byte) {
	if c == nil {
		return
	}
	// copy: callers reuse their buffers
	b := make([]byte, len(body))
	copy(b, body)
	c.lru.Add(key, b)
}
