// Copyright 2026 The rasdaman WCPS Authors
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

package service

import (
	"encoding/hex"
	"sync"

	"golang.org/x/crypto/blake2b"

	"github.com/rasdaman/wcps/compr"
)

// Fingerprint identifies the text of a query.
type Fingerprint [blake2b.Size256]byte

// QueryFingerprint returns the blake2b-256
// hash of the query text.
func QueryFingerprint(query string) Fingerprint {
	return blake2b.Sum256([]byte(query))
}

func (f Fingerprint) String() string { return hex.EncodeToString(f[:]) }

// Cache is a bounded in-memory cache of query
// results keyed by Fingerprint. Bodies are kept
// zstd-compressed. When the cache is full the
// oldest entry is evicted.
type Cache struct {
	lock    sync.Mutex
	max     int
	entries map[Fingerprint]cacheEntry
	order   []Fingerprint
}

type cacheEntry struct {
	contentType string
	body        []byte
}

// NewCache returns a Cache holding up to
// max entries. A max <= 0 returns nil,
// which disables caching.
func NewCache(max int) *Cache {
	if max <= 0 {
		return nil
	}
	return &Cache{
		max:     max,
		entries: make(map[Fingerprint]cacheEntry, max),
	}
}

// Get returns the content type and body
// stored for fp.
func (c *Cache) Get(fp Fingerprint) (string, []byte, bool) {
	c.lock.Lock()
	ent, ok := c.entries[fp]
	c.lock.Unlock()
	if !ok {
		return "", nil, false
	}
	body, err := compr.DecodeZstd(ent.body, nil)
	if err != nil {
		c.forget(fp)
		return "", nil, false
	}
	return ent.contentType, body, true
}

// forget drops fp from both the entries
// and the eviction order.
func (c *Cache) forget(fp Fingerprint) {
	c.lock.Lock()
	defer c.lock.Unlock()
	delete(c.entries, fp)
	kept := c.order[:0]
	for _, x := range c.order {
		if x != fp {
			kept = append(kept, x)
		}
	}
	c.order = kept
}

// Put stores a result for fp.
func (c *Cache) Put(fp Fingerprint, contentType string, body []byte) {
	packed := compr.EncodeZstd(body, nil)
	c.lock.Lock()
	defer c.lock.Unlock()
	if _, ok := c.entries[fp]; !ok {
		c.order = append(c.order, fp)
	}
	c.entries[fp] = cacheEntry{contentType: contentType, body: packed}
	for len(c.entries) > c.max && len(c.order) > 0 {
		delete(c.entries, c.order[0])
		c.order = c.order[1:]
	}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return len(c.entries)
}
