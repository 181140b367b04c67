// Package imagecache holds resolved illustrations keyed by the literal
// sentence text, shared between the background job runner (writer) and the
// poll handler (reader).
package imagecache

import (
	gocache "github.com/patrickmn/go-cache"
)

// Entry is the recorded outcome of one illustration job. OK is false when
// the job finished without producing an image; polls render both that and
// a still-pending sentence as null.
type Entry struct {
	URL string
	OK  bool
}

// Cache is a concurrent sentence→illustration map. Entries live for the
// process lifetime; identical sentences overwrite each other, last writer
// wins.
type Cache struct {
	store *gocache.Cache
}

// New builds an empty cache with no expiration and no janitor.
func New() *Cache {
	return &Cache{store: gocache.New(gocache.NoExpiration, 0)}
}

// Put records the outcome of an illustration job, replacing any prior entry
// for the sentence.
func (c *Cache) Put(sentence, url string, ok bool) {
	c.store.Set(sentence, Entry{URL: url, OK: ok}, gocache.NoExpiration)
}

// Get reports the resolved entry for a sentence. The second return is false
// while the sentence is still pending or was never requested.
func (c *Cache) Get(sentence string) (Entry, bool) {
	v, found := c.store.Get(sentence)
	if !found {
		return Entry{}, false
	}
	return v.(Entry), true
}

// Len reports the number of resolved sentences.
func (c *Cache) Len() int {
	return c.store.ItemCount()
}
