package driver

import "github.com/dcpu16/toytoolkit/pkg/stack"

// sectionCache is a plain map owned by exactly one Driver instance (§5: "no
// cross-instance sharing is specified"). Snippets are values, never mutated
// after insertion (§3 "Lifecycles").
type sectionCache struct {
	entries map[uint16]cacheEntry
}

type cacheEntry struct {
	snippet stack.Program
	length  uint16
}

func newSectionCache() *sectionCache {
	return &sectionCache{entries: make(map[uint16]cacheEntry)}
}

func (c *sectionCache) get(regPC uint16) (cacheEntry, bool) {
	e, ok := c.entries[regPC]
	return e, ok
}

func (c *sectionCache) put(regPC uint16, snippet stack.Program, length uint16) {
	c.entries[regPC] = cacheEntry{snippet: snippet, length: length}
}
