package cache

import (
	"context"
	"math"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// HotCache is an in-memory Store backed by a patricia trie with
// least-recently-used eviction once maxWords entries are held.
type HotCache struct {
	trie        *patricia.Trie
	accessTime  map[string]int64
	accessCount int64
	hits        int
	misses      int
	evictions   int
	maxWords    int
	mu          sync.Mutex
}

// NewHotCache creates a cache holding at most maxWords words.
func NewHotCache(maxWords int) *HotCache {
	if maxWords < 1 {
		maxWords = 1
	}
	return &HotCache{
		trie:       patricia.NewTrie(),
		accessTime: make(map[string]int64, maxWords),
		maxWords:   maxWords,
	}
}

// Get returns a copy of the candidates cached for word.
func (hc *HotCache) Get(_ context.Context, word string) ([]string, bool) {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	item := hc.trie.Get(patricia.Prefix(word))
	if item == nil {
		hc.misses++
		return nil, false
	}
	candidates, ok := item.([]string)
	if !ok {
		log.Errorf("Unknown item type: %T for word %s", item, word)
		hc.misses++
		return nil, false
	}
	hc.hits++
	hc.markAccessed(word)
	return append([]string(nil), candidates...), true
}

// Put stores a copy of candidates for word. Empty lists are ignored.
func (hc *HotCache) Put(_ context.Context, word string, candidates []string) {
	if word == "" || len(candidates) == 0 {
		return
	}
	hc.mu.Lock()
	defer hc.mu.Unlock()

	if _, exists := hc.accessTime[word]; !exists && len(hc.accessTime) >= hc.maxWords {
		hc.evictLRU()
	}
	hc.trie.Set(patricia.Prefix(word), append([]string(nil), candidates...))
	hc.markAccessed(word)
}

// Len returns the number of cached words.
func (hc *HotCache) Len() int {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	return len(hc.accessTime)
}

// Stats returns hit, miss and size counters.
func (hc *HotCache) Stats() map[string]int {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	return map[string]int{
		"hotCacheWords":     len(hc.accessTime),
		"maxHotWords":       hc.maxWords,
		"hotCacheHits":      hc.hits,
		"hotCacheMisses":    hc.misses,
		"hotCacheEvictions": hc.evictions,
	}
}

func (hc *HotCache) markAccessed(word string) {
	hc.accessCount++
	hc.accessTime[word] = hc.accessCount
}

func (hc *HotCache) evictLRU() {
	var oldestWord string
	var oldestTime int64 = math.MaxInt64

	for word, accessTime := range hc.accessTime {
		if accessTime < oldestTime {
			oldestTime = accessTime
			oldestWord = word
		}
	}

	if oldestWord != "" {
		hc.trie.Delete(patricia.Prefix(oldestWord))
		delete(hc.accessTime, oldestWord)
		hc.evictions++
		log.Debugf("Evicted word '%s' from hot cache", oldestWord)
	}
}
