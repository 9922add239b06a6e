package kite

import (
	"sync"
)

// instrumentMapper caches tradingsymbol to instrument token lookups
type instrumentMapper struct {
	symbolToToken map[string]int
	loaded        bool
	mu            sync.RWMutex
}

func newInstrumentMapper() *instrumentMapper {
	return &instrumentMapper{
		symbolToToken: make(map[string]int),
	}
}

func (im *instrumentMapper) addMapping(symbol string, token int) {
	im.mu.Lock()
	defer im.mu.Unlock()

	im.symbolToToken[symbol] = token
}

// load replaces the table with a full exchange listing
func (im *instrumentMapper) load(mapping map[string]int) {
	im.mu.Lock()
	defer im.mu.Unlock()

	im.symbolToToken = mapping
	im.loaded = true
}

func (im *instrumentMapper) getToken(symbol string) (int, bool) {
	im.mu.RLock()
	defer im.mu.RUnlock()

	token, exists := im.symbolToToken[symbol]
	return token, exists
}

func (im *instrumentMapper) isLoaded() bool {
	im.mu.RLock()
	defer im.mu.RUnlock()

	return im.loaded
}
