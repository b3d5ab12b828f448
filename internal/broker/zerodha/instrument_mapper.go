package zerodha

import (
	"sync"
)

// instrumentMapper manages bidirectional mapping between symbols and tokens
type instrumentMapper struct {
	symbolToToken map[string]int
	tokenToSymbol map[int]string
	mu            sync.RWMutex
}

// newInstrumentMapper creates a mapper preloaded with configured tokens
func newInstrumentMapper(tokens map[string]int) *instrumentMapper {
	im := &instrumentMapper{
		symbolToToken: make(map[string]int),
		tokenToSymbol: make(map[int]string),
	}
	for symbol, token := range tokens {
		im.addMapping(symbol, token)
	}
	return im
}

// addMapping adds a symbol-token mapping
func (im *instrumentMapper) addMapping(symbol string, token int) {
	im.mu.Lock()
	defer im.mu.Unlock()

	im.symbolToToken[symbol] = token
	im.tokenToSymbol[token] = symbol
}

// getToken retrieves the token for a symbol
func (im *instrumentMapper) getToken(symbol string) (int, bool) {
	im.mu.RLock()
	defer im.mu.RUnlock()

	token, exists := im.symbolToToken[symbol]
	return token, exists
}

// getSymbol retrieves the symbol for a token
func (im *instrumentMapper) getSymbol(token int) string {
	im.mu.RLock()
	defer im.mu.RUnlock()

	return im.tokenToSymbol[token]
}
