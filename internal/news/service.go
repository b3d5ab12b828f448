package news

import (
	"context"
	"sync"
	"time"

	"stock-forecaster/internal/logger"
	"stock-forecaster/internal/types"
)

// Service provides recent headlines for a symbol with caching, so repeated
// forecast runs within the cache window do not re-scrape the same sources.
type Service struct {
	scraper *Scraper
	cache   *articleCache
	cfg     *ServiceConfig
}

// ServiceConfig configures the headline service.
type ServiceConfig struct {
	MaxArticles    int           // Maximum articles to scrape per symbol
	CacheDuration  time.Duration // How long scraped articles stay valid
	ScraperTimeout time.Duration // Timeout for scraping operations
	Enabled        bool          // Whether headline collection is enabled
}

// DefaultServiceConfig returns default configuration
func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		MaxArticles:    10,
		CacheDuration:  1 * time.Hour,
		ScraperTimeout: 30 * time.Second,
		Enabled:        true,
	}
}

// articleCache stores scraped articles temporarily
type articleCache struct {
	mu   sync.RWMutex
	data map[string]*cacheEntry
	ttl  time.Duration
}

type cacheEntry struct {
	articles  []types.NewsArticle
	timestamp time.Time
}

func newArticleCache(ttl time.Duration) *articleCache {
	cache := &articleCache{
		data: make(map[string]*cacheEntry),
		ttl:  ttl,
	}

	go cache.cleanupLoop()

	return cache
}

// get retrieves cached articles if still valid
func (c *articleCache) get(symbol string) ([]types.NewsArticle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.data[symbol]
	if !exists {
		return nil, false
	}
	if time.Since(entry.timestamp) > c.ttl {
		return nil, false
	}
	return entry.articles, true
}

func (c *articleCache) set(symbol string, articles []types.NewsArticle) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[symbol] = &cacheEntry{
		articles:  articles,
		timestamp: time.Now(),
	}
}

// cleanupLoop periodically removes expired entries
func (c *articleCache) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}

func (c *articleCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for symbol, entry := range c.data {
		if now.Sub(entry.timestamp) > c.ttl {
			delete(c.data, symbol)
		}
	}
}

// NewService creates a new headline service
func NewService(serviceCfg *ServiceConfig) *Service {
	if serviceCfg == nil {
		serviceCfg = DefaultServiceConfig()
	}

	return &Service{
		scraper: NewScraper(serviceCfg.ScraperTimeout),
		cache:   newArticleCache(serviceCfg.CacheDuration),
		cfg:     serviceCfg,
	}
}

// Headlines returns recent headline strings for a symbol, cached or fresh.
// Headline collection failures are not fatal: an empty slice is returned.
func (s *Service) Headlines(ctx context.Context, symbol string) ([]string, error) {
	if !s.cfg.Enabled {
		return nil, nil
	}

	articles, err := s.Articles(ctx, symbol)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch headlines", err, "symbol", symbol)
		return nil, nil
	}

	headlines := make([]string, 0, len(articles))
	for _, a := range articles {
		headlines = append(headlines, a.Title)
	}
	return headlines, nil
}

// Articles returns recent articles for a symbol (cached or fresh).
func (s *Service) Articles(ctx context.Context, symbol string) ([]types.NewsArticle, error) {
	if cached, ok := s.cache.get(symbol); ok {
		logger.Debug(ctx, "Using cached articles", "symbol", symbol, "count", len(cached))
		return cached, nil
	}

	logger.Info(ctx, "Fetching fresh articles", "symbol", symbol)
	articles, err := s.fetchFresh(ctx, symbol)
	if err != nil {
		return nil, err
	}

	s.cache.set(symbol, articles)
	return articles, nil
}

func (s *Service) fetchFresh(ctx context.Context, symbol string) ([]types.NewsArticle, error) {
	articles, err := s.scraper.Scrape(ctx, symbol, s.cfg.MaxArticles)
	if err != nil {
		return nil, err
	}

	// Primary sources came back empty; Google News usually has something.
	if len(articles) == 0 {
		logger.Info(ctx, "No articles from primary sources, trying Google News", "symbol", symbol)
		articles, err = s.scraper.ScrapeGoogleNews(ctx, symbol, s.cfg.MaxArticles)
		if err != nil {
			logger.ErrorWithErr(ctx, "Google News fallback failed", err, "symbol", symbol)
			return nil, err
		}
	}
	return articles, nil
}

// Refresh forces a re-scrape for a symbol, bypassing the cache.
func (s *Service) Refresh(ctx context.Context, symbol string) ([]types.NewsArticle, error) {
	articles, err := s.fetchFresh(ctx, symbol)
	if err != nil {
		return nil, err
	}
	s.cache.set(symbol, articles)
	return articles, nil
}

// ClearCache removes all cached articles
func (s *Service) ClearCache() {
	s.cache.mu.Lock()
	defer s.cache.mu.Unlock()
	s.cache.data = make(map[string]*cacheEntry)
}

// CachedSymbols returns the symbols that currently have cached articles
func (s *Service) CachedSymbols() []string {
	s.cache.mu.RLock()
	defer s.cache.mu.RUnlock()

	symbols := make([]string, 0, len(s.cache.data))
	for symbol := range s.cache.data {
		symbols = append(symbols, symbol)
	}
	return symbols
}
