package news

import (
	"context"
	"fmt"
	"testing"
	"time"

	"stock-forecaster/internal/types"
)

func TestArticleCache(t *testing.T) {
	cache := newArticleCache(1 * time.Second)

	symbol := "RELIANCE"
	articles := []types.NewsArticle{
		{Symbol: symbol, Title: "Quarterly results beat estimates", Source: "MoneyControl"},
		{Symbol: symbol, Title: "New refinery capacity announced", Source: "EconomicTimes"},
	}

	cache.set(symbol, articles)

	retrieved, found := cache.get(symbol)
	if !found {
		t.Fatal("Expected to find cached articles")
	}
	if len(retrieved) != 2 {
		t.Fatalf("Expected 2 cached articles, got %d", len(retrieved))
	}
	if retrieved[0].Title != "Quarterly results beat estimates" {
		t.Errorf("Unexpected first title: %s", retrieved[0].Title)
	}

	// Test expiration
	time.Sleep(2 * time.Second)
	_, found = cache.get(symbol)
	if found {
		t.Error("Expected cache entry to be expired")
	}
}

func TestServiceConfig(t *testing.T) {
	cfg := DefaultServiceConfig()

	if cfg.MaxArticles != 10 {
		t.Errorf("Expected MaxArticles to be 10, got %d", cfg.MaxArticles)
	}
	if cfg.CacheDuration != 1*time.Hour {
		t.Errorf("Expected CacheDuration to be 1 hour, got %v", cfg.CacheDuration)
	}
	if !cfg.Enabled {
		t.Error("Expected Enabled to be true")
	}
}

func TestNewService(t *testing.T) {
	svc := NewService(DefaultServiceConfig())

	if svc == nil {
		t.Fatal("Expected service to be created")
	}
	if svc.scraper == nil {
		t.Error("Expected scraper to be initialized")
	}
	if svc.cache == nil {
		t.Error("Expected cache to be initialized")
	}
}

func TestServiceDisabled(t *testing.T) {
	svc := NewService(&ServiceConfig{Enabled: false})
	ctx := context.Background()

	headlines, err := svc.Headlines(ctx, "RELIANCE")
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if len(headlines) != 0 {
		t.Errorf("Expected no headlines when disabled, got %d", len(headlines))
	}
}

func TestHeadlinesFromCache(t *testing.T) {
	svc := NewService(DefaultServiceConfig())

	svc.cache.set("TCS", []types.NewsArticle{
		{Symbol: "TCS", Title: "Deal pipeline strengthens"},
		{Symbol: "TCS", Title: "Margin guidance unchanged"},
	})

	headlines, err := svc.Headlines(context.Background(), "TCS")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(headlines) != 2 {
		t.Fatalf("Expected 2 headlines, got %d", len(headlines))
	}
	if headlines[1] != "Margin guidance unchanged" {
		t.Errorf("Unexpected headline: %s", headlines[1])
	}
}

func TestCacheCleanup(t *testing.T) {
	cache := newArticleCache(100 * time.Millisecond)

	for i := 0; i < 5; i++ {
		sym := fmt.Sprintf("SYM%d", i)
		cache.set(sym, []types.NewsArticle{{Symbol: sym, Title: "headline"}})
	}

	time.Sleep(200 * time.Millisecond)
	cache.cleanup()

	cache.mu.RLock()
	count := len(cache.data)
	cache.mu.RUnlock()

	if count != 0 {
		t.Errorf("Expected 0 cache entries after cleanup, got %d", count)
	}
}

func TestClearCache(t *testing.T) {
	svc := NewService(DefaultServiceConfig())

	svc.cache.set("RELIANCE", []types.NewsArticle{{Symbol: "RELIANCE", Title: "headline"}})

	if got := svc.CachedSymbols(); len(got) != 1 {
		t.Fatalf("Expected 1 cached symbol, got %d", len(got))
	}

	svc.ClearCache()

	if got := svc.CachedSymbols(); len(got) != 0 {
		t.Errorf("Expected 0 cached symbols after clear, got %d", len(got))
	}
}
