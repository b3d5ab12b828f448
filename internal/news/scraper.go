package news

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"stock-forecaster/internal/api"
	"stock-forecaster/internal/logger"
	"stock-forecaster/internal/types"
)

// Scraper collects recent news articles for a symbol from financial news sites.
type Scraper struct {
	sources []Source
	timeout time.Duration
	client  *api.Client
}

// Source describes one news site and the selectors needed to pull articles out of it.
type Source struct {
	Name       string
	BaseURL    string
	SearchPath string // "{symbol}" is replaced with the lowercased symbol
	Selectors  Selectors
	RateLimit  time.Duration
}

// Selectors are the CSS selectors for extracting article fields.
type Selectors struct {
	ArticleContainer string
	Title            string
	URL              string
	Summary          string
	PublishedAt      string
}

func NewScraper(timeout time.Duration) *Scraper {
	return &Scraper{
		sources: defaultSources(),
		timeout: timeout,
		client: api.NewClient(api.WithTimeout(timeout)),
	}
}

func defaultSources() []Source {
	return []Source{
		{
			Name:       "MoneyControl",
			BaseURL:    "https://www.moneycontrol.com",
			SearchPath: "/news/tags/{symbol}.html",
			Selectors: Selectors{
				ArticleContainer: "li.clearfix",
				Title:            "h2 a, h3 a",
				URL:              "h2 a, h3 a",
				Summary:          "p",
				PublishedAt:      "span.ago",
			},
			RateLimit: 2 * time.Second,
		},
		{
			Name:       "EconomicTimes",
			BaseURL:    "https://economictimes.indiatimes.com",
			SearchPath: "/topic/{symbol}",
			Selectors: Selectors{
				ArticleContainer: "div.story-box",
				Title:            "a",
				URL:              "a",
				Summary:          "p",
				PublishedAt:      "time",
			},
			RateLimit: 2 * time.Second,
		},
		{
			Name:       "BusinessStandard",
			BaseURL:    "https://www.business-standard.com",
			SearchPath: "/search?q={symbol}",
			Selectors: Selectors{
				ArticleContainer: "div.listing-txt",
				Title:            "a.Hdng",
				URL:              "a.Hdng",
				Summary:          "p",
				PublishedAt:      "span.listing-date",
			},
			RateLimit: 2 * time.Second,
		},
	}
}

// Scrape fetches up to maxArticles articles for symbol across all sources.
// A source that fails is skipped, not fatal.
func (s *Scraper) Scrape(ctx context.Context, symbol string, maxArticles int) ([]types.NewsArticle, error) {
	logger.Info(ctx, "Starting news scrape", "symbol", symbol, "sources", len(s.sources))

	all := []types.NewsArticle{}
	perSource := maxArticles / len(s.sources)
	if perSource < 1 {
		perSource = 1
	}

	for _, src := range s.sources {
		articles, err := s.scrapeSource(ctx, src, symbol, perSource)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to scrape source", err, "source", src.Name, "symbol", symbol)
			continue
		}
		all = append(all, articles...)

		time.Sleep(src.RateLimit)
	}

	if len(all) > maxArticles {
		all = all[:maxArticles]
	}
	logger.Info(ctx, "News scrape completed", "symbol", symbol, "articles", len(all))
	return all, nil
}

func (s *Scraper) scrapeSource(ctx context.Context, src Source, symbol string, maxArticles int) ([]types.NewsArticle, error) {
	articles := []types.NewsArticle{}

	c := colly.NewCollector(
		colly.AllowedDomains(hostOf(src.BaseURL)),
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	})

	c.OnHTML(src.Selectors.ArticleContainer, func(e *colly.HTMLElement) {
		if len(articles) >= maxArticles {
			return
		}

		title := strings.TrimSpace(e.ChildText(src.Selectors.Title))
		if title == "" {
			return
		}
		articleURL := e.ChildAttr(src.Selectors.URL, "href")
		if articleURL == "" {
			return
		}
		if !strings.HasPrefix(articleURL, "http") {
			articleURL = src.BaseURL + articleURL
		}

		articles = append(articles, types.NewsArticle{
			Title:       title,
			URL:         articleURL,
			Content:     strings.TrimSpace(e.ChildText(src.Selectors.Summary)),
			Source:      src.Name,
			PublishedAt: strings.TrimSpace(e.ChildText(src.Selectors.PublishedAt)),
			Symbol:      symbol,
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "Scrape request error", err, "source", src.Name, "url", r.Request.URL.String())
	})

	searchURL := src.BaseURL + strings.ReplaceAll(src.SearchPath, "{symbol}", strings.ToLower(symbol))
	if err := c.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", searchURL, err)
	}
	c.Wait()

	return s.enrich(ctx, articles), nil
}

// enrich fetches full article bodies for listings that only yielded a summary.
func (s *Scraper) enrich(ctx context.Context, articles []types.NewsArticle) []types.NewsArticle {
	enriched := make([]types.NewsArticle, len(articles))
	copy(enriched, articles)

	for i := range enriched {
		if len(enriched[i].Content) >= 100 {
			continue
		}
		if body := s.fetchArticleBody(ctx, enriched[i].URL); body != "" {
			enriched[i].Content = body
		}
		time.Sleep(500 * time.Millisecond)
	}
	return enriched
}

// fetchArticleBody downloads one article page and extracts its paragraph text.
func (s *Scraper) fetchArticleBody(ctx context.Context, articleURL string) string {
	resp, err := s.client.GET(ctx, articleURL, api.BrowserHeaders())
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch article", err, "url", articleURL)
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to parse article HTML", err, "url", articleURL)
		return ""
	}

	paragraphs := []string{}
	doc.Find("article p, div.article-body p, div.content-body p, div.story-content p").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if len(text) > 20 {
			paragraphs = append(paragraphs, text)
		}
	})
	return strings.Join(paragraphs, "\n\n")
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// ScrapeGoogleNews searches Google News for company headlines. Fallback when
// the primary sources return nothing.
func (s *Scraper) ScrapeGoogleNews(ctx context.Context, companyName string, maxArticles int) ([]types.NewsArticle, error) {
	articles := []types.NewsArticle{}

	c := colly.NewCollector(
		colly.AllowedDomains("news.google.com", "www.google.com"),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	})

	c.OnHTML("article", func(e *colly.HTMLElement) {
		if len(articles) >= maxArticles {
			return
		}

		title := e.ChildText("h3, h4")
		link := e.ChildAttr("a", "href")
		if title == "" || link == "" {
			return
		}
		if strings.HasPrefix(link, "./articles/") {
			link = "https://news.google.com" + link[1:]
		}

		articles = append(articles, types.NewsArticle{
			Title:  title,
			URL:    link,
			Source: "GoogleNews",
			Symbol: companyName,
		})
	})

	query := url.QueryEscape(companyName + " stock news India")
	searchURL := fmt.Sprintf("https://news.google.com/search?q=%s&hl=en-IN&gl=IN&ceid=IN:en", query)
	if err := c.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("failed to scrape Google News: %w", err)
	}
	c.Wait()

	logger.Info(ctx, "Google News scrape completed", "company", companyName, "articles", len(articles))
	return articles, nil
}
