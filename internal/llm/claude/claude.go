package claude

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"stock-forecaster/internal/api"
	"stock-forecaster/internal/interfaces"
	"stock-forecaster/internal/logger"
	"stock-forecaster/internal/store"
	"stock-forecaster/internal/trace"
	"stock-forecaster/internal/types"
)

const forecastSchema = `{"outlook":"BULLISH|BEARISH|NEUTRAL","confidence":0.0,"target_low":0.0,"target_high":0.0,"reason":"string"}`

// ClaudeForecaster calls the Anthropic Messages API and returns a types.Forecast.
type ClaudeForecaster struct {
	cfg      *store.Config
	endpoint string
	client   *api.Client
}

var _ interfaces.Forecaster = (*ClaudeForecaster)(nil)

func NewClaudeForecaster(cfg *store.Config) *ClaudeForecaster {
	// default messages endpoint (public Anthropic)
	endpoint := "https://api.anthropic.com/v1/messages"
	// If you use a proxy/bedrock/vertex, set endpoint via CLAUDE_API_ENDPOINT env var
	if ep := os.Getenv("CLAUDE_API_ENDPOINT"); ep != "" {
		endpoint = ep
	}
	return &ClaudeForecaster{
		cfg:      cfg,
		endpoint: endpoint,
		client: api.NewClient(
			api.WithTimeout(60*time.Second),
			api.WithRateLimit(2),
			api.WithRetryBudget(30*time.Second),
		),
	}
}

func (f *ClaudeForecaster) Forecast(ctx context.Context, req interfaces.ForecastRequest) (types.Forecast, error) {
	ctx, span := trace.StartSpan(ctx, "claude-api-call")
	defer span.End()

	apiKey := os.Getenv("CLAUDE_API_KEY")
	if apiKey == "" {
		err := errors.New("CLAUDE_API_KEY missing")
		logger.ErrorWithErr(ctx, "Claude API key not configured", err)
		return types.Forecast{}, err
	}

	stateB, _ := json.Marshal(req)

	system := f.cfg.LLM.System
	if system == "" {
		system = "You are a disciplined equities analyst. Output STRICT JSON with a BULLISH/BEARISH/NEUTRAL outlook."
	}
	user := fmt.Sprintf("Schema:%s\nState:%s\n\nForecast the symbol over the listed trading days. Respond ONLY with compact JSON matching the schema.", forecastSchema, string(stateB))

	body := map[string]any{
		"model":      f.cfg.LLM.Model,
		"system":     system,
		"messages":   []map[string]string{{"role": "user", "content": user}},
		"max_tokens": f.cfg.LLM.MaxTokens,
	}

	resp, err := f.client.POST(ctx, f.endpoint, body, map[string]string{
		"x-api-key":         apiKey,
		"anthropic-version": "2023-06-01",
	})
	if err != nil {
		logger.ErrorWithErr(ctx, "Claude API request failed", err, "symbol", req.Symbol)
		return types.Forecast{}, err
	}

	var r struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := resp.ParseJSON(&r); err != nil {
		// Not the expected shape; fall back to digging JSON out of the raw body.
		logger.Warn(ctx, "Claude response not in expected shape, parsing as text", "symbol", req.Symbol)
		return f.fromText(ctx, req, resp.String())
	}

	var text string
	for _, c := range r.Content {
		if c.Type == "text" && strings.TrimSpace(c.Text) != "" {
			text = c.Text
			break
		}
	}
	if text == "" {
		return f.fromText(ctx, req, resp.String())
	}
	return f.fromText(ctx, req, text)
}

// fromText locates a JSON object in text and unmarshals it into a Forecast.
func (f *ClaudeForecaster) fromText(ctx context.Context, req interfaces.ForecastRequest, text string) (types.Forecast, error) {
	t := strings.TrimSpace(text)

	try := func(s string) (types.Forecast, bool) {
		var fc types.Forecast
		if err := json.Unmarshal([]byte(s), &fc); err != nil {
			return types.Forecast{}, false
		}
		fc.Symbol = req.Symbol
		normalizeForecast(&fc, req)
		return fc, true
	}

	if strings.HasPrefix(t, "{") {
		if fc, ok := try(t); ok {
			return fc, nil
		}
	}
	start := strings.Index(t, "{")
	end := strings.LastIndex(t, "}")
	if start >= 0 && end > start {
		if fc, ok := try(t[start : end+1]); ok {
			return fc, nil
		}
	}

	logger.Warn(ctx, "Unable to parse forecast from Claude output, defaulting to NEUTRAL", "symbol", req.Symbol)
	fc := types.Forecast{Symbol: req.Symbol, Outlook: "NEUTRAL", Reason: "unable_to_parse_claude_output", Confidence: 0.0}
	normalizeForecast(&fc, req)
	return fc, nil
}

func normalizeForecast(f *types.Forecast, req interfaces.ForecastRequest) {
	f.Outlook = strings.ToUpper(strings.TrimSpace(f.Outlook))
	valid := map[string]bool{"BULLISH": true, "BEARISH": true, "NEUTRAL": true}
	if !valid[f.Outlook] {
		f.Outlook = "NEUTRAL"
	}
	if f.Confidence < 0 || f.Confidence > 1 {
		f.Confidence = 0.0
	}
	if len(f.Days) == 0 {
		for _, d := range req.TradingDays {
			f.Days = append(f.Days, d.String())
		}
	}
}
