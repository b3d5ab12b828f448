package openai

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
	"stock-forecaster/internal/store"
	"stock-forecaster/internal/trace"
	"stock-forecaster/internal/types"
)

const endpoint = "https://api.openai.com/v1/chat/completions"

// forecastSchema is the JSON shape the model is asked to return.
const forecastSchema = `{"outlook":"BULLISH|BEARISH|NEUTRAL","confidence":0.0,"target_low":0.0,"target_high":0.0,"reason":"string"}`

type OpenAIForecaster struct {
	cfg    *store.Config
	client *api.Client
}

var _ interfaces.Forecaster = (*OpenAIForecaster)(nil)

func NewOpenAIForecaster(cfg *store.Config) *OpenAIForecaster {
	return &OpenAIForecaster{
		cfg: cfg,
		client: api.NewClient(
			api.WithTimeout(60*time.Second),
			api.WithRateLimit(2),
			api.WithRetryBudget(30*time.Second),
		),
	}
}

func (f *OpenAIForecaster) Forecast(ctx context.Context, req interfaces.ForecastRequest) (types.Forecast, error) {
	ctx, span := trace.StartSpan(ctx, "openai-api-call")
	defer span.End()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return types.Forecast{}, errors.New("OPENAI_API_KEY missing")
	}

	stateB, _ := json.Marshal(req)
	prompt := fmt.Sprintf("You will receive market state as JSON. Forecast the symbol over the listed trading days. Respond ONLY with compact JSON matching the schema.\nSchema:%s\nState:%s", forecastSchema, string(stateB))

	body := map[string]any{
		"model":       f.cfg.LLM.Model,
		"messages":    []map[string]string{{"role": "system", "content": f.cfg.LLM.System}, {"role": "user", "content": prompt}},
		"temperature": f.cfg.LLM.Temperature,
		"max_tokens":  f.cfg.LLM.MaxTokens,
	}

	resp, err := f.client.POST(ctx, endpoint, body, map[string]string{
		"Authorization": "Bearer " + apiKey,
	})
	if err != nil {
		return types.Forecast{}, err
	}

	var r struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := resp.ParseJSON(&r); err != nil {
		return types.Forecast{}, err
	}
	if len(r.Choices) == 0 {
		return types.Forecast{}, errors.New("no choices")
	}

	out := strings.TrimSpace(r.Choices[0].Message.Content)

	var fc types.Forecast
	if err := json.Unmarshal([]byte(out), &fc); err != nil {
		return types.Forecast{Symbol: req.Symbol, Outlook: "NEUTRAL", Reason: "invalid_json", Confidence: 0.0}, nil
	}

	fc.Symbol = req.Symbol
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
