package store

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadConfigDefaults(t *testing.T) {
	p := writeConfig(t, "universe: [RELIANCE]\n")

	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Mode != "STATIC" {
		t.Errorf("Mode = %s, want STATIC default", cfg.Mode)
	}
	if cfg.HorizonDays != 5 {
		t.Errorf("HorizonDays = %d, want 5", cfg.HorizonDays)
	}
	if cfg.HistoryDays != 400 {
		t.Errorf("HistoryDays = %d, want 400", cfg.HistoryDays)
	}
	if cfg.ExchangeTimezone != "Asia/Kolkata" {
		t.Errorf("ExchangeTimezone = %s, want Asia/Kolkata", cfg.ExchangeTimezone)
	}
	if cfg.LLM.Provider != "NONE" {
		t.Errorf("LLM.Provider = %s, want NONE", cfg.LLM.Provider)
	}
	if cfg.Recorder.Driver != "none" {
		t.Errorf("Recorder.Driver = %s, want none", cfg.Recorder.Driver)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty universe", "mode: STATIC\n"},
		{"bad mode", "mode: PAPER\nuniverse: [TCS]\n"},
		{"bad timezone", "universe: [TCS]\nexchange_timezone: Mars/Olympus\n"},
		{"negative horizon", "universe: [TCS]\nhorizon_days: -1\n"},
		{"too little history", "universe: [TCS]\nhistory_days: 10\n"},
		{"bad provider", "universe: [TCS]\nllm:\n  provider: GEMINI\n"},
		{"bad recorder", "universe: [TCS]\nrecorder:\n  driver: postgres\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tt.body)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadConfigFull(t *testing.T) {
	p := writeConfig(t, `
mode: LIVE
exchange: NSE
exchange_timezone: Asia/Kolkata
universe: [RELIANCE, TCS]
horizon_days: 5
history_days: 500
instrument_tokens:
  RELIANCE: 738561
llm:
  provider: OPENAI
  model: gpt-4o-mini
  temperature: 0.2
recorder:
  driver: sqlite
  path: forecasts.db
`)

	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.InstrumentTokens["RELIANCE"] != 738561 {
		t.Errorf("instrument token = %d, want 738561", cfg.InstrumentTokens["RELIANCE"])
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("model = %s", cfg.LLM.Model)
	}
	if cfg.Location().String() != "Asia/Kolkata" {
		t.Errorf("location = %s", cfg.Location())
	}
}
