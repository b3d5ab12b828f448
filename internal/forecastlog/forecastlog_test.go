package forecastlog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestAppendWritesJSONLine(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FORECASTER_LOG_DIR", dir)

	err := Append(Entry{
		Symbol:     "INFY",
		Outlook:    "BULLISH",
		Confidence: 0.7,
		Price:      1520.5,
		Days:       []string{"2024-06-11", "2024-06-12"},
	})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	err = Append(Entry{Symbol: "TCS", Outlook: "NEUTRAL", Confidence: 0.0, Price: 3890})
	if err != nil {
		t.Fatalf("second Append failed: %v", err)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil || len(files) != 1 {
		t.Fatalf("expected 1 log file, got %v (err=%v)", files, err)
	}

	f, err := os.Open(files[0])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var entries []Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("line not valid JSON: %v", err)
		}
		entries = append(entries, e)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Symbol != "INFY" || entries[0].Outlook != "BULLISH" {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if entries[0].Time == "" {
		t.Error("expected Time to be stamped")
	}
	if len(entries[0].Days) != 2 {
		t.Errorf("expected 2 days, got %d", len(entries[0].Days))
	}
	if entries[1].Symbol != "TCS" {
		t.Errorf("unexpected second entry: %+v", entries[1])
	}
}

func TestCompressOlderDisabled(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FORECASTER_LOG_DIR", dir)

	if err := Append(Entry{Symbol: "SBIN", Outlook: "NEUTRAL"}); err != nil {
		t.Fatal(err)
	}

	if err := CompressOlder(0); err != nil {
		t.Fatalf("CompressOlder(0) failed: %v", err)
	}

	files, _ := filepath.Glob(filepath.Join(dir, "*.txt"))
	if len(files) != 1 {
		t.Errorf("expected the log file to be untouched, got %v", files)
	}
}
