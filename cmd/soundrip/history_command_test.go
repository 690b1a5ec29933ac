package main

import (
	"context"
	"testing"
	"time"

	"soundrip/internal/journal"
)

func TestHistoryEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No conversions recorded yet")
}

func TestHistoryListsRecentConversions(t *testing.T) {
	env := setupCLITestEnv(t)

	store, err := journal.Open(env.cfg.Paths.DataDir)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	entries := []journal.Entry{
		{ChatID: 1, UserID: 2, InputName: "holiday.mp4", InputBytes: 4 << 20, Outcome: "success", Duration: 3 * time.Second},
		{ChatID: 1, UserID: 2, InputName: "broken.mp4", Outcome: "transcode_failed", Detail: "no audio stream", Duration: time.Second},
	}
	for _, e := range entries {
		if err := store.Record(context.Background(), e); err != nil {
			t.Fatalf("record entry: %v", err)
		}
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close journal: %v", err)
	}

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "holiday.mp4")
	requireContains(t, out, "broken.mp4")
	requireContains(t, out, "transcode_failed")

	out, _, err = runCLI(t, []string{"history", "--limit", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("history --limit: %v", err)
	}
	requireContains(t, out, "broken.mp4")
}
