package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/tui-pong/internal/core"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testRecord(i int, mode, winner string) core.MatchRecord {
	return core.MatchRecord{
		MatchID:           fmt.Sprintf("match-%03d", i),
		GameMode:          mode,
		Difficulty:        "medium",
		Player1Score:      7,
		Player2Score:      i % 7,
		Winner:            winner,
		GameDuration:      60.5,
		TotalHits:         10 + i,
		LongestRally:      i,
		PowerUpsCollected: 2,
		PlayedAt:          time.Date(2026, 1, 1, 12, 0, i, 0, time.UTC),
	}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieveMatch(t *testing.T) {
	store := openTestStore(t)

	rec := testRecord(1, "cpu", "player1")
	id, err := store.SaveMatch(rec, 10)
	if err != nil {
		t.Fatalf("SaveMatch() failed: %v", err)
	}
	if id <= 0 {
		t.Errorf("SaveMatch() id = %d, expected positive", id)
	}

	got, err := store.MatchByID(rec.MatchID)
	if err != nil {
		t.Fatalf("MatchByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("MatchByID() returned nil for stored match")
	}
	if !got.PlayedAt.Equal(rec.PlayedAt) {
		t.Errorf("PlayedAt = %v, expected %v", got.PlayedAt, rec.PlayedAt)
	}
	got.PlayedAt = rec.PlayedAt
	if got.MatchRecord != rec {
		t.Errorf("MatchByID() = %+v, expected %+v", got.MatchRecord, rec)
	}

	missing, err := store.MatchByID("nope")
	if err != nil || missing != nil {
		t.Errorf("MatchByID(nope) = %v, %v; expected nil, nil", missing, err)
	}
}

func TestStoreEvictsOldestBeyondLimit(t *testing.T) {
	store := openTestStore(t)

	for i := range 8 {
		if _, err := store.SaveMatch(testRecord(i, "cpu", "player1"), 5); err != nil {
			t.Fatalf("SaveMatch(%d) failed: %v", i, err)
		}
	}

	n, err := store.CountMatches()
	if err != nil {
		t.Fatalf("CountMatches() failed: %v", err)
	}
	if n != 5 {
		t.Errorf("CountMatches() = %d, expected 5", n)
	}

	matches, err := store.RecentMatches("", 10)
	if err != nil {
		t.Fatalf("RecentMatches() failed: %v", err)
	}
	if matches[0].MatchID != "match-007" {
		t.Errorf("newest match = %s, expected match-007", matches[0].MatchID)
	}
	if matches[len(matches)-1].MatchID != "match-003" {
		t.Errorf("oldest kept match = %s, expected match-003", matches[len(matches)-1].MatchID)
	}

	old, _ := store.MatchByID("match-000")
	if old != nil {
		t.Error("oldest match should have been evicted")
	}
}

func TestStoreDuplicateMatchIDFails(t *testing.T) {
	store := openTestStore(t)
	rec := testRecord(1, "cpu", "player1")

	if _, err := store.SaveMatch(rec, 10); err != nil {
		t.Fatalf("SaveMatch() failed: %v", err)
	}
	if _, err := store.SaveMatch(rec, 10); err == nil {
		t.Error("saving the same match twice should fail")
	}

	n, _ := store.CountMatches()
	if n != 1 {
		t.Errorf("failed save must not change the table, count = %d", n)
	}
}

func TestStoreRecentMatchesByMode(t *testing.T) {
	store := openTestStore(t)
	store.SaveMatch(testRecord(1, "cpu", "player1"), 10)
	store.SaveMatch(testRecord(2, "versus", "player2"), 10)
	store.SaveMatch(testRecord(3, "cpu", "player2"), 10)

	cpu, err := store.RecentMatches("cpu", 10)
	if err != nil {
		t.Fatalf("RecentMatches() failed: %v", err)
	}
	if len(cpu) != 2 {
		t.Errorf("expected 2 cpu matches, got %d", len(cpu))
	}

	limited, _ := store.RecentMatches("", 1)
	if len(limited) != 1 || limited[0].MatchID != "match-003" {
		t.Errorf("RecentMatches limit 1 = %+v", limited)
	}
}

func TestStoreModeStats(t *testing.T) {
	store := openTestStore(t)
	store.SaveMatch(testRecord(1, "cpu", "player1"), 10)
	store.SaveMatch(testRecord(4, "cpu", "player2"), 10)
	store.SaveMatch(testRecord(5, "cpu", "player1"), 10)

	stats, err := store.ModeStats("cpu")
	if err != nil {
		t.Fatalf("ModeStats() failed: %v", err)
	}
	if stats.Matches != 3 {
		t.Errorf("Matches = %d, expected 3", stats.Matches)
	}
	if stats.Player1Wins != 2 || stats.Player2Wins != 1 {
		t.Errorf("wins = %d/%d, expected 2/1", stats.Player1Wins, stats.Player2Wins)
	}
	if stats.LongestRally != 5 {
		t.Errorf("LongestRally = %d, expected 5", stats.LongestRally)
	}
	if stats.TotalHits != 11+14+15 {
		t.Errorf("TotalHits = %d, expected 40", stats.TotalHits)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed should be set")
	}

	empty, err := store.ModeStats("demo")
	if err != nil {
		t.Fatalf("ModeStats(demo) failed: %v", err)
	}
	if empty.Matches != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", empty)
	}
}

func TestStoreClearMatches(t *testing.T) {
	store := openTestStore(t)
	store.SaveMatch(testRecord(1, "cpu", "player1"), 10)
	store.SaveMatch(testRecord(2, "versus", "player1"), 10)

	if err := store.ClearMatches("cpu"); err != nil {
		t.Fatalf("ClearMatches() failed: %v", err)
	}
	n, _ := store.CountMatches()
	if n != 1 {
		t.Errorf("versus match should remain, count = %d", n)
	}

	store.ClearMatches("")
	n, _ = store.CountMatches()
	if n != 0 {
		t.Errorf("ClearMatches(\"\") should remove everything, count = %d", n)
	}
}

func TestStoreExportJSON(t *testing.T) {
	store := openTestStore(t)
	store.SaveMatch(testRecord(1, "cpu", "player1"), 10)

	var buf bytes.Buffer
	if err := store.ExportJSON(&buf, "", 10); err != nil {
		t.Fatalf("ExportJSON() failed: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("expected 1 exported match, got %d", len(decoded))
	}
	for _, key := range []string{"gameMode", "difficulty", "player1Score", "player2Score", "winner", "gameDuration", "totalHits"} {
		if _, ok := decoded[0][key]; !ok {
			t.Errorf("exported match is missing %q", key)
		}
	}

	buf.Reset()
	store.ClearMatches("")
	store.ExportJSON(&buf, "", 10)
	if got := bytes.TrimSpace(buf.Bytes()); string(got) != "[]" {
		t.Errorf("empty export = %s, expected []", got)
	}
}

func TestStoreSettings(t *testing.T) {
	store := openTestStore(t)

	if _, ok, err := store.Setting(KeyLastMode); err != nil || ok {
		t.Errorf("unset Setting() = ok %v, err %v", ok, err)
	}

	store.SetSetting(KeyLastMode, "cpu")
	store.SetSetting(KeyLastMode, "versus")

	v, ok, err := store.Setting(KeyLastMode)
	if err != nil || !ok || v != "versus" {
		t.Errorf("Setting() = %q, %v, %v; expected versus, true, nil", v, ok, err)
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreLastPlayedOrdersByTime(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 1, 1, 12, 0, 5, 0, time.UTC)
	later := testRecord(1, "cpu", "player1")
	later.PlayedAt = base.Add(500 * time.Millisecond)
	earlier := testRecord(2, "cpu", "player2")
	earlier.PlayedAt = base

	for _, rec := range []core.MatchRecord{later, earlier} {
		if _, err := store.SaveMatch(rec, 10); err != nil {
			t.Fatalf("SaveMatch() failed: %v", err)
		}
	}

	stats, err := store.ModeStats("cpu")
	if err != nil {
		t.Fatalf("ModeStats() failed: %v", err)
	}
	if !stats.LastPlayed.Equal(later.PlayedAt) {
		t.Errorf("LastPlayed = %v, expected %v", stats.LastPlayed, later.PlayedAt)
	}
}
