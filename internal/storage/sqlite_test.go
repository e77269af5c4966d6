package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/life423/Ascend-Avoid-sub000/internal/multiplayer"
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

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestScoresRoundTrip(t *testing.T) {
	store := openTestStore(t)

	for _, score := range []int{100, 50, 200} {
		if _, err := store.SaveScore("ascend", score); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}
	// A second game must not leak into ascend's board.
	if _, err := store.SaveScore("other", 500); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	scores, err := store.TopScores("ascend", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("TopScores() returned %d entries, expected 3", len(scores))
	}
	if scores[0].Score != 200 || scores[1].Score != 100 || scores[2].Score != 50 {
		t.Errorf("scores not ordered best first: %d, %d, %d",
			scores[0].Score, scores[1].Score, scores[2].Score)
	}

	high, err := store.HighScore("ascend")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 200 {
		t.Errorf("HighScore() = %d, expected 200", high)
	}
}

func TestHighScoreEmpty(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("ascend")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("HighScore() on empty table = %d, expected 0", high)
	}
}

func TestClearScores(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.SaveScore("ascend", 10); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}
	if err := store.ClearScores("ascend"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	scores, err := store.TopScores("ascend", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 0 {
		t.Errorf("TopScores() returned %d entries after clear, expected 0", len(scores))
	}
}

func TestGameStats(t *testing.T) {
	store := openTestStore(t)

	for _, score := range []int{10, 20, 30} {
		if _, err := store.SaveScore("ascend", score); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	stats, err := store.GetGameStats("ascend")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 3 {
		t.Errorf("GamesCount = %d, expected 3", stats.GamesCount)
	}
	if stats.HighScore != 30 {
		t.Errorf("HighScore = %d, expected 30", stats.HighScore)
	}
	if stats.AvgScore != 20 {
		t.Errorf("AvgScore = %g, expected 20", stats.AvgScore)
	}
}

func TestRaceRoundTrip(t *testing.T) {
	store := openTestStore(t)

	_, err := store.SaveRace(RaceRecord{
		MatchID:       "race-ABC123-1",
		HostSession:   "alice",
		JoinerSession: "bob",
		Score1:        10,
		Score2:        7,
		WinnerSession: "alice",
		EndReason:     "Race completed",
		Duration:      95,
	})
	if err != nil {
		t.Fatalf("SaveRace() failed: %v", err)
	}

	races, err := store.RecentRaces(10)
	if err != nil {
		t.Fatalf("RecentRaces() failed: %v", err)
	}
	if len(races) != 1 {
		t.Fatalf("RecentRaces() returned %d records, expected 1", len(races))
	}
	r := races[0]
	if r.WinnerSession != "alice" || r.Score1 != 10 || r.Score2 != 7 {
		t.Errorf("race record mismatch: %+v", r)
	}

	history, err := store.PlayerRaceHistory("bob", 10)
	if err != nil {
		t.Fatalf("PlayerRaceHistory() failed: %v", err)
	}
	if len(history) != 1 {
		t.Errorf("PlayerRaceHistory() returned %d records, expected 1", len(history))
	}

	if none, err := store.PlayerRaceHistory("carol", 10); err != nil || len(none) != 0 {
		t.Errorf("PlayerRaceHistory() for a stranger = %d records, err %v", len(none), err)
	}
}

func TestSaveRaceResultAdapter(t *testing.T) {
	store := openTestStore(t)

	err := store.SaveRaceResult(multiplayer.RaceResultData{
		MatchID:       "race-XYZ789-2",
		HostSession:   "alice",
		JoinerSession: "bob",
		Score1:        3,
		Score2:        10,
		WinnerSession: "bob",
		EndReason:     "Race completed",
		DurationSecs:  60,
	})
	if err != nil {
		t.Fatalf("SaveRaceResult() failed: %v", err)
	}

	races, err := store.RecentRaces(1)
	if err != nil {
		t.Fatalf("RecentRaces() failed: %v", err)
	}
	if len(races) != 1 || races[0].WinnerSession != "bob" {
		t.Errorf("adapter did not persist the race: %+v", races)
	}
}

func TestProfileCache(t *testing.T) {
	store := openTestStore(t)

	latest, err := store.LatestProfile()
	if err != nil {
		t.Fatalf("LatestProfile() failed: %v", err)
	}
	if latest != nil {
		t.Fatalf("LatestProfile() on empty table = %+v, expected nil", latest)
	}

	if _, err := store.SaveProfile(ProfileRecord{
		Tier: "medium", Score: 42.5, Cores: 4, MemoryGB: 8, Renderer: "xterm-256color",
	}); err != nil {
		t.Fatalf("SaveProfile() failed: %v", err)
	}
	if _, err := store.SaveProfile(ProfileRecord{
		Tier: "high", Score: 99, Cores: 8, MemoryGB: 16, Renderer: "xterm-256color",
	}); err != nil {
		t.Fatalf("SaveProfile() failed: %v", err)
	}

	latest, err = store.LatestProfile()
	if err != nil {
		t.Fatalf("LatestProfile() failed: %v", err)
	}
	if latest == nil || latest.Tier != "high" {
		t.Errorf("LatestProfile() = %+v, expected the high-tier record", latest)
	}
}
