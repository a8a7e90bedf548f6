package storage

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "othello.db"), false)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.InitDB(); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func flush(t *testing.T, store *Store) {
	t.Helper()
	if err := store.Flush(2 * time.Second); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if !store.IsHealthy() {
		t.Fatal("store degraded")
	}
}

func TestGameRoundTrip(t *testing.T) {
	store := newTestStore(t)
	start := time.Now().UTC().Truncate(time.Second)

	store.RecordNewGame(GameRecord{
		GameID:          "game-1",
		InitialPosition: "start",
		BlackPlayerID:   "human-1",
		BlackType:       1,
		WhitePlayerID:   "engine-1",
		WhiteType:       2,
		WhiteLevel:      3,
		WhiteDepth:      6,
		WhiteEvaluator:  "weighted",
		StartTimeUTC:    start,
	})
	moves := []string{"e3", "f5", "f6"}
	for i, m := range moves {
		color := "b"
		if i%2 == 1 {
			color = "w"
		}
		store.RecordMove(MoveRecord{
			GameID:            "game-1",
			MoveNumber:        i + 1,
			Move:              m,
			Flips:             1,
			PositionAfterMove: "pos",
			PlayerColor:       color,
			MoveTimeUTC:       start,
		})
	}
	flush(t, store)

	games, err := store.QueryGames("game-1", "")
	if err != nil {
		t.Fatalf("QueryGames: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("got %d games, want 1", len(games))
	}
	g := games[0]
	if g.WhiteDepth != 6 || g.WhiteEvaluator != "weighted" || g.BlackType != 1 {
		t.Errorf("unexpected record: %+v", g)
	}
	if g.Result != nil {
		t.Errorf("unfinished game has result %q", *g.Result)
	}

	recorded, err := store.QueryMoves("game-1")
	if err != nil {
		t.Fatalf("QueryMoves: %v", err)
	}
	if len(recorded) != len(moves) {
		t.Fatalf("got %d moves, want %d", len(recorded), len(moves))
	}
	for i, m := range recorded {
		if m.Move != moves[i] || m.MoveNumber != i+1 {
			t.Errorf("move %d = %s (#%d), want %s", i, m.Move, m.MoveNumber, moves[i])
		}
	}

	byPlayer, err := store.QueryGames("*", "engine-1")
	if err != nil || len(byPlayer) != 1 {
		t.Errorf("QueryGames by player = %d games, %v", len(byPlayer), err)
	}
}

func TestResultAndUndo(t *testing.T) {
	store := newTestStore(t)
	store.RecordNewGame(GameRecord{GameID: "game-2", InitialPosition: "start", BlackPlayerID: "a", WhitePlayerID: "b", StartTimeUTC: time.Now().UTC()})
	for i := 1; i <= 4; i++ {
		store.RecordMove(MoveRecord{GameID: "game-2", MoveNumber: i, Move: "pass", PositionAfterMove: "pos", PlayerColor: "b", MoveTimeUTC: time.Now().UTC()})
	}
	store.RecordGameResult(ResultRecord{GameID: "game-2", Result: "black wins", BlackScore: 40, WhiteScore: 24, EndTimeUTC: time.Now().UTC()})
	flush(t, store)

	games, _ := store.QueryGames("game-2", "")
	if len(games) != 1 || games[0].Result == nil || *games[0].Result != "black wins" {
		t.Fatalf("result not recorded: %+v", games)
	}
	if *games[0].BlackScore != 40 || *games[0].WhiteScore != 24 {
		t.Errorf("score = %d-%d, want 40-24", *games[0].BlackScore, *games[0].WhiteScore)
	}

	store.DeleteUndoneMoves("game-2", 2)
	flush(t, store)

	moves, _ := store.QueryMoves("game-2")
	if len(moves) != 2 {
		t.Errorf("got %d moves after undo, want 2", len(moves))
	}
	games, _ = store.QueryGames("game-2", "")
	if games[0].Result != nil {
		t.Error("result survived undo")
	}
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	rec := UserRecord{
		UserID:       "user-1",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC(),
	}
	if err := store.CreateUser(rec); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	dup := rec
	dup.UserID = "user-2"
	dup.Username = "ALICE"
	dup.Email = ""
	if err := store.CreateUser(dup); !errors.Is(err, ErrUserExists) {
		t.Errorf("duplicate username: err = %v", err)
	}

	noEmail := UserRecord{UserID: "user-3", Username: "bob", PasswordHash: "hash", CreatedAt: time.Now().UTC()}
	if err := store.CreateUser(noEmail); err != nil {
		t.Fatalf("CreateUser without email: %v", err)
	}

	u, err := store.GetUserByEmail("Alice@Example.com")
	if err != nil || u.UserID != "user-1" {
		t.Fatalf("GetUserByEmail = %+v, %v", u, err)
	}
	if u.LastLoginAt != nil {
		t.Error("new user has a last login")
	}

	if err := store.UpdateUserLastLoginSync("user-1", time.Now().UTC()); err != nil {
		t.Fatalf("UpdateUserLastLoginSync: %v", err)
	}
	if err := store.UpdateUserPassword("user-1", "newhash"); err != nil {
		t.Fatalf("UpdateUserPassword: %v", err)
	}
	u, _ = store.GetUserByUsername("alice")
	if u.PasswordHash != "newhash" || u.LastLoginAt == nil {
		t.Errorf("updates not applied: %+v", u)
	}

	users, err := store.GetAllUsers()
	if err != nil || len(users) != 2 {
		t.Fatalf("GetAllUsers = %d users, %v", len(users), err)
	}

	if err := store.DeleteUserByID("user-3"); err != nil {
		t.Fatalf("DeleteUserByID: %v", err)
	}
	if _, err := store.GetUserByID("user-3"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("deleted user still found: %v", err)
	}
	if err := store.DeleteUserByID("user-3"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("second delete: err = %v", err)
	}
}

func TestDeleteDB(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.db")
	store, err := NewStore(path, true)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.InitDB(); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	if err := store.DeleteDB(); err != nil {
		t.Fatalf("DeleteDB: %v", err)
	}
	if matches, _ := filepath.Glob(path + "*"); len(matches) != 0 {
		t.Errorf("files left behind: %v", matches)
	}
}
