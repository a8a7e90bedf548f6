package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"othello/internal/server/board"
	"othello/internal/server/core"
	"othello/internal/server/processor"
	"othello/internal/server/service"

	"github.com/gofiber/fiber/v2"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	svc := service.New(nil, []byte("test-secret-test-secret-test-secret"))
	proc := processor.New(svc, processor.Config{Workers: 1, Timeout: 5 * time.Second})
	t.Cleanup(func() {
		proc.Close()
		svc.Shutdown(time.Second)
	})
	return NewFiberApp(proc, svc, true)
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return v
}

const createBody = `{"black":{"type":1},"white":{"type":2,"level":1}}`

func TestGameFlow(t *testing.T) {
	app := newTestApp(t)

	status, data := do(t, app, http.MethodPost, "/api/v1/games", createBody)
	if status != http.StatusCreated {
		t.Fatalf("create: %d %s", status, data)
	}
	game := decode[core.GameResponse](t, data)
	if game.Position != board.StartingPosition {
		t.Errorf("position = %q", game.Position)
	}
	base := "/api/v1/games/" + game.GameID

	status, data = do(t, app, http.MethodPost, base+"/moves", `{"move":"e3"}`)
	if status != http.StatusOK {
		t.Fatalf("move: %d %s", status, data)
	}

	status, data = do(t, app, http.MethodPost, base+"/moves", `{"move":"auto"}`)
	if status != http.StatusAccepted {
		t.Fatalf("auto: %d %s", status, data)
	}

	// Long poll returns once the engine has replied
	status, data = do(t, app, http.MethodGet, base+"?wait=true&moveCount=1", "")
	if status != http.StatusOK {
		t.Fatalf("wait: %d %s", status, data)
	}
	got := decode[core.GameResponse](t, data)
	if len(got.Moves) != 2 {
		t.Fatalf("moves after engine reply = %v", got.Moves)
	}
	for i := 0; got.State == "pending" && i < 10; i++ {
		time.Sleep(50 * time.Millisecond)
		_, data = do(t, app, http.MethodGet, base, "")
		got = decode[core.GameResponse](t, data)
	}

	status, data = do(t, app, http.MethodPost, base+"/undo", `{"count":2}`)
	if status != http.StatusOK {
		t.Fatalf("undo: %d %s", status, data)
	}
	status, data = do(t, app, http.MethodPost, base+"/redo", `{"count":1}`)
	if status != http.StatusOK {
		t.Fatalf("redo: %d %s", status, data)
	}
	if got = decode[core.GameResponse](t, data); len(got.Moves) != 1 || got.Moves[0] != "e3" {
		t.Errorf("moves after redo = %v", got.Moves)
	}

	status, data = do(t, app, http.MethodGet, base+"/board", "")
	if status != http.StatusOK {
		t.Fatalf("board: %d %s", status, data)
	}
	if b := decode[core.BoardResponse](t, data); !strings.Contains(b.Board, "a b c d e f g h") {
		t.Errorf("board = %q", b.Board)
	}

	if status, _ = do(t, app, http.MethodDelete, base, ""); status != http.StatusNoContent {
		t.Errorf("delete status = %d", status)
	}
	if status, _ = do(t, app, http.MethodGet, base, ""); status != http.StatusNotFound {
		t.Errorf("get deleted game status = %d", status)
	}
}

func TestRequestErrors(t *testing.T) {
	app := newTestApp(t)

	_, data := do(t, app, http.MethodPost, "/api/v1/games", createBody)
	base := "/api/v1/games/" + decode[core.GameResponse](t, data).GameID

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"human vs human", http.MethodPost, "/api/v1/games", `{"black":{"type":1},"white":{"type":1}}`, http.StatusBadRequest, core.ErrInvalidRequest},
		{"bad player type", http.MethodPost, "/api/v1/games", `{"black":{"type":3},"white":{"type":2}}`, http.StatusBadRequest, core.ErrInvalidRequest},
		{"bad evaluator", http.MethodPost, "/api/v1/games", `{"black":{"type":1},"white":{"type":2,"evaluator":"psychic"}}`, http.StatusBadRequest, core.ErrInvalidRequest},
		{"short position", http.MethodPost, "/api/v1/games", `{"black":{"type":1},"white":{"type":2},"position":"X b"}`, http.StatusBadRequest, core.ErrInvalidRequest},
		{"bad game id", http.MethodGet, "/api/v1/games/not-a-uuid", "", http.StatusBadRequest, core.ErrInvalidRequest},
		{"unknown game", http.MethodGet, "/api/v1/games/00000000-0000-0000-0000-000000000000", "", http.StatusNotFound, core.ErrGameNotFound},
		{"illegal move", http.MethodPost, base + "/moves", `{"move":"a1"}`, http.StatusBadRequest, core.ErrIllegalMove},
		{"malformed move", http.MethodPost, base + "/moves", `{"move":"z9"}`, http.StatusBadRequest, core.ErrInvalidMove},
		{"engine on human turn", http.MethodPost, base + "/moves", `{"move":"auto"}`, http.StatusConflict, core.ErrNotHumanTurn},
		{"undo empty history", http.MethodPost, base + "/undo", `{"count":1}`, http.StatusBadRequest, core.ErrInvalidRequest},
		{"redo nothing", http.MethodPost, base + "/redo", `{"count":1}`, http.StatusBadRequest, core.ErrInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, data := do(t, app, tt.method, tt.path, tt.body)
			if status != tt.status {
				t.Fatalf("status = %d, want %d: %s", status, tt.status, data)
			}
			if got := decode[core.ErrorResponse](t, data); got.Code != tt.code {
				t.Errorf("code = %s, want %s", got.Code, tt.code)
			}
		})
	}
}

func TestContentType(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		contentType string
		status      int
	}{
		{"text/plain", http.StatusUnsupportedMediaType},
		{"application/json", http.StatusCreated},
		{"application/json; charset=utf-8", http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/games", strings.NewReader(createBody))
			req.Header.Set("Content-Type", tt.contentType)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
		})
	}
}

func TestForfeit(t *testing.T) {
	app := newTestApp(t)

	_, data := do(t, app, http.MethodPost, "/api/v1/games", createBody)
	base := "/api/v1/games/" + decode[core.GameResponse](t, data).GameID

	status, data := do(t, app, http.MethodPost, base+"/forfeit", "")
	if status != http.StatusOK {
		t.Fatalf("forfeit: %d %s", status, data)
	}
	if got := decode[core.GameResponse](t, data); got.State != "white wins" {
		t.Errorf("state after black forfeits = %s", got.State)
	}

	status, data = do(t, app, http.MethodPost, base+"/forfeit", "")
	if status != http.StatusConflict {
		t.Errorf("second forfeit: %d %s", status, data)
	}
}

func TestAuthWithoutStorage(t *testing.T) {
	app := newTestApp(t)

	status, data := do(t, app, http.MethodPost, "/api/v1/auth/register", `{"username":"alice","password":"password123"}`)
	if status != http.StatusServiceUnavailable {
		t.Errorf("register status = %d: %s", status, data)
	}

	status, _ = do(t, app, http.MethodGet, "/api/v1/auth/me", "")
	if status != http.StatusUnauthorized {
		t.Errorf("me without token status = %d", status)
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	status, data := do(t, app, http.MethodGet, "/health", "")
	if status != http.StatusOK {
		t.Fatalf("health: %d", status)
	}
	health := decode[map[string]any](t, data)
	if health["status"] != "healthy" || health["storage"] != "disabled" {
		t.Errorf("health = %v", health)
	}
}
