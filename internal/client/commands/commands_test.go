package commands

import (
	"bytes"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"othello/internal/client/session"
	serverhttp "othello/internal/server/http"
	"othello/internal/server/processor"
	"othello/internal/server/service"
)

func startServer(t *testing.T) string {
	t.Helper()
	svc := service.New(nil, []byte("test-secret-test-secret-test-secret"))
	proc := processor.New(svc, processor.Config{Workers: 1, Timeout: 5 * time.Second})
	app := serverhttp.NewFiberApp(proc, svc, true)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go app.Listener(ln)
	t.Cleanup(func() {
		app.Shutdown()
		proc.Close()
		svc.Shutdown(time.Second)
	})
	return "http://" + ln.Addr().String()
}

func newTestRegistry(t *testing.T, input string) (*Registry, *session.Session, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	sess := session.New(startServer(t))
	sess.Client.Out = &out
	return NewRegistry(sess, strings.NewReader(input), &out), sess, &out
}

func TestHumanAgainstComputer(t *testing.T) {
	// Black human, White random computer, default depth, evaluator and position
	r, sess, out := newTestRegistry(t, "h\nc\n1\n0\n\n\n")

	r.Execute("new")
	if sess.GetCurrentGame() == "" {
		t.Fatalf("no game created:\n%s", out)
	}
	if got := sess.GetGameState(); got == nil || got.Turn != "b" || len(got.LegalMoves) != 4 {
		t.Fatalf("state after new = %+v", got)
	}

	r.Execute("move e3")
	state := sess.GetGameState()
	if len(state.Moves) != 2 || state.Moves[0] != "e3" || state.Turn != "b" {
		t.Fatalf("state after reply = %+v\n%s", state, out)
	}
	if !strings.Contains(out.String(), "Computer played") {
		t.Errorf("engine reply not reported:\n%s", out)
	}
	if sess.GetLastMoveCount() != 2 {
		t.Errorf("last move count = %d", sess.GetLastMoveCount())
	}

	r.Execute("undo 2")
	if n := len(sess.GetGameState().Moves); n != 0 {
		t.Fatalf("moves after undo = %d", n)
	}
	r.Execute("redo")
	if got := sess.GetGameState().Moves; len(got) != 1 || got[0] != "e3" {
		t.Fatalf("moves after redo = %v", got)
	}

	out.Reset()
	r.Execute("show")
	for _, want := range []string{"Position:", "History: 1.e3", "Legal:"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}

	out.Reset()
	r.Execute("forfeit")
	if got := sess.GetGameState(); got.State != "black wins" {
		t.Fatalf("state after forfeit = %s\n%s", got.State, out)
	}
	if !strings.Contains(out.String(), "White forfeits") {
		t.Errorf("forfeit not reported:\n%s", out)
	}

	r.Execute("delete")
	if sess.GetCurrentGame() != "" {
		t.Error("current game kept after delete")
	}
}

func TestCommandErrors(t *testing.T) {
	r, _, out := newTestRegistry(t, "")

	tests := []struct {
		input string
		want  string
	}{
		{"frobnicate", "Unknown command: frobnicate"},
		{"move e3", "no current game"},
		{"move", "usage: move <cell>"},
		{"join", "usage: join <gameId>"},
		{"undo", "no current game"},
		{"forfeit", "no current game"},
		{"join 00000000-0000-0000-0000-000000000000", "GAME_NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			out.Reset()
			if err := r.Execute(tt.input); err != nil {
				t.Fatalf("Execute(%q) = %v", tt.input, err)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("output %q does not contain %q", out.String(), tt.want)
			}
		})
	}

	if err := r.Execute("exit"); !errors.Is(err, ErrExit) {
		t.Errorf("exit = %v", err)
	}
}

func TestCountArg(t *testing.T) {
	tests := []struct {
		args    []string
		want    int
		wantErr bool
	}{
		{nil, 1, false},
		{[]string{"3"}, 3, false},
		{[]string{"0"}, 0, true},
		{[]string{"two"}, 0, true},
	}
	for _, tt := range tests {
		got, err := countArg(tt.args)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("countArg(%v) = %d, %v", tt.args, got, err)
		}
	}
}
