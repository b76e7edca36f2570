package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/benbeisheim/chessrules-backend/internal/config"
	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/service"
)

func newTestApp() *fiber.App {
	return NewApp(config.Default(), service.NewGameService(service.NewGameManager()))
}

// do sends a request as player and decodes the JSON response into out
// when out is non-nil.
func do(t *testing.T, app *fiber.App, method, path, player, body string, out any) int {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if player != "" {
		req.Header.Set("X-Player-ID", player)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decoding %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func createGame(t *testing.T, app *fiber.App) string {
	t.Helper()
	var created struct {
		GameID string `json:"game_id"`
	}
	if code := do(t, app, http.MethodPost, "/api/game/create", "alice", "", &created); code != fiber.StatusOK {
		t.Fatalf("create status = %d", code)
	}
	return created.GameID
}

func TestPlayerIDRequired(t *testing.T) {
	app := newTestApp()
	if code := do(t, app, http.MethodPost, "/api/game/create", "", "", nil); code != fiber.StatusUnauthorized {
		t.Errorf("status = %d; want 401", code)
	}
}

func TestCreateJoinAndPlay(t *testing.T) {
	app := newTestApp()
	id := createGame(t, app)

	for _, tc := range []struct{ player, color string }{{"alice", "white"}, {"bob", "black"}} {
		var joined struct {
			Color string `json:"color"`
		}
		if code := do(t, app, http.MethodPost, "/api/game/join/"+id, tc.player, "", &joined); code != fiber.StatusOK {
			t.Fatalf("join %s status = %d", tc.player, code)
		}
		if joined.Color != tc.color {
			t.Errorf("%s joined as %q; want %q", tc.player, joined.Color, tc.color)
		}
	}
	if code := do(t, app, http.MethodPost, "/api/game/join/"+id, "carol", "", nil); code != fiber.StatusConflict {
		t.Errorf("third join status = %d; want 409", code)
	}

	var moves struct {
		LegalMoves []model.SimpleMove `json:"legalMoves"`
	}
	if code := do(t, app, http.MethodGet, "/api/game/"+id+"/moves?from=e2", "alice", "", &moves); code != fiber.StatusOK {
		t.Fatalf("moves status = %d", code)
	}
	if len(moves.LegalMoves) != 2 {
		t.Errorf("e2 moves = %v; want 2", moves.LegalMoves)
	}
	if code := do(t, app, http.MethodGet, "/api/game/"+id+"/moves?from=z9", "alice", "", nil); code != fiber.StatusBadRequest {
		t.Errorf("bad square status = %d; want 400", code)
	}

	var state model.GameState
	e2e4 := `{"from":{"x":4,"y":6},"to":{"x":4,"y":4}}`
	if code := do(t, app, http.MethodPost, "/api/game/"+id+"/move", "alice", e2e4, &state); code != fiber.StatusOK {
		t.Fatalf("move status = %d", code)
	}
	if state.ToMove != "black" || len(state.MoveHistory) != 1 || state.MoveHistory[0].WhitePly.Notation != "e4" {
		t.Errorf("state after e4 = toMove %q, history %+v", state.ToMove, state.MoveHistory)
	}
	if state.EnPassantTarget == nil || *state.EnPassantTarget != (model.Position{X: 4, Y: 5}) {
		t.Errorf("EnPassantTarget = %v; want e3", state.EnPassantTarget)
	}

	tests := []struct {
		name   string
		player string
		body   string
		want   int
	}{
		{"not your turn", "alice", `{"from":{"x":3,"y":6},"to":{"x":3,"y":4}}`, fiber.StatusConflict},
		{"illegal", "bob", `{"from":{"x":4,"y":1},"to":{"x":4,"y":4}}`, fiber.StatusBadRequest},
		{"spectator", "carol", `{"from":{"x":4,"y":1},"to":{"x":4,"y":3}}`, fiber.StatusForbidden},
		{"malformed", "bob", `{"from":`, fiber.StatusBadRequest},
		{"off the board", "bob", `{"from":{"x":4,"y":1},"to":{"x":4,"y":9}}`, fiber.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := do(t, app, http.MethodPost, "/api/game/"+id+"/move", tt.player, tt.body, nil); code != tt.want {
				t.Errorf("status = %d; want %d", code, tt.want)
			}
		})
	}

	if code := do(t, app, http.MethodPost, "/api/game/"+id+"/undo", "alice", "", &state); code != fiber.StatusOK {
		t.Fatalf("undo status = %d", code)
	}
	if state.ToMove != "white" || len(state.MoveHistory) != 0 {
		t.Errorf("state after undo = toMove %q, history %d", state.ToMove, len(state.MoveHistory))
	}
}

func TestUnknownGame(t *testing.T) {
	app := newTestApp()
	if code := do(t, app, http.MethodGet, "/api/game/nope", "alice", "", nil); code != fiber.StatusNotFound {
		t.Errorf("status = %d; want 404", code)
	}
	if code := do(t, app, http.MethodPost, "/api/game/join/nope", "alice", "", nil); code != fiber.StatusNotFound {
		t.Errorf("join status = %d; want 404", code)
	}
}

func TestWebSocketRequiresUpgrade(t *testing.T) {
	app := newTestApp()
	id := createGame(t, app)
	if code := do(t, app, http.MethodGet, "/ws/game/"+id+"?playerId=alice", "", "", nil); code != fiber.StatusUpgradeRequired {
		t.Errorf("status = %d; want 426", code)
	}
}

func TestSeatsSurviveLaterRequests(t *testing.T) {
	app := newTestApp()
	id := createGame(t, app)
	if code := do(t, app, http.MethodPost, "/api/game/join/"+id, "alice", "", nil); code != fiber.StatusOK {
		t.Fatalf("join status = %d", code)
	}
	for _, other := range []string{"mallo", "zzzzz"} {
		do(t, app, http.MethodGet, "/api/game/"+id, other, "", nil)
	}
	if code := do(t, app, http.MethodPost, "/api/game/join/"+id, "bob", "", nil); code != fiber.StatusOK {
		t.Fatalf("join status = %d", code)
	}

	var state model.GameState
	do(t, app, http.MethodGet, "/api/game/"+id, "carol", "", &state)
	if state.Players.White.ID != "alice" || state.Players.Black.ID != "bob" {
		t.Errorf("players = %+v; want alice and bob", state.Players)
	}
}
