package model

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/benbeisheim/chessrules-backend/internal/engine"
)

func pos(t *testing.T, s string) Position {
	t.Helper()
	sq, err := engine.ParseSquare(s)
	if err != nil {
		t.Fatal(err)
	}
	return positionOf(sq)
}

func wsMove(t *testing.T, s string) WSMove {
	t.Helper()
	return WSMove{From: pos(t, s[:2]), To: pos(t, s[2:4])}
}

func seatedGame(t *testing.T) *Game {
	t.Helper()
	g := NewGame("test")
	if c, err := g.AddPlayer("alice"); err != nil || c != PlayerColorWhite {
		t.Fatalf("AddPlayer(alice) = %q, %v", c, err)
	}
	if c, err := g.AddPlayer("bob"); err != nil || c != PlayerColorBlack {
		t.Fatalf("AddPlayer(bob) = %q, %v", c, err)
	}
	return g
}

// alternate plays moves for white (alice) and black (bob) in turn.
func alternate(t *testing.T, g *Game, moves ...string) {
	t.Helper()
	for i, m := range moves {
		player := "alice"
		if i%2 == 1 {
			player = "bob"
		}
		if err := g.MakeMove(player, wsMove(t, m)); err != nil {
			t.Fatalf("MakeMove(%s, %s): %v", player, m, err)
		}
	}
}

func TestNewGameState(t *testing.T) {
	state := NewGame("g1").GetState()
	if state.ToMove != "white" {
		t.Errorf("ToMove = %q; want white", state.ToMove)
	}
	if len(state.LegalMoves) != 20 {
		t.Errorf("len(LegalMoves) = %d; want 20", len(state.LegalMoves))
	}
	if got := state.Board.Board[7][4]; got == nil || got.Type != King || got.Color != "white" {
		t.Errorf("e1 = %+v; want white king", got)
	}
	if state.Board.Board[4][4] != nil {
		t.Errorf("e4 = %+v; want empty", state.Board.Board[4][4])
	}
	if state.Resolve != nil {
		t.Errorf("Resolve = %q; want nil", *state.Resolve)
	}
}

func TestAddPlayer(t *testing.T) {
	g := seatedGame(t)
	if c, err := g.AddPlayer("alice"); err != nil || c != PlayerColorWhite {
		t.Errorf("re-joining returned %q, %v; want white", c, err)
	}
	if _, err := g.AddPlayer("carol"); !errors.Is(err, ErrGameFull) {
		t.Errorf("third player err = %v; want ErrGameFull", err)
	}
}

func TestMakeMoveRejections(t *testing.T) {
	tests := []struct {
		name   string
		player string
		move   WSMove
		want   error
	}{
		{"spectator", "carol", WSMove{From: Position{X: 4, Y: 6}, To: Position{X: 4, Y: 4}}, ErrNotInGame},
		{"wrong side", "bob", WSMove{From: Position{X: 4, Y: 1}, To: Position{X: 4, Y: 3}}, ErrNotYourTurn},
		{"illegal geometry", "alice", WSMove{From: Position{X: 4, Y: 6}, To: Position{X: 4, Y: 3}}, ErrIllegalMove},
		{"opponent piece", "alice", WSMove{From: Position{X: 4, Y: 1}, To: Position{X: 4, Y: 3}}, ErrIllegalMove},
		{"empty square", "alice", WSMove{From: Position{X: 4, Y: 4}, To: Position{X: 4, Y: 3}}, ErrNoPiece},
		{"off the board", "alice", WSMove{From: Position{X: 4, Y: 6}, To: Position{X: 4, Y: 9}}, engine.ErrOutOfBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := seatedGame(t)
			if err := g.MakeMove(tt.player, tt.move); !errors.Is(err, tt.want) {
				t.Errorf("MakeMove err = %v; want %v", err, tt.want)
			}
			if n := len(g.GetState().MoveHistory); n != 0 {
				t.Errorf("history has %d moves after rejection", n)
			}
		})
	}
}

func TestMakeMoveRecordsHistory(t *testing.T) {
	g := seatedGame(t)
	alternate(t, g, "e2e4", "a7a6", "e4e5", "d7d5", "e5d6")

	state := g.GetState()
	var notations []string
	for _, m := range state.MoveHistory {
		if m.WhitePly != nil {
			notations = append(notations, m.WhitePly.Notation)
		}
		if m.BlackPly != nil {
			notations = append(notations, m.BlackPly.Notation)
		}
	}
	if diff := cmp.Diff([]string{"e4", "a6", "e5", "d5", "exd6"}, notations); diff != "" {
		t.Errorf("notation mismatch (-want +got):\n%s", diff)
	}

	last := state.MoveHistory[2].WhitePly
	if !last.EnPassant || last.CapturedPiece == nil || last.CapturedPiece.Position != pos(t, "d5") {
		t.Errorf("en passant ply = %+v", last)
	}
	if state.Board.Board[3][3] != nil {
		t.Errorf("d5 = %+v; want captured", state.Board.Board[3][3])
	}
	if state.LastMove == nil || state.LastMove.To != pos(t, "d6") {
		t.Errorf("LastMove = %+v; want to d6", state.LastMove)
	}
}

func TestCheckmateEndsGame(t *testing.T) {
	g := seatedGame(t)
	alternate(t, g, "f2f3", "e7e5", "g2g4", "d8h4")

	state := g.GetState()
	if state.Resolve == nil || *state.Resolve != "checkmate" {
		t.Fatalf("Resolve = %v; want checkmate", state.Resolve)
	}
	if !state.IsCheck || state.Sound != "check" {
		t.Errorf("IsCheck = %v, Sound = %q", state.IsCheck, state.Sound)
	}
	if got := state.MoveHistory[1].BlackPly.Notation; got != "Qh4#" {
		t.Errorf("mating notation = %q; want Qh4#", got)
	}
	if err := g.MakeMove("alice", wsMove(t, "e1f2")); !errors.Is(err, ErrGameOver) {
		t.Errorf("move after mate err = %v; want ErrGameOver", err)
	}
}

func TestUndoMove(t *testing.T) {
	g := seatedGame(t)
	if err := g.UndoMove("alice"); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("undo on fresh game err = %v; want ErrNothingToUndo", err)
	}

	alternate(t, g, "e2e4")
	if err := g.UndoMove("bob"); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("bob undoing white's move err = %v; want ErrNotYourTurn", err)
	}
	if err := g.UndoMove("carol"); !errors.Is(err, ErrNotInGame) {
		t.Errorf("spectator undo err = %v; want ErrNotInGame", err)
	}
	if err := g.UndoMove("alice"); err != nil {
		t.Fatalf("UndoMove(alice): %v", err)
	}

	want := NewGame("test").GetState()
	got := g.GetState()
	if diff := cmp.Diff(want.Board, got.Board); diff != "" {
		t.Errorf("board after undo mismatch (-want +got):\n%s", diff)
	}
	if got.ToMove != "white" || len(got.MoveHistory) != 0 || got.LastMove != nil || got.FEN != want.FEN {
		t.Errorf("state after undo = toMove %q, history %d, lastMove %v, fen %q", got.ToMove, len(got.MoveHistory), got.LastMove, got.FEN)
	}
}

func TestLegalMovesFilter(t *testing.T) {
	g := NewGame("g")
	from := pos(t, "g1")
	moves := g.LegalMoves(&from)
	want := []SimpleMove{
		{From: from, To: pos(t, "f3")},
		{From: from, To: pos(t, "h3")},
	}
	if diff := cmp.Diff(want, moves); diff != "" {
		t.Errorf("LegalMoves(g1) mismatch (-want +got):\n%s", diff)
	}
}

func TestPromotionPly(t *testing.T) {
	g := seatedGame(t)
	alternate(t, g, "h2h4", "g7g5", "h4g5", "g8f6", "g5g6", "a7a6", "g6g7", "a6a5", "g7h8")

	state := g.GetState()
	last := state.MoveHistory[len(state.MoveHistory)-1].WhitePly
	if last.Promotion != Queen || last.Notation != "gxh8=Q" {
		t.Errorf("promotion ply = %+v", last)
	}
	if p := state.Board.Board[0][7]; p == nil || p.Type != Queen || p.Color != "white" {
		t.Errorf("h8 = %+v; want white queen", p)
	}
}

func TestBroadcastDropsStaleStates(t *testing.T) {
	gc := NewGameConnections()
	steps := []struct {
		version uint64
		want    bool
	}{
		{2, true},
		{1, false},
		{2, false},
		{3, true},
	}
	for _, s := range steps {
		gc.mu.Lock()
		got := gc.advance(s.version)
		gc.mu.Unlock()
		if got != s.want {
			t.Errorf("advance(%d) = %v; want %v", s.version, got, s.want)
		}
	}

	g := seatedGame(t)
	before := g.version
	alternate(t, g, "e2e4", "e7e5")
	if g.version != before+2 {
		t.Errorf("version = %d after two moves; want %d", g.version, before+2)
	}
}
