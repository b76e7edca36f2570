// Package engine implements the chess rules: board state, legal move
// generation with pin and check analysis, and reversible make/undo.
//
// A GameState is not safe for concurrent use. Callers that share one across
// goroutines must serialize every ValidMoves/MakeMove/UndoMove call.
package engine

import (
	"fmt"

	"golang.org/x/exp/slices"
)

type logEntry struct {
	move Move
	// en-passant target as it was before move was made
	prevEnPassant Square
	hadEnPassant  bool
}

type GameState struct {
	board       Board
	whiteToMove bool
	moveLog     []logEntry
	startPly    int

	whiteKing Square
	blackKing Square

	enPassant    Square
	hasEnPassant bool

	inCheck   bool
	checkMate bool
	staleMate bool
}

// NewGameState returns a game at the standard starting position, white to move.
func NewGameState() *GameState {
	return &GameState{
		board:       StandardBoard(),
		whiteToMove: true,
		moveLog:     make([]logEntry, 0, 64),
		whiteKing:   Square{Row: 7, Col: 4},
		blackKing:   Square{Row: 0, Col: 4},
	}
}

// NewGameStateFromPosition sets up an arbitrary position. The board must hold
// exactly one king per color; enPassant may be nil.
func NewGameStateFromPosition(board Board, toMove Color, enPassant *Square) (*GameState, error) {
	white, black, err := board.findKings()
	if err != nil {
		return nil, err
	}
	g := &GameState{
		board:       board,
		whiteToMove: toMove == White,
		moveLog:     make([]logEntry, 0, 64),
		whiteKing:   white,
		blackKing:   black,
	}
	if enPassant != nil {
		if !enPassant.InBounds() {
			return nil, fmt.Errorf("%w: en passant target (%d, %d)", ErrOutOfBounds, enPassant.Row, enPassant.Col)
		}
		g.enPassant, g.hasEnPassant = *enPassant, true
	}
	return g, nil
}

// Board returns a copy of the current board.
func (g *GameState) Board() Board {
	return g.board
}

func (g *GameState) WhiteToMove() bool {
	return g.whiteToMove
}

func (g *GameState) ToMove() Color {
	if g.whiteToMove {
		return White
	}
	return Black
}

func (g *GameState) KingSquare(c Color) Square {
	return g.kingSquare(c)
}

func (g *GameState) EnPassantTarget() (Square, bool) {
	return g.enPassant, g.hasEnPassant
}

// MoveLog returns the moves played so far, oldest first.
func (g *GameState) MoveLog() []Move {
	moves := make([]Move, len(g.moveLog))
	for i, e := range g.moveLog {
		moves[i] = e.move
	}
	return moves
}

// SetFullMoveNumber numbers the current position as fullmove n, for
// positions loaded mid-game.
func (g *GameState) SetFullMoveNumber(n int) {
	ply := (n - 1) * 2
	if !g.whiteToMove {
		ply++
	}
	g.startPly = ply - len(g.moveLog)
}

// FullMoveNumber starts at 1 and increments after each black move.
func (g *GameState) FullMoveNumber() int {
	return (g.startPly+len(g.moveLog))/2 + 1
}

// The following flags reflect the last ValidMoves call.

func (g *GameState) InCheck() bool   { return g.inCheck }
func (g *GameState) CheckMate() bool { return g.checkMate }
func (g *GameState) StaleMate() bool { return g.staleMate }

// IsKingAttacked reports whether the king of color c is attacked right now,
// regardless of whose turn it is.
func (g *GameState) IsKingAttacked(c Color) bool {
	return g.detect(c).inCheck
}

// NewMove builds a move between two squares against the current board.
func (g *GameState) NewMove(start, end Square) (Move, error) {
	return NewMove(start, end, &g.board, g.hasEnPassant && end == g.enPassant && g.pieceIs(start, Pawn) && start.Col != end.Col)
}

func (g *GameState) pieceIs(sq Square, k Kind) bool {
	p, err := g.board.At(sq)
	return err == nil && p.Kind == k
}

func (g *GameState) kingSquare(c Color) Square {
	if c == White {
		return g.whiteKing
	}
	return g.blackKing
}

func (g *GameState) setKingSquare(c Color, sq Square) {
	if c == White {
		g.whiteKing = sq
	} else {
		g.blackKing = sq
	}
}

func (g *GameState) detect(us Color) checkInfo {
	return detectPinsAndChecks(&g.board, g.kingSquare(us), us)
}

// ValidMoves returns every legal move for the side to move and refreshes the
// check, checkmate and stalemate flags.
func (g *GameState) ValidMoves() []Move {
	us := g.ToMove()
	info := g.detect(us)
	g.inCheck = info.inCheck

	var moves []Move
	switch len(info.checks) {
	case 0:
		moves = g.pseudoLegalMoves(&info)
	case 1:
		moves = g.blockOrCapture(g.pseudoLegalMoves(&info), info.checks[0])
	default:
		// double check: only the king can move
		moves = g.kingMoves(g.kingSquare(us), us, nil)
	}

	g.checkMate = len(moves) == 0 && info.inCheck
	g.staleMate = len(moves) == 0 && !info.inCheck
	return moves
}

// blockOrCapture keeps king moves and moves that land on a rescue square.
func (g *GameState) blockOrCapture(moves []Move, check Check) []Move {
	rescue := g.rescueSquares(check)
	legal := moves[:0]
	for _, m := range moves {
		switch {
		case m.PieceMoved.Kind == King:
			legal = append(legal, m)
		case slices.Contains(rescue, m.End):
			legal = append(legal, m)
		case m.IsEnpassantMove && slices.Contains(rescue, m.enPassantVictim()):
			// taking the checking pawn en passant
			legal = append(legal, m)
		}
	}
	return legal
}

func (g *GameState) rescueSquares(check Check) []Square {
	if g.board.get(check.Square).Kind == Knight {
		return []Square{check.Square}
	}
	king := g.kingSquare(g.ToMove())
	squares := make([]Square, 0, 7)
	for i := 1; i < 8; i++ {
		sq := Square{Row: king.Row + check.Dir.DRow*i, Col: king.Col + check.Dir.DCol*i}
		squares = append(squares, sq)
		if sq == check.Square {
			break
		}
	}
	return squares
}

// MakeMove applies m, which must have been built against the current board.
// It is the only place the board and the king cache change together.
func (g *GameState) MakeMove(m Move) {
	g.board.set(m.Start, Empty)
	g.board.set(m.End, m.PieceMoved)
	g.moveLog = append(g.moveLog, logEntry{move: m, prevEnPassant: g.enPassant, hadEnPassant: g.hasEnPassant})
	g.whiteToMove = !g.whiteToMove
	if m.PieceMoved.Kind == King {
		g.setKingSquare(m.PieceMoved.Color, m.End)
	}

	if m.IsPawnPromotion {
		g.board.set(m.End, Piece{Color: m.PieceMoved.Color, Kind: Queen})
	}
	if m.IsEnpassantMove {
		g.board.set(m.enPassantVictim(), Empty)
	}

	if m.isDoublePush() {
		g.enPassant = Square{Row: (m.Start.Row + m.End.Row) / 2, Col: m.Start.Col}
		g.hasEnPassant = true
	} else {
		g.enPassant, g.hasEnPassant = Square{}, false
	}
}

// UndoMove reverts the most recent move. It reports false, and does nothing,
// when no move has been made.
func (g *GameState) UndoMove() bool {
	if len(g.moveLog) == 0 {
		return false
	}
	e := g.moveLog[len(g.moveLog)-1]
	g.moveLog = g.moveLog[:len(g.moveLog)-1]
	m := e.move

	g.board.set(m.Start, m.PieceMoved)
	g.board.set(m.End, m.PieceCaptured)
	g.whiteToMove = !g.whiteToMove
	if m.PieceMoved.Kind == King {
		g.setKingSquare(m.PieceMoved.Color, m.Start)
	}
	if m.IsEnpassantMove {
		g.board.set(m.End, Empty)
		g.board.set(m.enPassantVictim(), m.PieceCaptured)
	}
	g.enPassant, g.hasEnPassant = e.prevEnPassant, e.hadEnPassant
	return true
}
