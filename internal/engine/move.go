package engine

import "fmt"

// Move is an immutable description of one ply. It captures the moved and
// captured pieces from the board it was built against, so it must be built
// before the move is applied.
type Move struct {
	Start           Square
	End             Square
	PieceMoved      Piece
	PieceCaptured   Piece
	IsPawnPromotion bool
	IsEnpassantMove bool
}

// NewMove builds a move from start to end against the given pre-move board.
func NewMove(start, end Square, board *Board, enPassant bool) (Move, error) {
	if !start.InBounds() || !end.InBounds() {
		return Move{}, fmt.Errorf("%w: %v -> %v", ErrOutOfBounds, start, end)
	}
	if board.get(start).IsEmpty() {
		return Move{}, fmt.Errorf("%w: %v", ErrEmptySquare, start)
	}
	return newMove(start, end, board, enPassant), nil
}

func newMove(start, end Square, board *Board, enPassant bool) Move {
	m := Move{
		Start:           start,
		End:             end,
		PieceMoved:      board.get(start),
		PieceCaptured:   board.get(end),
		IsEnpassantMove: enPassant,
	}
	if m.PieceMoved.Kind == Pawn {
		m.IsPawnPromotion = (m.PieceMoved.Color == White && end.Row == 0) ||
			(m.PieceMoved.Color == Black && end.Row == 7)
	}
	if enPassant {
		m.PieceCaptured = Piece{Color: m.PieceMoved.Color.Opponent(), Kind: Pawn}
	}
	return m
}

// ID identifies a move by its squares only.
func (m Move) ID() int {
	return m.Start.Row*1000 + m.Start.Col*100 + m.End.Row*10 + m.End.Col
}

// Equal reports whether both moves go between the same squares. Flags and
// pieces do not take part.
func (m Move) Equal(o Move) bool {
	return m.ID() == o.ID()
}

// IsCapture reports whether the move takes a piece, en passant included.
func (m Move) IsCapture() bool {
	return !m.PieceCaptured.IsEmpty()
}

// isDoublePush reports a two-square pawn advance.
func (m Move) isDoublePush() bool {
	d := m.End.Row - m.Start.Row
	return m.PieceMoved.Kind == Pawn && (d == 2 || d == -2)
}

// enPassantVictim is the square of the pawn taken by an en-passant capture.
func (m Move) enPassantVictim() Square {
	return Square{Row: m.Start.Row, Col: m.End.Col}
}

// String renders the move in coordinate form, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	s := m.Start.String() + m.End.String()
	if m.IsPawnPromotion {
		s += "q"
	}
	return s
}
