package engine

import "fmt"

// pseudoLegalMoves generates moves for every piece of the side to move,
// honoring the pins in info but not checks.
func (g *GameState) pseudoLegalMoves(info *checkInfo) []Move {
	us := g.ToMove()
	moves := make([]Move, 0, 48)
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			p := g.board[r][c]
			if p.IsEmpty() || p.Color != us {
				continue
			}
			moves = g.pieceMoves(Square{Row: r, Col: c}, p, info, moves)
		}
	}
	return moves
}

func (g *GameState) pieceMoves(sq Square, p Piece, info *checkInfo, moves []Move) []Move {
	switch p.Kind {
	case Pawn:
		return g.pawnMoves(sq, p.Color, info, moves)
	case Rook:
		return g.slidingMoves(sq, p.Color, rookDirs, info, moves)
	case Knight:
		return g.knightMoves(sq, p.Color, info, moves)
	case Bishop:
		return g.slidingMoves(sq, p.Color, bishopDirs, info, moves)
	case Queen:
		return g.slidingMoves(sq, p.Color, queenDirs, info, moves)
	case King:
		return g.kingMoves(sq, p.Color, moves)
	default:
		panic(fmt.Sprintf("engine: no move rule for piece kind %d", p.Kind))
	}
}

func alongPin(pinned bool, pinDir, d Direction) bool {
	return !pinned || d == pinDir || d == pinDir.opposite()
}

func (g *GameState) pawnMoves(sq Square, us Color, info *checkInfo, moves []Move) []Move {
	pinDir, pinned := info.pinFor(sq)
	forward, startRow := Direction{DRow: -1}, 6
	if us == Black {
		forward, startRow = Direction{DRow: 1}, 1
	}

	// Check move forward 1, then 2 from the starting rank
	one := sq.add(forward)
	if !one.InBounds() {
		return moves
	}
	if g.board.get(one).IsEmpty() && alongPin(pinned, pinDir, forward) {
		moves = append(moves, newMove(sq, one, &g.board, false))
		two := one.add(forward)
		if sq.Row == startRow && g.board.get(two).IsEmpty() {
			moves = append(moves, newMove(sq, two, &g.board, false))
		}
	}

	// Check captures, including en passant
	for _, dc := range []int{-1, 1} {
		d := Direction{DRow: forward.DRow, DCol: dc}
		target := sq.add(d)
		if !target.InBounds() || !alongPin(pinned, pinDir, d) {
			continue
		}
		p := g.board.get(target)
		if !p.IsEmpty() && p.Color != us {
			moves = append(moves, newMove(sq, target, &g.board, false))
		} else if g.hasEnPassant && target == g.enPassant && !g.enPassantExposesKing(sq, target, us) {
			moves = append(moves, newMove(sq, target, &g.board, true))
		}
	}
	return moves
}

// enPassantExposesKing plays the capture on a scratch board and re-runs
// detection. Two pawns leave their squares at once, which can open a rank or
// a diagonal through the victim that the pin scan stopped short of.
func (g *GameState) enPassantExposesKing(from, to Square, us Color) bool {
	scratch := g.board
	scratch.set(to, scratch.get(from))
	scratch.set(from, Empty)
	scratch.set(Square{Row: from.Row, Col: to.Col}, Empty)
	return detectPinsAndChecks(&scratch, g.kingSquare(us), us).inCheck
}

func (g *GameState) slidingMoves(sq Square, us Color, dirs []Direction, info *checkInfo, moves []Move) []Move {
	pinDir, pinned := info.pinFor(sq)
	for _, d := range dirs {
		if !alongPin(pinned, pinDir, d) {
			continue
		}
		for i := 1; i < 8; i++ {
			target := Square{Row: sq.Row + d.DRow*i, Col: sq.Col + d.DCol*i}
			if !target.InBounds() {
				break
			}
			p := g.board.get(target)
			if p.IsEmpty() {
				moves = append(moves, newMove(sq, target, &g.board, false))
				continue
			}
			if p.Color != us {
				moves = append(moves, newMove(sq, target, &g.board, false))
			}
			break
		}
	}
	return moves
}

func (g *GameState) knightMoves(sq Square, us Color, info *checkInfo, moves []Move) []Move {
	// no knight move stays on a line, so a pin freezes it
	if _, pinned := info.pinFor(sq); pinned {
		return moves
	}
	for _, d := range knightDirs {
		target := sq.add(d)
		if !target.InBounds() {
			continue
		}
		if p := g.board.get(target); p.IsEmpty() || p.Color != us {
			moves = append(moves, newMove(sq, target, &g.board, false))
		}
	}
	return moves
}

func (g *GameState) kingMoves(sq Square, us Color, moves []Move) []Move {
	for _, d := range kingDirs {
		target := sq.add(d)
		if !target.InBounds() {
			continue
		}
		if p := g.board.get(target); !p.IsEmpty() && p.Color == us {
			continue
		}
		if g.kingSafeAt(sq, target, us) {
			moves = append(moves, newMove(sq, target, &g.board, false))
		}
	}
	return moves
}

// kingSafeAt tentatively relocates our king from one square to another,
// re-runs detection there and puts everything back. The origin square is
// emptied while probing so the king cannot hide behind itself on a checking ray.
func (g *GameState) kingSafeAt(from, to Square, us Color) bool {
	king := g.board.get(from)
	g.board.set(from, Empty)
	g.setKingSquare(us, to)
	info := g.detect(us)
	g.setKingSquare(us, from)
	g.board.set(from, king)
	return !info.inCheck
}
