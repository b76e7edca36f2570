// Package fen reads and writes Forsyth-Edwards Notation for engine positions.
// Castling rights are accepted on input and ignored; the engine does not castle.
package fen

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/benbeisheim/chessrules-backend/internal/engine"
)

const StartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1"

var ErrInvalidFEN = errors.New("invalid FEN string")

var kindByLetter = map[byte]engine.Kind{
	'p': engine.Pawn,
	'r': engine.Rook,
	'n': engine.Knight,
	'b': engine.Bishop,
	'q': engine.Queen,
	'k': engine.King,
}

// Parse builds a GameState from a FEN string. Only the placement and side to
// move fields are required; the halfmove clock is ignored.
func Parse(s string) (*engine.GameState, error) {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return nil, fmt.Errorf("%w: want at least 2 fields, got %d", ErrInvalidFEN, len(fields))
	}

	board, err := parsePlacement(fields[0])
	if err != nil {
		return nil, err
	}

	var toMove engine.Color
	switch fields[1] {
	case "w":
		toMove = engine.White
	case "b":
		toMove = engine.Black
	default:
		return nil, fmt.Errorf("%w: side to move %q", ErrInvalidFEN, fields[1])
	}

	var enPassant *engine.Square
	if len(fields) >= 4 && fields[3] != "-" {
		sq, err := engine.ParseSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("%w: en passant: %v", ErrInvalidFEN, err)
		}
		enPassant = &sq
	}

	g, err := engine.NewGameStateFromPosition(board, toMove, enPassant)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	if len(fields) >= 6 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: fullmove number %q", ErrInvalidFEN, fields[5])
		}
		g.SetFullMoveNumber(n)
	}
	return g, nil
}

func parsePlacement(placement string) (engine.Board, error) {
	var board engine.Board
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return board, fmt.Errorf("%w: want 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}
	for row, rank := range ranks {
		col := 0
		for i := 0; i < len(rank); i++ {
			ch := rank[i]
			if ch >= '1' && ch <= '8' {
				col += int(ch - '0')
				continue
			}
			color := engine.White
			lower := ch
			if ch >= 'a' && ch <= 'z' {
				color = engine.Black
			} else {
				lower = ch + ('a' - 'A')
			}
			kind, ok := kindByLetter[lower]
			if !ok {
				return board, fmt.Errorf("%w: unknown piece %q", ErrInvalidFEN, ch)
			}
			if col > 7 {
				return board, fmt.Errorf("%w: rank %d too long", ErrInvalidFEN, 8-row)
			}
			board[row][col] = engine.Piece{Color: color, Kind: kind}
			col++
		}
		if col != 8 {
			return board, fmt.Errorf("%w: rank %d has %d squares", ErrInvalidFEN, 8-row, col)
		}
	}
	return board, nil
}

// Encode writes the position of g. Castling is always "-" and the halfmove
// clock is always 0.
func Encode(g *engine.GameState) string {
	board := g.Board()
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		if row > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for col := 0; col < 8; col++ {
			p := board[row][col]
			if p.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(letter(p))
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
	}

	if g.WhiteToMove() {
		sb.WriteString(" w - ")
	} else {
		sb.WriteString(" b - ")
	}
	if sq, ok := g.EnPassantTarget(); ok {
		sb.WriteString(sq.String())
	} else {
		sb.WriteByte('-')
	}
	fmt.Fprintf(&sb, " 0 %d", g.FullMoveNumber())
	return sb.String()
}

var letters = [...]byte{
	engine.Pawn:   'p',
	engine.Rook:   'r',
	engine.Knight: 'n',
	engine.Bishop: 'b',
	engine.Queen:  'q',
	engine.King:   'k',
}

func letter(p engine.Piece) byte {
	ch := letters[p.Kind]
	if p.Color == engine.White {
		ch -= 'a' - 'A'
	}
	return ch
}
