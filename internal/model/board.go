package model

import (
	"fmt"

	"github.com/benbeisheim/chessrules-backend/internal/engine"
)

type PieceType string

func (p PieceType) getPieceNotation() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return ""
	}
	return ""
}

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

func pieceTypeOf(k engine.Kind) PieceType {
	return PieceType(k.String())
}

type BoardState struct {
	Board             [][]*Piece `json:"board"`
	BlackKingPosition Position   `json:"blackKingPosition"`
	WhiteKingPosition Position   `json:"whiteKingPosition"`
}

type Piece struct {
	Type     PieceType `json:"type"`
	Color    string    `json:"color"`
	Position Position  `json:"position"`
}

// Position is the client's coordinate: X is the file (0 = a), Y the row
// from the top (0 = rank 8).
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) getSquareNotation() string {
	return engine.Notation(p.Y, p.X)
}

func (p Position) getFileNotation() string {
	return fmt.Sprintf("%c", p.X+97)
}

func (p Position) square() engine.Square {
	return engine.Square{Row: p.Y, Col: p.X}
}

func positionOf(sq engine.Square) Position {
	return Position{X: sq.Col, Y: sq.Row}
}

func pieceOf(p engine.Piece, sq engine.Square) *Piece {
	if p.IsEmpty() {
		return nil
	}
	return &Piece{Type: pieceTypeOf(p.Kind), Color: p.Color.String(), Position: positionOf(sq)}
}

func newBoardState(rules *engine.GameState) *BoardState {
	board := rules.Board()
	state := &BoardState{
		Board:             make([][]*Piece, 8),
		WhiteKingPosition: positionOf(rules.KingSquare(engine.White)),
		BlackKingPosition: positionOf(rules.KingSquare(engine.Black)),
	}
	for y := 0; y < 8; y++ {
		state.Board[y] = make([]*Piece, 8)
		for x := 0; x < 8; x++ {
			sq := engine.Square{Row: y, Col: x}
			state.Board[y][x] = pieceOf(board[y][x], sq)
		}
	}
	return state
}
