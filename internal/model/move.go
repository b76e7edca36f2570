package model

type WSMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

type Ply struct {
	Piece         *Piece    `json:"piece"`
	From          Position  `json:"from"`
	To            Position  `json:"to"`
	CapturedPiece *Piece    `json:"capturedPiece"`
	Promotion     PieceType `json:"promotion"`
	EnPassant     bool      `json:"enPassant"`
	Notation      string    `json:"notation"`
}

type Move struct {
	WhitePly *Ply `json:"whitePly"`
	BlackPly *Ply `json:"blackPly"`
}

type SimpleMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// pairPlies groups plies into numbered moves; games always start with white.
func pairPlies(plies []Ply) []Move {
	moves := make([]Move, 0, len(plies)/2+1)
	for i := range plies {
		ply := plies[i]
		if i%2 == 0 {
			moves = append(moves, Move{WhitePly: &ply})
		} else {
			moves[len(moves)-1].BlackPly = &ply
		}
	}
	return moves
}
