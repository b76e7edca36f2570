package engine

import "fmt"

// Board is the 8x8 grid, indexed [row][col].
type Board [8][8]Piece

func (b *Board) At(sq Square) (Piece, error) {
	if !sq.InBounds() {
		return Empty, fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, sq.Row, sq.Col)
	}
	return b[sq.Row][sq.Col], nil
}

func (b *Board) get(sq Square) Piece {
	return b[sq.Row][sq.Col]
}

func (b *Board) set(sq Square, p Piece) {
	b[sq.Row][sq.Col] = p
}

// findKings returns the king squares, failing unless each color has exactly one.
func (b *Board) findKings() (white, black Square, err error) {
	var whiteCount, blackCount int
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			p := b[r][c]
			if p.Kind != King {
				continue
			}
			if p.Color == White {
				white = Square{Row: r, Col: c}
				whiteCount++
			} else {
				black = Square{Row: r, Col: c}
				blackCount++
			}
		}
	}
	if whiteCount != 1 || blackCount != 1 {
		return white, black, fmt.Errorf("%w: %d white and %d black kings", ErrInvalidPosition, whiteCount, blackCount)
	}
	return white, black, nil
}

func (b *Board) String() string {
	out := make([]byte, 0, 8*25)
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			if c > 0 {
				out = append(out, ' ')
			}
			out = append(out, b[r][c].String()...)
		}
		out = append(out, '\n')
	}
	return string(out)
}

func StandardBoard() Board {
	var b Board
	backRank := []Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for c, k := range backRank {
		b[0][c] = Piece{Color: Black, Kind: k}
		b[7][c] = Piece{Color: White, Kind: k}
		b[1][c] = Piece{Color: Black, Kind: Pawn}
		b[6][c] = Piece{Color: White, Kind: Pawn}
	}
	return b
}
