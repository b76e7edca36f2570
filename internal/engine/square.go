package engine

import "fmt"

// Square is a board coordinate. Row 0 is black's back rank, column 0 the a-file.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (s Square) InBounds() bool {
	return s.Row >= 0 && s.Row < 8 && s.Col >= 0 && s.Col < 8
}

func (s Square) add(d Direction) Square {
	return Square{Row: s.Row + d.DRow, Col: s.Col + d.DCol}
}

func (s Square) String() string {
	return Notation(s.Row, s.Col)
}

// Notation maps a (row, column) pair to algebraic file+rank text.
func Notation(row, col int) string {
	return fmt.Sprintf("%c%d", 'a'+col, 8-row)
}

// ParseSquare is the inverse of Notation.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return Square{}, fmt.Errorf("%w: %q", ErrBadSquare, s)
	}
	return Square{Row: 8 - int(s[1]-'0'), Col: int(s[0] - 'a')}, nil
}

// Direction is a unit step on the board.
type Direction struct {
	DRow int `json:"dRow"`
	DCol int `json:"dCol"`
}

func (d Direction) opposite() Direction {
	return Direction{DRow: -d.DRow, DCol: -d.DCol}
}

func (d Direction) diagonal() bool {
	return d.DRow != 0 && d.DCol != 0
}

var (
	rookDirs   = []Direction{{-1, 0}, {0, -1}, {1, 0}, {0, 1}}
	bishopDirs = []Direction{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	queenDirs  = append(append([]Direction{}, rookDirs...), bishopDirs...)
	knightDirs = []Direction{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	kingDirs   = queenDirs
)
