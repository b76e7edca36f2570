package engine

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Kind is the closed set of chess piece kinds. NoKind marks an empty square.
type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Rook
	Knight
	Bishop
	Queen
	King
)

func (k Kind) String() string {
	switch k {
	case Pawn:
		return "pawn"
	case Rook:
		return "rook"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Queen:
		return "queen"
	case King:
		return "king"
	}
	return ""
}

// Letter returns the kind's single-letter code: p, R, N, B, Q, K.
func (k Kind) Letter() byte {
	switch k {
	case Pawn:
		return 'p'
	case Rook:
		return 'R'
	case Knight:
		return 'N'
	case Bishop:
		return 'B'
	case Queen:
		return 'Q'
	case King:
		return 'K'
	}
	return '-'
}

// Piece is a colored piece; the zero value is an empty square.
type Piece struct {
	Color Color
	Kind  Kind
}

var Empty = Piece{}

func (p Piece) IsEmpty() bool {
	return p.Kind == NoKind
}

// String renders the piece as "wp", "bK", ... or "--" when empty.
func (p Piece) String() string {
	if p.IsEmpty() {
		return "--"
	}
	c := byte('w')
	if p.Color == Black {
		c = 'b'
	}
	return string([]byte{c, p.Kind.Letter()})
}
