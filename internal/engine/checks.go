package engine

// Pin records an ally piece that may only move along Dir (or its opposite)
// without exposing its king. Dir points from the king toward the pinner.
type Pin struct {
	Square Square
	Dir    Direction
}

// Check records a piece attacking the king. For sliders and adjacent
// attackers Dir points from the king toward the attacker; for knights it is
// the knight offset and carries no ray meaning.
type Check struct {
	Square Square
	Dir    Direction
}

type checkInfo struct {
	inCheck bool
	pins    []Pin
	checks  []Check
}

func (info *checkInfo) pinFor(sq Square) (Direction, bool) {
	for _, p := range info.pins {
		if p.Square == sq {
			return p.Dir, true
		}
	}
	return Direction{}, false
}

// detectPinsAndChecks scans outward from the king of color us.
func detectPinsAndChecks(b *Board, king Square, us Color) checkInfo {
	var info checkInfo
	for _, d := range queenDirs {
		var candidate Square
		hasCandidate := false
		for i := 1; i < 8; i++ {
			sq := Square{Row: king.Row + d.DRow*i, Col: king.Col + d.DCol*i}
			if !sq.InBounds() {
				break
			}
			p := b.get(sq)
			if p.IsEmpty() {
				continue
			}
			if p.Color == us {
				if hasCandidate {
					// two of our own pieces shield the king on this ray
					break
				}
				candidate, hasCandidate = sq, true
				continue
			}
			if attacksAlong(p, d, i, us) {
				if hasCandidate {
					info.pins = append(info.pins, Pin{Square: candidate, Dir: d})
				} else {
					info.inCheck = true
					info.checks = append(info.checks, Check{Square: sq, Dir: d})
				}
			}
			break
		}
	}
	for _, d := range knightDirs {
		sq := king.add(d)
		if !sq.InBounds() {
			continue
		}
		if p := b.get(sq); p.Kind == Knight && p.Color != us {
			info.inCheck = true
			info.checks = append(info.checks, Check{Square: sq, Dir: d})
		}
	}
	return info
}

// attacksAlong reports whether enemy piece p, found dist squares from the
// king of color us along d, attacks back down that ray.
func attacksAlong(p Piece, d Direction, dist int, us Color) bool {
	switch p.Kind {
	case Rook:
		return !d.diagonal()
	case Bishop:
		return d.diagonal()
	case Queen:
		return true
	case King:
		return dist == 1
	case Pawn:
		if dist != 1 || !d.diagonal() {
			return false
		}
		// enemy pawns capture toward our side of the board
		if us == White {
			return d.DRow == -1
		}
		return d.DRow == 1
	}
	return false
}
