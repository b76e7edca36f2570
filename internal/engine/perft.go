package engine

// Perft counts the leaf nodes of the legal move tree to the given depth.
// Promotions only ever produce a queen, so counts differ from reference
// tables in positions where underpromotion is reachable. The terminal flags
// are left describing the last position visited; call ValidMoves to refresh.
func Perft(g *GameState, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := g.ValidMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		g.MakeMove(m)
		nodes += Perft(g, depth-1)
		g.UndoMove()
	}
	return nodes
}

// PerftDivide returns the perft count below each root move, keyed by
// Move.String().
func PerftDivide(g *GameState, depth int) map[string]uint64 {
	div := make(map[string]uint64)
	if depth <= 0 {
		return div
	}
	for _, m := range g.ValidMoves() {
		g.MakeMove(m)
		div[m.String()] = Perft(g, depth-1)
		g.UndoMove()
	}
	return div
}
