// Command perft counts legal move tree leaves from a FEN position, for
// checking the move generator against published tables.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/text"

	"github.com/benbeisheim/chessrules-backend/internal/engine"
	"github.com/benbeisheim/chessrules-backend/internal/fen"
)

func main() {
	position := flag.String("fen", fen.StartPos, "FEN string (defaults to initial position)")
	depth := flag.Int("depth", 0, "Perft depth (required)")
	divide := flag.Bool("divide", false, "Print per-move node counts at root")
	flag.Parse()

	log.SetHandler(text.New(os.Stderr))

	if *depth <= 0 {
		fmt.Fprintln(os.Stderr, "-depth must be > 0")
		os.Exit(2)
	}

	g, err := fen.Parse(*position)
	if err != nil {
		log.WithError(err).WithField("fen", *position).Fatal("parsing position")
	}

	if *divide {
		board := g.Board()
		fmt.Print(board.String(), "\n")
		div := engine.PerftDivide(g, *depth)
		moves := make([]string, 0, len(div))
		for m := range div {
			moves = append(moves, m)
		}
		sort.Strings(moves)
		var sum uint64
		for _, m := range moves {
			fmt.Printf("%s: %d\n", m, div[m])
			sum += div[m]
		}
		fmt.Printf("Total: %d\n", sum)
		return
	}

	start := time.Now()
	nodes := engine.Perft(g, *depth)
	elapsed := time.Since(start)
	fmt.Printf("depth %d \t%d nodes \t%s \t%.0f nps\n", *depth, nodes, elapsed, float64(nodes)/elapsed.Seconds())
}
