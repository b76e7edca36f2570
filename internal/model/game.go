package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/apex/log"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/chessrules-backend/internal/engine"
	"github.com/benbeisheim/chessrules-backend/internal/fen"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
)

var (
	ErrGameFull      = errors.New("game is full")
	ErrNotInGame     = errors.New("player not in game")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrNoPiece       = errors.New("no piece at from square")
	ErrIllegalMove   = errors.New("invalid move, not legal")
	ErrGameOver      = errors.New("game is over")
	ErrNothingToUndo = errors.New("no move to undo")
	ErrNotAuthorized = errors.New("not authorized to join this game")
)

// The connections for a specific game
type GameConnections struct {
	connections map[string]*websocket.Conn // playerID -> connection
	sent        uint64                     // version of the newest state written
	mu          sync.Mutex
}

// Game owns one rules engine and serializes every access to it through mu,
// so exactly one caller drives a ValidMoves/MakeMove/UndoMove cycle at a time.
type Game struct {
	ID          string
	mu          sync.Mutex
	rules       *engine.GameState
	legalMoves  []engine.Move
	history     []Ply
	players     players
	sound       string
	lastMove    *SimpleMove
	version     uint64
	connections *GameConnections
}

type players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

// GameState is the snapshot sent to clients.
type GameState struct {
	Sound           string       `json:"sound"`
	Board           *BoardState  `json:"boardState"`
	ToMove          string       `json:"toMove"`
	MoveHistory     []Move       `json:"moveHistory"`
	IsCheck         bool         `json:"isCheck"`
	LegalMoves      []SimpleMove `json:"legalMoves"`
	EnPassantTarget *Position    `json:"enPassantTarget"`
	Resolve         *string      `json:"resolve"`
	Players         players      `json:"players"`
	LastMove        *SimpleMove  `json:"lastMove"`
	FEN             string       `json:"fen"`
}

func NewGame(id string) *Game {
	g := &Game{
		ID:          id,
		rules:       engine.NewGameState(),
		history:     make([]Ply, 0),
		connections: NewGameConnections(),
	}
	g.refresh()
	return g
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*websocket.Conn),
	}
}

func (g *Game) AddPlayer(playerID string) (PlayerColor, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if color := g.seatOf(playerID); color != "" {
		return color, nil
	}
	if g.players.White.ID == "" {
		g.players.White = ClientPlayer{ID: playerID, Color: string(PlayerColorWhite)}
		log.WithFields(log.Fields{"game": g.ID, "player": playerID}).Info("player seated as white")
		return PlayerColorWhite, nil
	}
	if g.players.Black.ID == "" {
		g.players.Black = ClientPlayer{ID: playerID, Color: string(PlayerColorBlack)}
		log.WithFields(log.Fields{"game": g.ID, "player": playerID}).Info("player seated as black")
		return PlayerColorBlack, nil
	}
	return "", ErrGameFull
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.snapshot()
}

func (g *Game) seatOf(playerID string) PlayerColor {
	switch {
	case playerID == "":
		return ""
	case g.players.White.ID == playerID:
		return PlayerColorWhite
	case g.players.Black.ID == playerID:
		return PlayerColorBlack
	}
	return ""
}

func (g *Game) canSpectate() bool {
	return g.players.White.ID == "" || g.players.Black.ID == ""
}

func (g *Game) toMove() PlayerColor {
	return PlayerColor(g.rules.ToMove().String())
}

// LegalMoves lists the legal moves for the side to move, optionally only
// those starting on from.
func (g *Game) LegalMoves(from *Position) []SimpleMove {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.simpleMoves(from)
}

func (g *Game) simpleMoves(from *Position) []SimpleMove {
	moves := make([]SimpleMove, 0, len(g.legalMoves))
	for _, m := range g.legalMoves {
		if from != nil && from.square() != m.Start {
			continue
		}
		moves = append(moves, SimpleMove{From: positionOf(m.Start), To: positionOf(m.End)})
	}
	return moves
}

func (g *Game) MakeMove(playerID string, move WSMove) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	logger := log.WithFields(log.Fields{"game": g.ID, "player": playerID, "from": move.From, "to": move.To})

	if g.resolve() != nil {
		return ErrGameOver
	}
	color := g.seatOf(playerID)
	if color == "" {
		return ErrNotInGame
	}
	if color != g.toMove() {
		return ErrNotYourTurn
	}

	legal, err := g.validateMove(move)
	if err != nil {
		logger.WithError(err).Debug("move rejected")
		return err
	}
	ply := g.executeMove(legal)
	logger.WithField("notation", ply.Notation).Info("move made")

	g.broadcast()
	return nil
}

// validateMove returns the legal move matching the client's squares. The
// legal move carries the en passant and promotion flags the client omits.
func (g *Game) validateMove(move WSMove) (engine.Move, error) {
	candidate, err := g.rules.NewMove(move.From.square(), move.To.square())
	switch {
	case errors.Is(err, engine.ErrEmptySquare):
		return engine.Move{}, ErrNoPiece
	case err != nil:
		return engine.Move{}, err
	}

	for _, legal := range g.legalMoves {
		if legal.Equal(candidate) {
			return legal, nil
		}
	}
	return engine.Move{}, ErrIllegalMove
}

func (g *Game) executeMove(m engine.Move) Ply {
	ply := g.makePly(m)
	if m.IsCapture() {
		g.sound = "capture"
	} else {
		g.sound = "move"
	}

	g.rules.MakeMove(m)
	g.refresh()

	if g.rules.InCheck() {
		g.sound = "check"
		if g.rules.CheckMate() {
			ply.Notation += "#"
		} else {
			ply.Notation += "+"
		}
	}
	g.history = append(g.history, ply)
	g.lastMove = &SimpleMove{From: ply.From, To: ply.To}
	return ply
}

// UndoMove takes back the last ply. Only the player who made it may do so.
func (g *Game) UndoMove(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	color := g.seatOf(playerID)
	if color == "" {
		return ErrNotInGame
	}
	if len(g.history) == 0 {
		return ErrNothingToUndo
	}
	if color == g.toMove() {
		return ErrNotYourTurn
	}

	g.rules.UndoMove()
	undone := g.history[len(g.history)-1]
	g.history = g.history[:len(g.history)-1]
	g.refresh()

	g.sound = "move"
	g.lastMove = nil
	if n := len(g.history); n > 0 {
		g.lastMove = &SimpleMove{From: g.history[n-1].From, To: g.history[n-1].To}
	}
	log.WithFields(log.Fields{"game": g.ID, "player": playerID, "notation": undone.Notation}).Info("move undone")

	g.broadcast()
	return nil
}

// refresh recomputes the legal moves and the engine's terminal flags.
func (g *Game) refresh() {
	g.legalMoves = g.rules.ValidMoves()
}

func (g *Game) resolve() *string {
	var result string
	switch {
	case g.rules.CheckMate():
		result = "checkmate"
	case g.rules.StaleMate():
		result = "stalemate"
	default:
		return nil
	}
	return &result
}

func (g *Game) makePly(m engine.Move) Ply {
	ply := Ply{
		Piece:         pieceOf(m.PieceMoved, m.Start),
		From:          positionOf(m.Start),
		To:            positionOf(m.End),
		CapturedPiece: pieceOf(m.PieceCaptured, m.End),
		EnPassant:     m.IsEnpassantMove,
		Notation:      g.getNotation(m),
	}
	if m.IsEnpassantMove {
		ply.CapturedPiece.Position = Position{X: m.End.Col, Y: m.Start.Row}
	}
	if m.IsPawnPromotion {
		ply.Promotion = Queen
	}
	return ply
}

func (g *Game) getNotation(m engine.Move) string {
	from := positionOf(m.Start)
	to := positionOf(m.End)
	piece := pieceTypeOf(m.PieceMoved.Kind)
	pieceNotationPrefix := piece.getPieceNotation()
	pieceNotationCapture := ""
	if m.IsCapture() {
		pieceNotationCapture = "x"
	}
	pieceNotationSuffix := to.getSquareNotation()
	pawnFileSpecifier := ""
	if piece == Pawn && from.X != to.X {
		pawnFileSpecifier = from.getFileNotation()
	}
	if m.IsPawnPromotion {
		pieceNotationSuffix += "=Q"
	}
	return fmt.Sprintf("%s%s%s%s", pieceNotationPrefix, pawnFileSpecifier, pieceNotationCapture, pieceNotationSuffix)
}

func (g *Game) snapshot() GameState {
	state := GameState{
		Sound:       g.sound,
		Board:       newBoardState(g.rules),
		ToMove:      string(g.toMove()),
		MoveHistory: pairPlies(g.history),
		IsCheck:     g.rules.InCheck(),
		LegalMoves:  g.simpleMoves(nil),
		Resolve:     g.resolve(),
		Players:     g.players,
		FEN:         fen.Encode(g.rules),
	}
	if sq, ok := g.rules.EnPassantTarget(); ok {
		p := positionOf(sq)
		state.EnPassantTarget = &p
	}
	if g.lastMove != nil {
		last := *g.lastMove
		state.LastMove = &last
	}
	return state
}

func (g *Game) RegisterConnection(playerID string, conn *websocket.Conn) error {
	logger := log.WithFields(log.Fields{"game": g.ID, "player": playerID, "conn": fmt.Sprintf("%p", conn)})

	g.mu.Lock()
	isAuthorized := g.seatOf(playerID) != "" || g.canSpectate()
	g.mu.Unlock()

	if !isAuthorized {
		return ErrNotAuthorized
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// If we already have a healthy connection, keep it and reject the new one
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		conn.Close()
		logger.Info("duplicate connection rejected")
		return nil // Not really an error, just rejecting duplicate connection
	}

	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	logger.Info("connection registered")

	// Send initial state
	g.mu.Lock()
	g.broadcast()
	g.mu.Unlock()
	return nil
}

// UnregisterConnection drops conn if it is still the player's current connection.
func (g *Game) UnregisterConnection(playerID string, conn *websocket.Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if current, exists := g.connections.connections[playerID]; exists && current == conn {
		delete(g.connections.connections, playerID)
		log.WithFields(log.Fields{"game": g.ID, "player": playerID}).Info("connection unregistered")
	}
}

// broadcast snapshots the state under g.mu and sends it in the background.
// Each snapshot is numbered so a send that loses the race to a newer one is
// dropped instead of overwriting it on the clients.
func (g *Game) broadcast() {
	g.version++
	go g.broadcastState(g.version, g.snapshot())
}

func (g *Game) broadcastState(version uint64, state GameState) {
	payload, err := json.Marshal(state)
	if err != nil {
		log.WithError(err).WithField("game", g.ID).Error("failed to marshal state")
		return
	}

	// writes to one connection must not interleave, so hold the lock throughout
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	if !g.connections.advance(version) {
		log.WithFields(log.Fields{"game": g.ID, "version": version}).Debug("stale state dropped")
		return
	}
	for playerID, conn := range g.connections.connections {
		if err := conn.WriteJSON(ws.Message{
			Type:    ws.MessageTypeGameState,
			Payload: json.RawMessage(payload),
		}); err != nil {
			log.WithError(err).WithFields(log.Fields{"game": g.ID, "player": playerID}).Warn("failed to send state")
			delete(g.connections.connections, playerID)
			continue
		}
		log.WithFields(log.Fields{"game": g.ID, "player": playerID}).Debug("sent state")
	}
}

// advance records version as sent unless a newer state already went out.
// The caller holds gc.mu.
func (gc *GameConnections) advance(version uint64) bool {
	if version <= gc.sent {
		return false
	}
	gc.sent = version
	return true
}

// SendMessage writes msg to conn without interleaving with broadcasts.
func (g *Game) SendMessage(conn *websocket.Conn, msg ws.Message) error {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	return conn.WriteJSON(msg)
}
