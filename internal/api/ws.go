package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/serpent-arena/internal/arena"
	"github.com/vovakirdan/serpent-arena/internal/storage"
)

// Play protocol. Single-char "t" field for message type.
//
//	Client -> Server:
//	  "d" = direction {"t":"d","x":0,"y":-1}
//	  "e" = end game  {"t":"e"}
//	Server -> Client:
//	  "w" = welcome   {"t":"w","i":"conn-id","c":32,"r":24,"p":160}
//	  "s" = state     {"t":"s","k":tick,"p":score,"f":[x,y],"s":[snakes],"a":running}
//	  "o" = game over {"t":"o","score":N}  sent exactly once
//	  "x" = error     {"t":"x","m":"message"}
const (
	MsgDirection = "d"
	MsgEnd       = "e"
	MsgWelcome   = "w"
	MsgState     = "s"
	MsgOver      = "o"
	MsgError     = "x"
)

// ClientMessage is an incoming play message.
type ClientMessage struct {
	Type string `json:"t"`
	X    int    `json:"x,omitempty"`
	Y    int    `json:"y,omitempty"`
}

// WelcomeMsg is sent once the game is set up.
type WelcomeMsg struct {
	Type     string `json:"t"`
	ID       string `json:"i"`
	Cols     int    `json:"c"`
	Rows     int    `json:"r"`
	PeriodMS int64  `json:"p"`
}

// SnakeDTO is one snake of a state frame.
// {"b":[[x,y],...],"c":"#color","a":1,"y":1,"z":3}
type SnakeDTO struct {
	Body   [][2]int `json:"b"`
	Color  string   `json:"c"`
	Alive  int      `json:"a"`           // 0 or 1
	Player int      `json:"y,omitempty"` // 1 for the player snake
	Size   int      `json:"z"`
}

// StateMsg is sent after every tick.
type StateMsg struct {
	Type    string     `json:"t"`
	Tick    uint64     `json:"k"`
	Score   int        `json:"p"`
	Food    [2]int     `json:"f"`
	Snakes  []SnakeDTO `json:"s"`
	Running bool       `json:"a"`
}

// OverMsg carries the final score.
type OverMsg struct {
	Type  string `json:"t"`
	Score int    `json:"score"`
}

// ErrorMsg reports a refused or failed game.
type ErrorMsg struct {
	Type    string `json:"t"`
	Message string `json:"m"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Same policy as the REST endpoints: any origin.
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

const (
	// persistTimeout bounds saving a finished game's score.
	persistTimeout = 5 * time.Second

	// maxMessageBytes bounds incoming client messages.
	maxMessageBytes = 512
)

func stateFrame(snap arena.Snapshot) StateMsg {
	snakes := make([]SnakeDTO, 0, len(snap.Board.Snakes))
	for _, sn := range snap.Board.Snakes {
		body := make([][2]int, len(sn.Body))
		for i, p := range sn.Body {
			body[i] = [2]int{p.X, p.Y}
		}
		dto := SnakeDTO{Body: body, Color: sn.Color, Size: sn.Size}
		if sn.Alive {
			dto.Alive = 1
		}
		if sn.Player {
			dto.Player = 1
		}
		snakes = append(snakes, dto)
	}
	return StateMsg{
		Type:    MsgState,
		Tick:    snap.Tick,
		Score:   snap.Score,
		Food:    [2]int{snap.Board.Food.X, snap.Board.Food.Y},
		Snakes:  snakes,
		Running: snap.Running,
	}
}

// sendErrorAndClose sends an error message via WebSocket then closes the connection
func sendErrorAndClose(ws *websocket.Conn, msg string) {
	data, _ := json.Marshal(ErrorMsg{Type: MsgError, Message: msg})
	deadline := time.Now().Add(writeWait)
	closeMsg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, msg)

	_ = ws.SetWriteDeadline(deadline)
	_ = ws.WriteMessage(websocket.TextMessage, data)
	_ = ws.WriteControl(websocket.CloseMessage, closeMsg, deadline)
	ws.Close()
}

// handlePlay runs one server-side game per websocket connection.
// Query: userId (optional, enables score persistence), color (#rrggbb), style.
func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID := q.Get("userId")
	color := q.Get("color")
	if !hexColor.MatchString(color) {
		color = storage.DefaultSnakeColor
	}
	style, err := arena.ParseStyle(q.Get("style"))
	if err != nil {
		style = arena.StyleClassic
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("ws upgrade failed", "error", err)
		return
	}
	ws.SetReadLimit(maxMessageBytes)

	conn := NewConn(ws)
	// Check limits after upgrade so client can receive error messages
	if !s.hub.TryAdd(conn, s.opts.MaxSessions) {
		sendErrorAndClose(ws, "server full, try again later")
		return
	}
	defer s.hub.Remove(conn.ID)

	logger := s.logger.With("conn", conn.ID, "user", userID)
	logger.Info("game started", "remote", r.RemoteAddr, "style", style)

	settings := s.opts.Settings
	session := arena.NewSession(settings, color, s.opts.Seed)

	ctx, cancel := context.WithCancel(s.baseCtx)
	defer cancel()

	driver := arena.NewDriver(session, arena.DriverOptions{
		OnTick: func(snap arena.Snapshot) {
			if err := conn.Send(stateFrame(snap)); err != nil {
				logger.Debug("state send failed", "error", err)
			}
		},
		OnEnd: func(score int) {
			s.persistScore(logger, userID, score)
			conn.Send(OverMsg{Type: MsgOver, Score: score}) //nolint:errcheck
			logger.Info("game over", "score", score, "reason", session.Snapshot().Reason)
		},
	})

	conn.Send(WelcomeMsg{ //nolint:errcheck
		Type:     MsgWelcome,
		ID:       conn.ID,
		Cols:     settings.Grid.Cols,
		Rows:     settings.Grid.Rows,
		PeriodMS: settings.TickPeriod.Milliseconds(),
	})

	go func() {
		err := driver.Run(ctx)
		switch {
		case err == nil:
			conn.Close(websocket.CloseNormalClosure, "game over")
		case s.baseCtx.Err() != nil:
			conn.Close(websocket.CloseGoingAway, "server shutting down")
		case !errors.Is(err, context.Canceled):
			logger.Error("driver stopped", "error", err)
			conn.Close(websocket.CloseInternalServerErr, "internal error")
		default:
			// Client went away; nothing left to tell it.
			conn.Close(websocket.CloseNormalClosure, "")
		}
	}()

	s.readLoop(conn, session, driver)

	// Disconnect without a finished game tears down without reporting.
	cancel()
	<-driver.Done()
}

// readLoop applies client messages until the socket closes.
func (s *Server) readLoop(conn *Conn, session *arena.Session, driver *arena.Driver) {
	for {
		_, raw, err := conn.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("ws read error", "conn", conn.ID, "error", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.logger.Debug("bad message", "conn", conn.ID, "error", err)
			continue
		}

		switch msg.Type {
		case MsgDirection:
			session.Steer(arena.Direction{X: msg.X, Y: msg.Y})
		case MsgEnd:
			driver.End()
		}
	}
}

// persistScore saves a finished game when the player is signed in.
func (s *Server) persistScore(logger *log.Logger, userID string, score int) {
	if userID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	_, err := s.store.SaveScore(ctx, userID, score)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		logger.Warn("score dropped for unknown user", "score", score)
	case err != nil:
		logger.Error("cannot save score", "score", score, "error", err)
	}
}
