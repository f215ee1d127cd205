// Package spectate lets remote watchers follow live games over WebSocket.
//
// Each running game publishes its snapshot to a Hub under a session id.
// Watchers connect to /ws?session=<id> and receive the latest snapshot
// immediately, then one message per completed move. /sessions lists the
// games currently being published.
//
//	hub := spectate.NewHub(logger)
//	go hub.Run(ctx)
//	http.ListenAndServe(":8080", hub.Handler())
package spectate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-2048/internal/game"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Watchers never send payloads; anything larger than this is a misbehaving peer.
	maxMessageSize = 512

	// Publisher events buffered before new ones are dropped.
	eventBuffer = 256
)

// Events carried in Message.Event.
const (
	EventSnapshot = "snapshot"
	EventEnded    = "session_ended"
)

// ErrClosed is returned once the hub has stopped running.
var ErrClosed = errors.New("spectate: hub closed")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is what watchers receive.
type Message struct {
	SessionID string         `json:"session_id"`
	Event     string         `json:"event"`
	Snapshot  *game.Snapshot `json:"snapshot,omitempty"`
}

// SessionInfo describes a published game.
type SessionInfo struct {
	ID       string    `json:"id"`
	Player   string    `json:"player"`
	Variant  string    `json:"variant"`
	Score    int       `json:"score"`
	Status   string    `json:"status"`
	Watchers int       `json:"watchers"`
	Started  time.Time `json:"started"`
}

type session struct {
	info    SessionInfo
	live    bool   // a publisher is attached
	last    []byte // latest encoded snapshot message
	clients map[*client]bool
}

type eventKind int

const (
	eventOpen eventKind = iota
	eventPublish
	eventEnd
)

type event struct {
	kind     eventKind
	id       string
	player   string
	snapshot game.Snapshot
	data     []byte
}

type client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

// Hub owns every session and watcher. All state is touched only by Run.
type Hub struct {
	logger     *log.Logger
	sessions   map[string]*session
	events     chan event
	register   chan *client
	unregister chan *client
	list       chan chan []SessionInfo
	done       chan struct{}
}

// NewHub creates a hub. A nil logger uses the package default.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		logger:     logger,
		sessions:   make(map[string]*session),
		events:     make(chan event, eventBuffer),
		register:   make(chan *client),
		unregister: make(chan *client),
		list:       make(chan chan []SessionInfo),
		done:       make(chan struct{}),
	}
}

// Run processes hub events until ctx is done, then disconnects every watcher.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for _, s := range h.sessions {
				for c := range s.clients {
					close(c.send)
				}
			}
			h.sessions = make(map[string]*session)
			return

		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case ev := <-h.events:
			h.handleEvent(ev)

		case reply := <-h.list:
			reply <- h.snapshotInfo()
		}
	}
}

// Open announces a new published session.
func (h *Hub) Open(id, player string) {
	h.enqueue(event{kind: eventOpen, id: id, player: player})
}

// Publish sends a snapshot to everyone watching id.
func (h *Hub) Publish(id string, snap game.Snapshot) {
	data, err := json.Marshal(Message{SessionID: id, Event: EventSnapshot, Snapshot: &snap})
	if err != nil {
		h.logger.Error("encode snapshot", "session", id, "err", err)
		return
	}
	h.enqueue(event{kind: eventPublish, id: id, snapshot: snap, data: data})
}

// End tells watchers the session is over and removes it.
func (h *Hub) End(id string) {
	h.enqueue(event{kind: eventEnd, id: id})
}

// enqueue never blocks the game loop; a full buffer drops the event.
func (h *Hub) enqueue(ev event) {
	select {
	case h.events <- ev:
	default:
		h.logger.Warn("spectator queue full, dropping event", "session", ev.id)
	}
}

// Sessions returns the live sessions sorted by start time.
func (h *Hub) Sessions(ctx context.Context) ([]SessionInfo, error) {
	reply := make(chan []SessionInfo, 1)
	select {
	case h.list <- reply:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-h.done:
		return nil, ErrClosed
	}
	select {
	case infos := <-reply:
		return infos, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (h *Hub) lookup(id string) *session {
	s, ok := h.sessions[id]
	if !ok {
		s = &session{info: SessionInfo{ID: id}, clients: make(map[*client]bool)}
		h.sessions[id] = s
	}
	return s
}

func (h *Hub) handleEvent(ev event) {
	switch ev.kind {
	case eventOpen:
		s := h.lookup(ev.id)
		s.live = true
		s.info.Player = ev.player
		s.info.Started = time.Now()
		h.logger.Debug("session published", "session", ev.id, "player", ev.player)

	case eventPublish:
		s := h.lookup(ev.id)
		s.live = true
		s.last = ev.data
		s.info.Variant = ev.snapshot.Variant
		s.info.Score = ev.snapshot.Score
		s.info.Status = string(ev.snapshot.Status)
		if s.info.Started.IsZero() {
			s.info.Started = time.Now()
		}
		h.broadcast(s, ev.data)

	case eventEnd:
		s, ok := h.sessions[ev.id]
		if !ok {
			return
		}
		data, err := json.Marshal(Message{SessionID: ev.id, Event: EventEnded})
		if err != nil {
			h.logger.Error("encode end", "session", ev.id, "err", err)
		} else {
			h.broadcast(s, data)
		}
		for c := range s.clients {
			close(c.send)
		}
		delete(h.sessions, ev.id)
		h.logger.Debug("session ended", "session", ev.id)
	}
}

func (h *Hub) broadcast(s *session, data []byte) {
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			// Watcher is not keeping up.
			h.dropClient(s, c)
		}
	}
}

func (h *Hub) registerClient(c *client) {
	s := h.lookup(c.sessionID)
	s.clients[c] = true
	if s.last != nil {
		c.send <- s.last
	}
	h.logger.Info("watcher joined", "session", c.sessionID, "watchers", len(s.clients))
}

func (h *Hub) unregisterClient(c *client) {
	s, ok := h.sessions[c.sessionID]
	if !ok || !s.clients[c] {
		return
	}
	h.dropClient(s, c)
	h.logger.Info("watcher left", "session", c.sessionID, "watchers", len(s.clients))
}

func (h *Hub) dropClient(s *session, c *client) {
	delete(s.clients, c)
	close(c.send)
	if len(s.clients) == 0 && !s.live {
		delete(h.sessions, c.sessionID)
	}
}

func (h *Hub) snapshotInfo() []SessionInfo {
	infos := make([]SessionInfo, 0, len(h.sessions))
	for _, s := range h.sessions {
		if !s.live {
			continue
		}
		info := s.info
		info.Watchers = len(s.clients)
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Started.Equal(infos[j].Started) {
			return infos[i].ID < infos[j].ID
		}
		return infos[i].Started.Before(infos[j].Started)
	})
	return infos
}

// readPump keeps the connection alive and notices when the watcher leaves.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("watcher connection error", "session", c.sessionID, "err", err)
			}
			return
		}
	}
}

// writePump delivers hub messages and pings to the watcher.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
