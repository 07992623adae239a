// Package gateway exposes the draft over HTTP: a websocket feed of draft
// events per league plus a small JSON API over the orchestrator.
package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/trendforge/fantasymarket/internal/draft/events"
	"github.com/trendforge/fantasymarket/internal/notify"
)

// ManagerConfig holds websocket connection settings.
type ManagerConfig struct {
	WriteTimeout    time.Duration
	PongTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		WriteTimeout:    10 * time.Second,
		PongTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		// TODO restrict origins once the frontend host is settled
		CheckOrigin: func(*http.Request) bool { return true },
	}
}

// Manager owns the websocket connections, pooled per league, and pushes
// every broadcast event to the league's watchers in publish order.
type Manager struct {
	mu       sync.RWMutex
	byLeague map[uuid.UUID]map[*connection]struct{}

	upgrader websocket.Upgrader
	cfg      ManagerConfig
}

type connection struct {
	id       uuid.UUID
	leagueID uuid.UUID
	ws       *websocket.Conn
	send     chan []byte
}

func NewManager(cfg ManagerConfig) *Manager {
	return &Manager{
		byLeague: make(map[uuid.UUID]map[*connection]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     cfg.CheckOrigin,
		},
		cfg: cfg,
	}
}

// Run consumes the broadcaster feed until ctx is done. The feed channel is
// ordered per league, and each connection's writer drains its send queue in
// order, so clients observe events in publish order.
func (m *Manager) Run(ctx context.Context, feed *notify.Broadcaster) {
	ch := feed.Subscribe()
	defer feed.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			m.closeAll()
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			m.broadcast(ev)
		}
	}
}

func (m *Manager) broadcast(ev events.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("type", string(ev.Type)).Msg("failed to marshal event for clients")
		return
	}

	m.mu.RLock()
	conns := make([]*connection, 0, len(m.byLeague[ev.LeagueID]))
	for conn := range m.byLeague[ev.LeagueID] {
		conns = append(conns, conn)
	}
	m.mu.RUnlock()

	for _, conn := range conns {
		select {
		case conn.send <- data:
		default:
			// a stalled reader does not hold up the league
			log.Warn().
				Str("connection_id", conn.id.String()).
				Str("league_id", ev.LeagueID.String()).
				Msg("send queue full, dropping connection")
			m.drop(conn)
		}
	}
}

// Upgrade converts an HTTP request into a managed websocket connection.
func (m *Manager) Upgrade(w http.ResponseWriter, r *http.Request, leagueID uuid.UUID) error {
	ws, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	conn := &connection{
		id:       uuid.New(),
		leagueID: leagueID,
		ws:       ws,
		send:     make(chan []byte, 256),
	}

	m.mu.Lock()
	if m.byLeague[leagueID] == nil {
		m.byLeague[leagueID] = make(map[*connection]struct{})
	}
	m.byLeague[leagueID][conn] = struct{}{}
	m.mu.Unlock()

	go m.writePump(conn)
	go m.readPump(conn)

	log.Info().
		Str("connection_id", conn.id.String()).
		Str("league_id", leagueID.String()).
		Msg("websocket connected")
	return nil
}

func (m *Manager) drop(conn *connection) {
	m.mu.Lock()
	pool, ok := m.byLeague[conn.leagueID]
	if ok {
		if _, present := pool[conn]; present {
			// the send channel is never closed: a concurrent broadcast may
			// still hold a reference, and closing the socket unwinds both
			// pumps on its own
			delete(pool, conn)
			if len(pool) == 0 {
				delete(m.byLeague, conn.leagueID)
			}
		} else {
			ok = false
		}
	}
	m.mu.Unlock()

	if ok {
		conn.ws.Close()
		log.Debug().
			Str("connection_id", conn.id.String()).
			Msg("websocket disconnected")
	}
}

func (m *Manager) closeAll() {
	m.mu.Lock()
	var all []*connection
	for _, pool := range m.byLeague {
		for conn := range pool {
			all = append(all, conn)
		}
	}
	m.mu.Unlock()
	for _, conn := range all {
		m.drop(conn)
	}
}

// ConnectionCount reports active connections, total and per league.
func (m *Manager) ConnectionCount() (total int, leagues int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, pool := range m.byLeague {
		total += len(pool)
	}
	return total, len(m.byLeague)
}

func (m *Manager) writePump(conn *connection) {
	ticker := time.NewTicker(m.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case data := <-conn.send:
			conn.ws.SetWriteDeadline(time.Now().Add(m.cfg.WriteTimeout))
			if err := conn.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				m.drop(conn)
				return
			}
		case <-ticker.C:
			conn.ws.SetWriteDeadline(time.Now().Add(m.cfg.WriteTimeout))
			if err := conn.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				m.drop(conn)
				return
			}
		}
	}
}

// readPump discards client messages; the socket is a one-way event feed.
// Reading is still required to process pongs and detect closure.
func (m *Manager) readPump(conn *connection) {
	defer m.drop(conn)

	conn.ws.SetReadLimit(m.cfg.MaxMessageSize)
	conn.ws.SetReadDeadline(time.Now().Add(m.cfg.PongTimeout))
	conn.ws.SetPongHandler(func(string) error {
		conn.ws.SetReadDeadline(time.Now().Add(m.cfg.PongTimeout))
		return nil
	})

	for {
		if _, _, err := conn.ws.ReadMessage(); err != nil {
			return
		}
	}
}
