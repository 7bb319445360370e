package live

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/loom-dev/loom/pkg/loom"
	"github.com/loom-dev/loom/pkg/store"
)

// socket owns one live connection: a bound page plus the push loop that
// streams its serialized subtree whenever a bound store changes.
type socket struct {
	server *Server
	page   string
	conn   *websocket.Conn
	c      *loom.Compiled

	dirty  chan struct{}
	closed chan struct{}

	mu     sync.Mutex
	unsubs []store.Unsubscribe
	done   bool
}

func newSocket(s *Server, page string, conn *websocket.Conn, c *loom.Compiled) *socket {
	return &socket{
		server: s,
		page:   page,
		conn:   conn,
		c:      c,
		dirty:  make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

// run wires store subscriptions, starts the reader, and pushes frames
// until the connection drops.
func (k *socket) run() {
	defer k.close()

	k.conn.SetReadLimit(k.server.config.MaxMessageSize)

	for _, b := range k.c.Bindings() {
		inited := false
		unsub := b.Store.Subscribe(func(any) {
			if !inited {
				inited = true
				return
			}
			k.markDirty()
		})
		k.mu.Lock()
		k.unsubs = append(k.unsubs, unsub)
		k.mu.Unlock()
	}

	go k.readLoop()

	if !k.push() {
		return
	}

	heartbeat := time.NewTicker(k.server.config.HeartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-k.closed:
			return
		case <-k.dirty:
			// Quiet period: coalesce a burst of store writes into one
			// frame.
			timer := time.NewTimer(k.server.config.PushDebounce)
			select {
			case <-timer.C:
			case <-k.closed:
				timer.Stop()
				return
			}
			if !k.push() {
				return
			}
		case <-heartbeat.C:
			k.conn.SetWriteDeadline(time.Now().Add(k.server.config.WriteTimeout))
			if err := k.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (k *socket) markDirty() {
	select {
	case k.dirty <- struct{}{}:
	default:
	}
}

// push writes the current subtree as one text frame.
func (k *socket) push() bool {
	k.conn.SetWriteDeadline(time.Now().Add(k.server.config.WriteTimeout))
	if err := k.conn.WriteMessage(websocket.TextMessage, []byte(k.c.HTML())); err != nil {
		k.server.metrics.pushErrors.Inc()
		k.server.logger.Warn("push failed", "page", k.page, "err", err)
		return false
	}
	k.server.metrics.pushesTotal.Inc()
	return true
}

// readLoop drains client frames so pings and close handshakes work; the
// preview protocol has no client-to-server messages.
func (k *socket) readLoop() {
	defer k.close()
	for {
		k.conn.SetReadDeadline(time.Now().Add(k.server.config.ReadTimeout))
		if _, _, err := k.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				k.server.logger.Warn("read error", "page", k.page, "err", err)
			}
			return
		}
	}
}

func (k *socket) close() {
	k.mu.Lock()
	if k.done {
		k.mu.Unlock()
		return
	}
	k.done = true
	unsubs := k.unsubs
	k.unsubs = nil
	k.mu.Unlock()

	close(k.closed)
	for _, unsub := range unsubs {
		unsub()
	}
	k.c.Dispose()
	k.conn.Close()
	k.server.metrics.activeSockets.Dec()
}
