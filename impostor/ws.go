/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 32

	// DefaultPlayerTimeout is how long a connection may go without a frame
	// or a pong before it is dropped and its player removed.
	DefaultPlayerTimeout = 60 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsPeer is a websocket connection. Send and Close are only ever called
// from the hub goroutine.
type wsPeer struct {
	id      string
	conn    *websocket.Conn
	send    chan []byte
	timeout time.Duration
	closed  bool
}

func (c *wsPeer) ID() string {
	return c.id
}

func (c *wsPeer) Send(msg []byte) bool {
	if c.closed {
		return false
	}

	select {
	case c.send <- msg:
		return true
	default:
		// Too slow to keep up; dropping the socket makes readPump unregister it.
		_ = c.conn.Close()

		return false
	}
}

func (c *wsPeer) Close() {
	if c.closed {
		return
	}

	c.closed = true
	close(c.send)
}

func (c *wsPeer) readPump(h *Hub) {
	defer func() {
		h.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.timeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.timeout))
	})

	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		_ = c.conn.SetReadDeadline(time.Now().Add(c.timeout))

		if kind != websocket.TextMessage {
			continue
		}

		if !h.Deliver(c, data) {
			return
		}
	}
}

func (c *wsPeer) writePump() {
	ticker := time.NewTicker(c.timeout * 9 / 10)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})

				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWS upgrades the request and attaches the connection to h. A
// connection that sends nothing, pongs included, for playerTimeout is
// dropped; a non-positive playerTimeout means DefaultPlayerTimeout.
func ServeWS(h *Hub, playerTimeout time.Duration, logf func(format string, args ...any)) httprouter.Handle {
	if playerTimeout <= 0 {
		playerTimeout = DefaultPlayerTimeout
	}

	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf("ERROR: Upgrade failed for %s: %v", r.RemoteAddr, err)

			return
		}

		peer := &wsPeer{
			id:      uuid.NewString(),
			conn:    conn,
			send:    make(chan []byte, sendBuffer),
			timeout: playerTimeout,
		}

		if !h.Register(peer) {
			_ = conn.Close()

			return
		}

		go peer.writePump()
		peer.readPump(h)
	}
}
