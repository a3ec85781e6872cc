/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// NewPlayerID returns a fresh self-asserted player identifier.
func NewPlayerID() string {
	return uuid.NewString()
}

// Client speaks the room protocol over a websocket and keeps a View in
// sync with what the server sends. It is meant for a single goroutine.
type Client struct {
	conn *websocket.Conn
	view *View
}

// Dial connects to a coordinator's websocket endpoint, e.g.
// ws://localhost:8080/ws.
func Dial(ctx context.Context, url string, header http.Header) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, err
	}

	return &Client{
		conn: conn,
		view: NewView(),
	}, nil
}

// View returns the client's current picture of its room.
func (c *Client) View() *View {
	return c.view
}

// Send writes one command.
func (c *Client) Send(cmd Command) error {
	msg, err := EncodeCommand(cmd)
	if err != nil {
		return err
	}

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

// Next blocks for the next event, applies it to the view and returns it.
func (c *Client) Next(ctx context.Context) (Event, error) {
	// A zero deadline (no deadline on ctx) blocks indefinitely.
	deadline, _ := ctx.Deadline()
	_ = c.conn.SetReadDeadline(deadline)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return nil, err
		}

		ev, err := DecodeEvent(data)
		if errors.Is(err, ErrUnknownMessage) {
			continue
		}
		if err != nil {
			return nil, err
		}

		c.view.Apply(ev)

		return ev, nil
	}
}

// Await reads events until one of type T arrives.
func Await[T Event](ctx context.Context, c *Client) (T, error) {
	for {
		ev, err := c.Next(ctx)
		if err != nil {
			var zero T

			return zero, err
		}

		if t, ok := ev.(T); ok {
			return t, nil
		}
	}
}

// Close sends a close frame and drops the connection.
func (c *Client) Close() error {
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))

	return c.conn.Close()
}
