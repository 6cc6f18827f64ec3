// Package client connects a drawing engine to a gateway over websocket.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"

	"drawboard/protocol"
)

// Client is one websocket session with the gateway. Writes are serialized;
// inbound envelopes arrive on Incoming until the connection ends.
type Client struct {
	ws       *websocket.Conn
	mu       sync.Mutex
	incoming chan protocol.Envelope
}

// Dial connects to the gateway at rawURL, passing token as the "token" query
// parameter.
func Dial(ctx context.Context, rawURL, token string) (*Client, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	ws, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial gateway: %w", err)
	}

	c := &Client{
		ws:       ws,
		incoming: make(chan protocol.Envelope, 64),
	}
	go c.readLoop()
	return c, nil
}

func (c *Client) readLoop() {
	defer close(c.incoming)
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("gateway read error", "error", err)
			}
			return
		}
		var env protocol.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			slog.Warn("invalid message from gateway", "error", err)
			continue
		}
		c.incoming <- env
	}
}

// Incoming is closed when the connection ends.
func (c *Client) Incoming() <-chan protocol.Envelope {
	return c.incoming
}

func (c *Client) Join(roomID string) error {
	return c.write(protocol.Envelope{Type: protocol.TypeJoinRoom, RoomID: protocol.RoomID(roomID)})
}

func (c *Client) Leave(roomID string) error {
	return c.write(protocol.Envelope{Type: protocol.TypeLeaveRoom, RoomID: protocol.RoomID(roomID)})
}

// Publish sends p as a chat event for roomID.
func (c *Client) Publish(roomID string, p protocol.Payload) error {
	msg, err := protocol.EncodePayload(p)
	if err != nil {
		return err
	}
	return c.write(protocol.Envelope{Type: protocol.TypeChat, RoomID: protocol.RoomID(roomID), Message: msg})
}

func (c *Client) write(env protocol.Envelope) error {
	data, err := protocol.Encode(env)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("write %s: %w", env.Type, err)
	}
	return nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.ws.Close()
}
