// Package transport adapts gorilla websocket connections to the gateway.
package transport

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var (
	ErrSendBufferFull = errors.New("send buffer full")
	ErrClosed         = errors.New("connection closed")
)

type Options struct {
	WriteTimeout   time.Duration
	MaxMessageSize int64
	SendBuffer     int
}

func DefaultOptions() Options {
	return Options{
		WriteTimeout:   10 * time.Second,
		MaxMessageSize: 64 * 1024,
		SendBuffer:     256,
	}
}

// Handler receives the inbound side of a connection.
type Handler interface {
	OnMessage(data []byte)
	OnPong()
	OnClose()
}

// Conn pumps frames between a websocket and the gateway. Send and Ping never
// block; all socket writes happen on the write pump.
type Conn struct {
	ws   *websocket.Conn
	opts Options
	send chan []byte
	ping chan struct{}

	closeOnce sync.Once
	done      chan struct{}
}

func NewConn(ws *websocket.Conn, opts Options) *Conn {
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = DefaultOptions().SendBuffer
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = DefaultOptions().WriteTimeout
	}
	return &Conn{
		ws:   ws,
		opts: opts,
		send: make(chan []byte, opts.SendBuffer),
		ping: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

func (c *Conn) Send(data []byte) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	select {
	case c.send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Ping queues a ping frame for the write pump. A ping already queued
// absorbs the request.
func (c *Conn) Ping() error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	select {
	case c.ping <- struct{}{}:
	default:
	}
	return nil
}

// Close drops queued frames and closes the socket. It is idempotent.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.ws.Close()
	})
	return err
}

// Serve starts the write pump and runs the read pump until the socket fails
// or is closed, then calls h.OnClose.
func (c *Conn) Serve(h Handler) {
	go c.writePump()
	c.readPump(h)
}

func (c *Conn) readPump(h Handler) {
	defer func() {
		h.OnClose()
		c.Close()
	}()

	if c.opts.MaxMessageSize > 0 {
		c.ws.SetReadLimit(c.opts.MaxMessageSize)
	}
	c.ws.SetPongHandler(func(string) error {
		h.OnPong()
		return nil
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("websocket read error", "error", err)
			}
			return
		}
		h.OnMessage(data)
	}
}

func (c *Conn) writePump() {
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.Close()
				return
			}
		case <-c.ping:
			c.ws.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		}
	}
}
