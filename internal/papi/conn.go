package papi

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	apperrors "github.com/platformbible/website-viewer/internal/errors"
	"github.com/platformbible/website-viewer/internal/logging"
)

const (
	// writeWait is the deadline for a single WebSocket write.
	writeWait = 10 * time.Second
	// pongWait is how long to wait for a pong before the read fails.
	pongWait = 60 * time.Second
	// pingPeriod must be shorter than pongWait.
	pingPeriod = 54 * time.Second
	// sendBuffer is the outbound message queue size.
	sendBuffer = 256
)

// RequestHandler serves a request the host sends to the extension.
// The returned value is encoded as the response result.
type RequestHandler func(ctx context.Context, params json.RawMessage) (interface{}, error)

// EventHandler receives an event payload.
type EventHandler func(payload json.RawMessage)

// Conn is one WebSocket connection to the host.
type Conn struct {
	uri    string
	ws     *websocket.Conn
	send   chan []byte
	events chan *Message

	mu       sync.RWMutex
	pending  map[string]chan *Message
	handlers map[string]RequestHandler
	subs     map[string][]EventHandler

	closeOnce sync.Once
	done      chan struct{}
}

// Dial connects to the host at uri (e.g. "ws://localhost:8876/papi").
func Dial(ctx context.Context, uri string) (*Conn, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, uri, nil)
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to dial host %s", uri)
	}

	c := &Conn{
		uri:      uri,
		ws:       ws,
		send:     make(chan []byte, sendBuffer),
		events:   make(chan *Message, sendBuffer),
		pending:  make(map[string]chan *Message),
		handlers: make(map[string]RequestHandler),
		subs:     make(map[string][]EventHandler),
		done:     make(chan struct{}),
	}

	go c.writePump()
	go c.readPump()
	go c.eventLoop()

	logging.HostEvent("connected", uri)
	return c, nil
}

// Done is closed when the connection is gone.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Close tears down the connection.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.ws.Close()
		logging.HostEvent("disconnected", c.uri)
	})
	return err
}

// Handle registers a handler for requests the host sends on subject.
// Registering again for the same subject replaces the handler.
func (c *Conn) Handle(subject string, handler RequestHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[subject] = handler
}

// Subscribe registers an event handler for the given event subject.
func (c *Conn) Subscribe(subject string, handler EventHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs[subject] = append(c.subs[subject], handler)
}

// Request sends a request to the host and decodes the response result into
// out (which may be nil). It fails when ctx expires, the connection drops,
// or the host reports an error.
func (c *Conn) Request(ctx context.Context, subject string, params, out interface{}) error {
	msg, err := NewRequest(subject, params)
	if err != nil {
		return err
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode request %s: %w", subject, err)
	}

	respCh := make(chan *Message, 1)
	c.mu.Lock()
	c.pending[msg.ID] = respCh
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, msg.ID)
		c.mu.Unlock()
	}()

	start := time.Now()
	select {
	case c.send <- data:
	case <-c.done:
		return apperrors.ErrNotConnected
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case resp := <-respCh:
		logging.HostRequest(subject, msg.ID, time.Since(start))
		if resp.Error != "" {
			return apperrors.NewHost(subject, resp.Error)
		}
		return resp.DecodeResult(out)
	case <-c.done:
		return apperrors.ErrNotConnected
	case <-ctx.Done():
		return ctx.Err()
	}
}

// readPump reads envelopes from the host and dispatches them.
func (c *Conn) readPump() {
	defer c.Close()

	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Error("host connection read failed", "error", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			logging.Warn("dropping malformed host message", "error", err)
			continue
		}

		switch msg.Type {
		case MessageResponse:
			c.dispatchResponse(&msg)
		case MessageRequest:
			go c.serveRequest(&msg)
		case MessageEvent:
			c.dispatchEvent(&msg)
		default:
			logging.Warn("dropping host message with unknown type", "type", string(msg.Type))
		}
	}
}

// writePump writes queued envelopes and keeps the connection alive.
func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case data := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// dispatchResponse routes a response to the waiting request.
func (c *Conn) dispatchResponse(msg *Message) {
	c.mu.RLock()
	respCh, ok := c.pending[msg.ID]
	c.mu.RUnlock()

	if !ok {
		logging.Warn("dropping response with no pending request", "request_id", msg.ID)
		return
	}

	select {
	case respCh <- msg:
	default:
	}
}

// serveRequest runs a handler for a host-initiated request and responds.
func (c *Conn) serveRequest(msg *Message) {
	c.mu.RLock()
	handler, ok := c.handlers[msg.Subject]
	c.mu.RUnlock()

	ctx := logging.WithRequestID(context.Background(), msg.ID)

	var reply *Message
	if !ok {
		logging.WarnContext(ctx, "no handler for host request", "subject", msg.Subject)
		reply = NewErrorResponse(msg.ID, fmt.Sprintf("no handler for %s", msg.Subject))
	} else if result, err := handler(ctx, msg.Params); err != nil {
		logging.ErrorContext(ctx, "host request handler failed", "subject", msg.Subject, "error", err)
		reply = NewErrorResponse(msg.ID, err.Error())
	} else {
		encoded, err := NewResponse(msg.ID, result)
		if err != nil {
			reply = NewErrorResponse(msg.ID, err.Error())
		} else {
			reply = encoded
		}
	}

	data, err := json.Marshal(reply)
	if err != nil {
		logging.ErrorContext(ctx, "failed to encode response", "subject", msg.Subject, "error", err)
		return
	}

	select {
	case c.send <- data:
	case <-c.done:
	}
}

// dispatchEvent queues an event for ordered delivery. Events are delivered
// from a single goroutine so position updates cannot be observed out of
// order; handlers may issue requests without blocking the read pump.
func (c *Conn) dispatchEvent(msg *Message) {
	select {
	case c.events <- msg:
	default:
		logging.Warn("event queue full, dropping event", "subject", msg.Subject)
	}
}

// eventLoop delivers queued events to subscribers in arrival order.
func (c *Conn) eventLoop() {
	for {
		select {
		case msg := <-c.events:
			c.mu.RLock()
			handlers := make([]EventHandler, len(c.subs[msg.Subject]))
			copy(handlers, c.subs[msg.Subject])
			c.mu.RUnlock()

			for _, handler := range handlers {
				handler(msg.Params)
			}
		case <-c.done:
			return
		}
	}
}
