package signaling

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/gorilla/websocket"
)

// PingInterval is how often the client sends a heartbeat.
var PingInterval = 25 * time.Second

// ErrNotConnected is returned by the send methods before Connect.
var ErrNotConnected = errors.New("signaling: not connected")

// Handler callbacks for incoming signaling messages. They run on the read
// goroutine.
type Handler struct {
	OnRegistered            func()
	OnOffer                 func(from string, payload []byte)
	OnAnswer                func(from string, payload []byte)
	OnICECandidate          func(from string, payload []byte)
	OnPublishersUpdated     func(list []PublisherInfo)
	OnPublisherDisconnected func(id string)
	OnError                 func(msg string)
}

// Client is a WebSocket signaling client.
type Client struct {
	url     string
	id      string
	role    string
	handler Handler

	mu     sync.Mutex
	conn   *websocket.Conn
	done   chan struct{}
	closed bool
}

// NewClient creates a signaling client registering as id with role.
func NewClient(url, id, role string, handler Handler) *Client {
	return &Client{
		url:     url,
		id:      id,
		role:    role,
		handler: handler,
		done:    make(chan struct{}),
	}
}

// ID returns the id the client registers with.
func (c *Client) ID() string { return c.id }

// Connect dials the signaling server, registers and starts the read and
// heartbeat loops. They stop on Close or when ctx is done.
func (c *Client) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("signaling dial %s: %w", c.url, err)
	}
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	if err := c.send(Message{Type: TypeRegister, ID: c.id, Role: c.role}); err != nil {
		c.Close()
		return fmt.Errorf("signaling register: %w", err)
	}

	go c.readLoop(ctx)
	go c.pingLoop(ctx)
	return nil
}

// Close shuts down the connection. It is safe to call more than once.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
	if c.conn != nil {
		c.conn.Close()
	}
}

// Done is closed once the client has shut down.
func (c *Client) Done() <-chan struct{} { return c.done }

// SendOffer sends an SDP offer to target.
func (c *Client) SendOffer(target string, payload []byte) error {
	return c.send(Message{Type: TypeOffer, Target: target, Payload: payload})
}

// SendAnswer sends an SDP answer to target.
func (c *Client) SendAnswer(target string, payload []byte) error {
	return c.send(Message{Type: TypeAnswer, Target: target, Payload: payload})
}

// SendICECandidate sends an ICE candidate to target.
func (c *Client) SendICECandidate(target string, payload []byte) error {
	return c.send(Message{Type: TypeICECandidate, Target: target, Payload: payload})
}

// RequestPublishers asks the server for the online publishers.
func (c *Client) RequestPublishers() error {
	return c.send(Message{Type: TypeListPublishers})
}

func (c *Client) send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return ErrNotConnected
	}
	msg.Timestamp = time.Now().UnixMilli()
	return c.conn.WriteJSON(msg)
}

func (c *Client) readLoop(ctx context.Context) {
	defer c.Close()
	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			select {
			case <-c.done:
			case <-ctx.Done():
			default:
				logger.Errorf(ctx, "signaling read: %v", err)
			}
			return
		}
		logger.Tracef(ctx, "signaling <- %s from %q", msg.Type, msg.From)
		c.dispatch(msg)
	}
}

func (c *Client) dispatch(msg Message) {
	h := c.handler
	switch msg.Type {
	case TypeRegistered:
		if h.OnRegistered != nil {
			h.OnRegistered()
		}
	case TypeOffer:
		if h.OnOffer != nil {
			h.OnOffer(msg.From, msg.Payload)
		}
	case TypeAnswer:
		if h.OnAnswer != nil {
			h.OnAnswer(msg.From, msg.Payload)
		}
	case TypeICECandidate:
		if h.OnICECandidate != nil {
			h.OnICECandidate(msg.From, msg.Payload)
		}
	case TypePublishers, TypePublishersUpdated:
		if h.OnPublishersUpdated != nil {
			h.OnPublishersUpdated(msg.List)
		}
	case TypePublisherDisconnected:
		if h.OnPublisherDisconnected != nil {
			h.OnPublisherDisconnected(msg.PublisherID)
		}
	case TypeError:
		if h.OnError != nil {
			h.OnError(msg.Msg)
		}
	case TypePong:
	}
}

func (c *Client) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ctx.Done():
			c.Close()
			return
		case <-ticker.C:
			if err := c.send(Message{Type: TypePing}); err != nil {
				logger.Debugf(ctx, "signaling ping: %v", err)
			}
		}
	}
}
